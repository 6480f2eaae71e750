package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Mode decides what a missing element means for a rule.
type Mode int

const (
	// Strict rules fail the scrape when nothing matches.
	Strict Mode = iota
	// BestEffort rules mark structure; a miss ends the phase and keeps what was collected.
	BestEffort
	// Optional rules leave the field empty on a miss.
	Optional
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case BestEffort:
		return "best-effort"
	case Optional:
		return "optional"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Selector table keys, grouped by extraction phase.
const (
	ListingRow   = "listing.row"
	ListingRank  = "listing.rank"
	ListingTitle = "listing.title"
	ListingURL   = "listing.url"
	ListingNext  = "listing.next"

	DetailContent    = "detail.content"
	DetailParagraph  = "detail.paragraph"
	DetailTitle      = "detail.title"
	DetailScore      = "detail.score"
	DetailComments   = "detail.comments"
	DetailTime       = "detail.time"
	DetailAuthorName = "detail.author_name"
	DetailAuthorURL  = "detail.author_url"
)

// Rule is one row of the selector table. Attr is read instead of the text when set.
type Rule struct {
	Key      string
	Selector string
	Attr     string
	Mode     Mode
}

// Table maps rule keys to rules.
type Table map[string]Rule

const thing = `#siteTable > div[id^="thing_"]`

// DefaultTable returns the selectors for the old.reddit.com layout.
func DefaultTable() Table {
	rules := []Rule{
		{Key: ListingRow, Selector: `#siteTable > div[class*="self"]`, Mode: BestEffort},
		{Key: ListingRank, Selector: `span[class="rank"]`, Mode: Strict},
		{Key: ListingTitle, Selector: `p[class="title"]`, Mode: Strict},
		{Key: ListingURL, Selector: `p[class="title"] > a[data-event-action="title"]`, Attr: "href", Mode: Strict},
		{Key: ListingNext, Selector: `#siteTable > div[class="nav-buttons"] > span[class="nextprev"] > span[class="next-button"] > a`, Attr: "href", Mode: BestEffort},

		{Key: DetailContent, Selector: `div[class="expando"]`, Mode: BestEffort},
		{Key: DetailParagraph, Selector: `p`, Mode: BestEffort},
		{Key: DetailTitle, Selector: thing + ` > div[class="entry unvoted"] > div[class="top-matter"] > p[class="title"] > a[data-event-action="title"]`, Mode: Strict},
		{Key: DetailScore, Selector: thing + ` > div[class="midcol unvoted"] > div[class^="score"]`, Mode: Strict},
		{Key: DetailComments, Selector: thing + ` > div[class="entry unvoted"] > ul[class="flat-list buttons"] > li[class="first"] > a[data-event-action="comments"]`, Mode: Strict},
		{Key: DetailTime, Selector: thing + ` p.tagline time`, Attr: "datetime", Mode: Optional},
		{Key: DetailAuthorName, Selector: thing + ` p.tagline a.author`, Mode: Optional},
		{Key: DetailAuthorURL, Selector: thing + ` p.tagline a.author`, Attr: "href", Mode: Optional},
	}

	t := make(Table, len(rules))
	for _, r := range rules {
		t[r.Key] = r
	}
	return t
}

// With returns a copy of t with the selectors in overrides replaced.
// Modes and attributes stay fixed so control flow cannot change through config.
func (t Table) With(overrides map[string]string) (Table, error) {
	out := make(Table, len(t))
	for k, r := range t {
		out[k] = r
	}
	for key, sel := range overrides {
		r, ok := out[key]
		if !ok {
			return nil, fmt.Errorf("unknown selector key %q (known: %s)", key, strings.Join(t.Keys(), ", "))
		}
		if strings.TrimSpace(sel) == "" {
			return nil, fmt.Errorf("selector %q cannot be empty", key)
		}
		r.Selector = sel
		out[key] = r
	}
	return out, nil
}

// Rule returns the rule for key. Unknown keys panic: the key set is fixed.
func (t Table) Rule(key string) Rule {
	r, ok := t[key]
	if !ok {
		panic("parser: no selector rule for " + key)
	}
	return r
}

// Keys lists the table keys in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
