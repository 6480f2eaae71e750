// Package pagefixture renders minimal old.reddit.com style pages for tests.
package pagefixture

import (
	"fmt"
	"html"
	"strings"
)

// Row is one listing row. RankText overrides the rendered rank label when set.
type Row struct {
	Rank     int
	RankText string
	Title    string
	Href     string
	// Link rows are non-self posts and are not matched by the row selector.
	Link bool
	// OmitHref drops the title anchor to simulate a broken row.
	OmitHref bool
}

// Rows builds n self-post rows for sub starting at rank from.
func Rows(sub string, from, n int) []Row {
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		rank := from + i
		rows = append(rows, Row{
			Rank:  rank,
			Title: fmt.Sprintf("Post %d", rank),
			Href:  PostPath(sub, rank),
		})
	}
	return rows
}

// PostPath is the relative permalink Rows uses for rank.
func PostPath(sub string, rank int) string {
	return fmt.Sprintf("/r/%s/comments/p%d/post_%d/", sub, rank, rank)
}

// Listing renders a listing page. An empty next omits the next-page link.
func Listing(rows []Row, next string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="siteTable">`)
	for _, r := range rows {
		kind := "self"
		if r.Link {
			kind = "link"
		}
		fmt.Fprintf(&b, `<div class=" thing id-t3_p%d odd %s " id="thing_t3_p%d">`, r.Rank, kind, r.Rank)
		label := r.RankText
		if label == "" {
			label = fmt.Sprintf("%d", r.Rank)
		}
		fmt.Fprintf(&b, `<span class="rank">%s</span>`, html.EscapeString(label))
		b.WriteString(`<div class="entry unvoted"><div class="top-matter"><p class="title">`)
		if r.OmitHref {
			fmt.Fprintf(&b, `<span>%s</span>`, html.EscapeString(r.Title))
		} else {
			fmt.Fprintf(&b, `<a class="title may-blank" data-event-action="title" href="%s">%s</a>`, html.EscapeString(r.Href), html.EscapeString(r.Title))
		}
		b.WriteString(`</p></div></div></div>`)
	}
	b.WriteString(`<div class="nav-buttons"><span class="nextprev">view more: `)
	if next != "" {
		fmt.Fprintf(&b, `<span class="next-button"><a href="%s" rel="nofollow next">next &rsaquo;</a></span>`, html.EscapeString(next))
	}
	b.WriteString(`</span></div></div></body></html>`)
	return b.String()
}

// Detail describes a detail page.
type Detail struct {
	Title      string
	Score      string
	Comments   string
	Paragraphs []string
	// NoContent drops the expando container.
	NoContent bool
	// NoScore drops the score element.
	NoScore   bool
	Time      string
	Author    string
	AuthorURL string
}

// DetailPage renders a thread page.
func DetailPage(d Detail) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="siteTable"><div class=" thing self link " id="thing_t3_x">`)
	b.WriteString(`<div class="midcol unvoted"><div class="arrow up"></div>`)
	if !d.NoScore {
		fmt.Fprintf(&b, `<div class="score unvoted" title="%s">%s</div>`, html.EscapeString(d.Score), html.EscapeString(d.Score))
	}
	b.WriteString(`</div><div class="entry unvoted"><div class="top-matter">`)
	fmt.Fprintf(&b, `<p class="title"><a class="title may-blank" data-event-action="title" href="#">%s</a></p>`, html.EscapeString(d.Title))
	b.WriteString(`<p class="tagline">submitted `)
	if d.Time != "" {
		fmt.Fprintf(&b, `<time datetime="%s">a while ago</time>`, html.EscapeString(d.Time))
	}
	if d.Author != "" {
		fmt.Fprintf(&b, ` by <a class="author may-blank" href="%s">%s</a>`, html.EscapeString(d.AuthorURL), html.EscapeString(d.Author))
	}
	b.WriteString(`</p></div>`)
	if !d.NoContent {
		b.WriteString(`<div class="expando"><form><div class="usertext-body"><div class="md">`)
		for _, p := range d.Paragraphs {
			fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(p))
		}
		b.WriteString(`</div></div></form></div>`)
	}
	fmt.Fprintf(&b, `<ul class="flat-list buttons"><li class="first"><a data-event-action="comments" href="#">%s</a></li></ul>`, html.EscapeString(d.Comments))
	b.WriteString(`</div></div></div></body></html>`)
	return b.String()
}
