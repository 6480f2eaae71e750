// Package parser extracts entries and posts from listing and detail page HTML.
package parser

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-threads/models"
)

// ValidatePost ensures the extractor produced a well-formed record.
func ValidatePost(p *models.Post) error {
	if p == nil {
		return fmt.Errorf("post is nil")
	}
	if p.Rank < 1 {
		return fmt.Errorf("post rank %d must be positive", p.Rank)
	}
	u, err := url.Parse(p.URL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("post url %q is not absolute", p.URL)
	}
	if p.Comments < 0 {
		return fmt.Errorf("post comments %d cannot be negative for %s", p.Comments, p.URL)
	}
	return nil
}

// NormalizeScore strips thousands separators. The score stays a string
// because hidden scores render as placeholders such as "•".
func NormalizeScore(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), ",", "")
}

// ParseComments reads the leading token of a label like "1,234 comments".
func ParseComments(text string) (int, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, ParseError{Key: DetailComments, Text: text, Err: errors.New("empty label")}
	}
	n, err := strconv.Atoi(strings.ReplaceAll(fields[0], ",", ""))
	if err != nil {
		return 0, ParseError{Key: DetailComments, Text: text, Err: err}
	}
	if n < 0 {
		return 0, ParseError{Key: DetailComments, Text: text, Err: errors.New("negative count")}
	}
	return n, nil
}

// ParseRank reads the rank label of a listing row.
func ParseRank(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ParseError{Key: ListingRank, Text: text, Err: err}
	}
	if n < 1 {
		return 0, ParseError{Key: ListingRank, Text: text, Err: errors.New("rank must be positive")}
	}
	return n, nil
}

// ResolveURL makes href absolute against base.
func ResolveURL(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parse href %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func newDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// lookup returns the first match of r under scope, reading Attr when set.
func lookup(scope *goquery.Selection, r Rule) (string, bool) {
	m := scope.Find(r.Selector).First()
	if m.Length() == 0 {
		return "", false
	}
	if r.Attr != "" {
		return m.Attr(r.Attr)
	}
	return m.Text(), true
}

func required(scope *goquery.Selection, r Rule, pageURL string) (string, error) {
	value, ok := lookup(scope, r)
	if !ok {
		return "", FieldError{Key: r.Key, Selector: r.Selector, URL: pageURL}
	}
	return value, nil
}
