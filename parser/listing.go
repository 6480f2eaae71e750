package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-threads/models"
)

// Listing is what one listing page yields.
type Listing struct {
	Entries []models.Entry
	// NextURL is empty on the last page.
	NextURL string
}

// ParseListing extracts every row of a listing page. Rows are strict:
// a row that is present but lacks its rank, title or link is an error.
func ParseListing(html string, pageURL string, base *url.URL, t Table) (*Listing, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	var (
		entries []models.Entry
		rowErr  error
	)
	doc.Find(t.Rule(ListingRow).Selector).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		entry, err := parseRow(row, pageURL, base, t)
		if err != nil {
			rowErr = err
			return false
		}
		entries = append(entries, entry)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	listing := &Listing{Entries: entries}
	if href, ok := lookup(doc.Selection, t.Rule(ListingNext)); ok && strings.TrimSpace(href) != "" {
		next, err := ResolveURL(base, href)
		if err != nil {
			return nil, err
		}
		listing.NextURL = next
	}
	return listing, nil
}

func parseRow(row *goquery.Selection, pageURL string, base *url.URL, t Table) (models.Entry, error) {
	rankText, err := required(row, t.Rule(ListingRank), pageURL)
	if err != nil {
		return models.Entry{}, err
	}
	rank, err := ParseRank(rankText)
	if err != nil {
		return models.Entry{}, err
	}

	title, err := required(row, t.Rule(ListingTitle), pageURL)
	if err != nil {
		return models.Entry{}, err
	}

	href, err := required(row, t.Rule(ListingURL), pageURL)
	if err != nil {
		return models.Entry{}, err
	}
	link, err := ResolveURL(base, href)
	if err != nil {
		return models.Entry{}, err
	}

	return models.Entry{
		Rank:  rank,
		Title: strings.TrimSpace(title),
		URL:   link,
	}, nil
}
