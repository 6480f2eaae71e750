// Package models defines data structures for the scraper.
package models

import "time"

// Entry is a single row of a listing page.
type Entry struct {
	Rank  int    `csv:"rank" json:"rank"`
	Title string `csv:"title" json:"title"`
	URL   string `csv:"url" json:"url"`
}

// Post is an Entry enriched with the fields of its detail page.
type Post struct {
	Entry
	Content    string `csv:"content" json:"content"`
	Score      string `csv:"score" json:"score"`
	Comments   int    `csv:"comments" json:"comments"`
	PostTime   string `csv:"post_time" json:"postTime,omitempty"`
	AuthorURL  string `csv:"author_url" json:"authorUrl,omitempty"`
	AuthorName string `csv:"author_name" json:"authorName,omitempty"`
}

// NewPost starts a Post from the entry it enriches.
func NewPost(e Entry) Post {
	return Post{Entry: e}
}

// ScrapeResult holds the overall result of scraping one target.
type ScrapeResult struct {
	Target      string
	StartURL    string
	Entries     []Entry
	Posts       []Post
	StartTime   time.Time
	EndTime     time.Time
	PageCount   int
	Navigations int
	Aborted     bool
	AbortReason string
}

// Duration reports how long the scrape took.
func (r *ScrapeResult) Duration() time.Duration {
	if r == nil || r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}
