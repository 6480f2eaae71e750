package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aluiziolira/go-scrape-threads/browser"
	"github.com/aluiziolira/go-scrape-threads/models"
	"github.com/aluiziolira/go-scrape-threads/parser"
)

// Abort describes why the detail phase stopped before the last entry.
type Abort struct {
	// Index of the entry that could not be extracted.
	Index int
	Entry models.Entry
	Err   error
}

// Label is the error type label of the abort cause.
func (a *Abort) Label() string {
	return errorTypeLabel(a.Err)
}

func (a *Abort) String() string {
	return fmt.Sprintf("entry %d (%s): %v", a.Entry.Rank, a.Entry.URL, a.Err)
}

// Enrich visits the detail page of every entry in order. A missing page
// handle or content container stops the loop and returns the posts built so
// far together with the Abort; navigation and strict field failures are
// returned as errors.
func (s *Scraper) Enrich(ctx context.Context, sess browser.Session, entries []models.Entry) ([]models.Post, *Abort, error) {
	posts := make([]models.Post, 0, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return posts, nil, err
		}

		post, err := s.enrichOne(ctx, sess, entry)
		if err != nil {
			if isSoftFailure(err) {
				abort := &Abort{Index: i, Entry: entry, Err: err}
				s.Metrics.IncAbort(abort.Label())
				slog.Warn("detail extraction stopped early",
					slog.Int("index", i),
					slog.Int("collected", len(posts)),
					slog.String("url", entry.URL),
					slog.String("reason", abort.Label()),
				)
				return posts, abort, nil
			}
			return posts, nil, err
		}

		posts = append(posts, post)
		s.Metrics.IncPosts()
	}
	return posts, nil, nil
}

func (s *Scraper) enrichOne(ctx context.Context, sess browser.Session, entry models.Entry) (models.Post, error) {
	if sess == nil {
		return models.Post{}, browser.ErrNoPage
	}
	if err := sess.Navigate(ctx, entry.URL); err != nil {
		return models.Post{}, err
	}
	html, err := sess.HTML(ctx)
	if err != nil {
		return models.Post{}, err
	}
	post, err := parser.ParseDetail(html, entry, s.table)
	if err != nil {
		s.Metrics.IncError(errorTypeLabel(err))
		return models.Post{}, fmt.Errorf("detail %d: %w", entry.Rank, err)
	}
	return post, nil
}

func isSoftFailure(err error) bool {
	if errors.Is(err, browser.ErrNoPage) {
		return true
	}
	var structure parser.StructureError
	return errors.As(err, &structure)
}
