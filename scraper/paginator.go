package scraper

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-threads/browser"
	"github.com/aluiziolira/go-scrape-threads/models"
	"github.com/aluiziolira/go-scrape-threads/parser"
)

// PageSize is the nominal number of rows per listing page. It is only used
// for progress accounting.
const PageSize = 25

// CollectEntries reads listing rows starting from the page sess is on and
// follows next-page links until targetCount entries are collected or the
// listing ends. The result holds min(targetCount, total) entries in listing
// order.
func (s *Scraper) CollectEntries(ctx context.Context, sess browser.Session, targetCount int) ([]models.Entry, error) {
	entries, _, err := s.collect(ctx, sess, targetCount)
	return entries, err
}

func (s *Scraper) collect(ctx context.Context, sess browser.Session, targetCount int) ([]models.Entry, int, error) {
	if sess == nil {
		return nil, 0, browser.ErrNoPage
	}

	visited, err := lru.New[string, struct{}](s.cfg.MaxPages + 1)
	if err != nil {
		return nil, 0, fmt.Errorf("visited cache: %w", err)
	}
	visited.Add(sess.URL(), struct{}{})

	var entries []models.Entry
	pages := 0
	for len(entries) < targetCount {
		if err := ctx.Err(); err != nil {
			return entries, pages, err
		}

		pageURL := sess.URL()
		html, err := sess.HTML(ctx)
		if err != nil {
			return entries, pages, fmt.Errorf("read listing %s: %w", pageURL, err)
		}
		listing, err := parser.ParseListing(html, pageURL, s.base, s.table)
		if err != nil {
			s.Metrics.IncError(errorTypeLabel(err))
			return entries, pages, fmt.Errorf("listing page %d: %w", pages+1, err)
		}

		pages++
		entries = append(entries, listing.Entries...)
		s.Metrics.IncListingPage()
		s.Metrics.AddEntries(len(listing.Entries))
		slog.Debug("listing page collected",
			slog.String("url", pageURL),
			slog.Int("page", pages),
			slog.Int("rows", len(listing.Entries)),
			slog.Int("progress", min(pages*PageSize, targetCount)),
			slog.Int("target", targetCount),
		)

		if listing.NextURL == "" {
			slog.Debug("listing exhausted", slog.Int("entries", len(entries)))
			break
		}
		if len(entries) >= targetCount {
			break
		}
		if pages >= s.cfg.MaxPages {
			slog.Warn("listing page bound reached",
				slog.Int("max_pages", s.cfg.MaxPages),
				slog.Int("entries", len(entries)),
			)
			break
		}
		if visited.Contains(listing.NextURL) {
			slog.Warn("next link points to a visited listing page",
				slog.String("url", listing.NextURL),
			)
			break
		}

		if err := sess.Navigate(ctx, listing.NextURL); err != nil {
			return entries, pages, err
		}
		visited.Add(listing.NextURL, struct{}{})
	}

	if len(entries) > targetCount {
		entries = entries[:targetCount]
	}
	return entries, pages, nil
}
