// Package scraper drives a browser session through a listing and its
// detail pages.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/aluiziolira/go-scrape-threads/browser"
	"github.com/aluiziolira/go-scrape-threads/config"
	"github.com/aluiziolira/go-scrape-threads/models"
	"github.com/aluiziolira/go-scrape-threads/parser"
)

// Scraper scrapes targets one at a time, each with its own session.
type Scraper struct {
	cfg     *config.Config
	base    *url.URL
	table   parser.Table
	opts    browser.Options
	Metrics *Metrics

	newSession func(browser.Options) (browser.Session, error)
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	table, err := parser.DefaultTable().With(cfg.Selectors)
	if err != nil {
		return nil, fmt.Errorf("selector overrides: %w", err)
	}

	return &Scraper{
		cfg:        cfg,
		base:       parsed,
		table:      table,
		opts:       browser.OptionsFromConfig(cfg),
		Metrics:    NewMetrics(),
		newSession: browser.New,
	}, nil
}

// Run scrapes one target: it opens a session on the first listing page,
// collects entries, enriches them and closes the session. A soft abort of
// the detail phase is reported on the result, not as an error.
func (s *Scraper) Run(ctx context.Context, target string) (*models.ScrapeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	startURL := PageURL(s.cfg.BaseURL, target, s.cfg.ListingCategory(), s.cfg.ListingPeriod())
	result := &models.ScrapeResult{
		Target:    target,
		StartURL:  startURL,
		StartTime: time.Now(),
	}

	inner, err := s.newSession(s.opts)
	if err != nil {
		s.Metrics.IncError(errorTypeLabel(err))
		return nil, fmt.Errorf("open session for %s: %w", target, err)
	}
	sess := &trackedSession{Session: inner, metrics: s.Metrics, phase: "listing"}
	defer func() {
		if err := sess.Close(); err != nil {
			slog.Warn("close session", slog.String("target", target), slog.Any("error", err))
		}
	}()

	slog.Info("scraping target",
		slog.String("target", target),
		slog.String("url", startURL),
		slog.Int("count", s.cfg.TargetCount),
	)
	if err := sess.Navigate(ctx, startURL); err != nil {
		return nil, fmt.Errorf("open start page for %s: %w", target, err)
	}

	entries, pages, err := s.collect(ctx, sess, s.cfg.TargetCount)
	result.PageCount = pages
	if err != nil {
		return nil, fmt.Errorf("collect entries for %s: %w", target, err)
	}
	result.Entries = entries

	sess.phase = "detail"
	posts, abort, err := s.Enrich(ctx, sess, entries)
	if err != nil {
		return nil, fmt.Errorf("enrich entries for %s: %w", target, err)
	}
	result.Posts = posts
	if abort != nil {
		result.Aborted = true
		result.AbortReason = abort.String()
	}

	result.Navigations = sess.navigations
	result.EndTime = time.Now()
	return result, nil
}
