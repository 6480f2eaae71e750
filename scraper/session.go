package scraper

import (
	"context"
	"time"

	"github.com/aluiziolira/go-scrape-threads/browser"
)

// trackedSession counts and times navigations of the wrapped session.
type trackedSession struct {
	browser.Session
	metrics     *Metrics
	phase       string
	navigations int
}

func (t *trackedSession) Navigate(ctx context.Context, url string) error {
	start := time.Now()
	t.navigations++
	t.metrics.IncNavigation(t.phase)
	err := t.Session.Navigate(ctx, url)
	t.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		t.metrics.IncError(errorTypeLabel(err))
	}
	return err
}
