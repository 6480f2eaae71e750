package browser

import (
	"context"
	"fmt"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

// StaticSession fetches server-rendered pages over plain HTTP. A response
// that has been read in full counts as network idle.
type StaticSession struct {
	collector *colly.Collector
	limiter   *rate.Limiter
	current   string
	body      string
	closed    bool

	lastBody []byte
}

// NewStaticSession builds a synchronous colly collector for one scrape.
func NewStaticSession(opts Options) *StaticSession {
	collectorOpts := []colly.CollectorOption{
		colly.UserAgent(opts.UserAgent),
		colly.AllowURLRevisit(),
	}
	if opts.AllowedHost != "" {
		collectorOpts = append(collectorOpts, colly.AllowedDomains(opts.AllowedHost))
	}
	c := colly.NewCollector(collectorOpts...)
	if opts.NavigationTimeout > 0 {
		c.SetRequestTimeout(opts.NavigationTimeout)
	}
	if opts.Transport != nil {
		c.WithTransport(opts.Transport)
	}

	s := &StaticSession{
		collector: c,
		limiter:   newLimiter(opts.Delay),
	}
	c.OnResponse(func(r *colly.Response) {
		s.lastBody = r.Body
	})
	return s
}

// Navigate fetches url and keeps its body as the current document.
func (s *StaticSession) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return ErrNoPage
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return NavigationError{URL: url, Err: err}
	}

	s.lastBody = nil
	if err := s.collector.Visit(url); err != nil {
		return NavigationError{URL: url, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return NavigationError{URL: url, Err: err}
	}
	if s.lastBody == nil {
		return NavigationError{URL: url, Err: fmt.Errorf("empty response")}
	}

	s.current = url
	s.body = string(s.lastBody)
	return nil
}

// HTML returns the body of the last response.
func (s *StaticSession) HTML(ctx context.Context) (string, error) {
	if s.closed || s.current == "" {
		return "", ErrNoPage
	}
	return s.body, nil
}

// URL returns the last navigated address.
func (s *StaticSession) URL() string {
	return s.current
}

// Close drops the current document.
func (s *StaticSession) Close() error {
	s.closed = true
	s.body = ""
	return nil
}
