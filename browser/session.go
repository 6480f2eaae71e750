// Package browser owns the page handle a scrape navigates with.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/aluiziolira/go-scrape-threads/config"
)

// ErrNoPage is returned once the page handle is gone.
var ErrNoPage = errors.New("browser: no page")

// Session is a single page reused for every navigation of one scrape.
// It is not safe for concurrent use.
type Session interface {
	// Navigate loads url and returns once the network is idle.
	Navigate(ctx context.Context, url string) error
	// HTML returns the current document.
	HTML(ctx context.Context) (string, error)
	// URL is the last navigated address.
	URL() string
	// Close releases the page. Closing twice is a no-op.
	Close() error
}

// Options configure a session backend.
type Options struct {
	Backend           string
	ShowBrowser       bool
	BrowserBin        string
	UserDataDir       string
	UserAgent         string
	AllowedHost       string
	NavigationTimeout time.Duration
	IdleWindow        time.Duration
	Delay             time.Duration
	// Transport replaces the HTTP transport of the static backend.
	Transport http.RoundTripper
}

// OptionsFromConfig copies the session settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Backend:           cfg.Backend,
		ShowBrowser:       cfg.ShowBrowser,
		BrowserBin:        cfg.BrowserBin,
		UserDataDir:       cfg.UserDataDir,
		UserAgent:         cfg.UserAgent,
		NavigationTimeout: cfg.NavigationTimeout,
		IdleWindow:        cfg.IdleWindow,
		Delay:             cfg.Delay,
	}
	if u, err := url.Parse(cfg.BaseURL); err == nil {
		opts.AllowedHost = u.Host
	}
	return opts
}

// New starts the configured backend with a blank page.
func New(opts Options) (Session, error) {
	switch opts.Backend {
	case "rod", "":
		s, err := NewRodSession(opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "static":
		return NewStaticSession(opts), nil
	default:
		return nil, LaunchError{Err: fmt.Errorf("unknown backend %q", opts.Backend)}
	}
}

func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
