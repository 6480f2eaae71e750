package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/time/rate"
)

// RodSession drives a headless Chromium through go-rod.
type RodSession struct {
	opts     Options
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	limiter  *rate.Limiter
	current  string
}

// NewRodSession launches a browser and opens one blank page.
func NewRodSession(opts Options) (*RodSession, error) {
	l := launcher.New().
		Headless(!opts.ShowBrowser).
		NoSandbox(true).
		Leakless(false).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-popup-blocking").
		Set("mute-audio")

	if dir := opts.UserDataDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Warn("user data dir unavailable, using a temporary profile",
				slog.String("dir", dir),
				slog.Any("error", err),
			)
		} else {
			l = l.UserDataDir(dir)
		}
	}
	if bin := findBrowserBin(opts.BrowserBin); bin != "" {
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, LaunchError{Err: fmt.Errorf("start browser: %w", err)}
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, LaunchError{Err: fmt.Errorf("connect to browser: %w", err)}
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, LaunchError{Err: fmt.Errorf("create page: %w", err)}
	}
	if opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			slog.Warn("set user agent failed", slog.Any("error", err))
		}
	}

	return &RodSession{
		opts:     opts,
		launcher: l,
		browser:  b,
		page:     page,
		limiter:  newLimiter(opts.Delay),
	}, nil
}

// Navigate loads url and waits until no request has been in flight for the idle window.
func (s *RodSession) Navigate(ctx context.Context, url string) error {
	if s.page == nil {
		return ErrNoPage
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return NavigationError{URL: url, Err: err}
	}

	if s.opts.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.NavigationTimeout)
		defer cancel()
	}

	page := s.page.Context(ctx)
	waitIdle := page.WaitRequestIdle(s.opts.IdleWindow, nil, nil, nil)
	if err := page.Navigate(url); err != nil {
		return NavigationError{URL: url, Err: err}
	}
	waitIdle()
	if err := ctx.Err(); err != nil {
		return NavigationError{URL: url, Err: err}
	}

	s.current = url
	return nil
}

// HTML returns the rendered DOM of the current page.
func (s *RodSession) HTML(ctx context.Context) (string, error) {
	if s.page == nil {
		return "", ErrNoPage
	}
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("read html of %s: %w", s.current, err)
	}
	return html, nil
}

// URL returns the last navigated address.
func (s *RodSession) URL() string {
	return s.current
}

// Close closes the page and the browser. Errors from an already closed
// page are dropped.
func (s *RodSession) Close() error {
	if s.browser == nil {
		return nil
	}
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	err := s.browser.Close()
	s.browser = nil
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

var browserPaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// findBrowserBin prefers an explicit binary, then a system Chrome. An empty
// result lets the launcher download Chromium.
func findBrowserBin(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := browserPaths
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		candidates = append(candidates, filepath.Join(local, "Google", "Chrome", "Application", "chrome.exe"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if path, ok := launcher.LookPath(); ok {
		return path
	}
	return ""
}
