package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "zero max pages",
			mutate: func(cfg *Config) {
				cfg.MaxPages = 0
			},
			wantErr: "max pages",
		},
		{
			name: "negative target count",
			mutate: func(cfg *Config) {
				cfg.TargetCount = -1
			},
			wantErr: "target count",
		},
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "invalid url format",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "no targets",
			mutate: func(cfg *Config) {
				cfg.Targets = nil
			},
			wantErr: "target",
		},
		{
			name: "unknown category",
			mutate: func(cfg *Config) {
				cfg.Category = "rising"
			},
			wantErr: "category",
		},
		{
			name: "unknown period",
			mutate: func(cfg *Config) {
				cfg.TimePeriod = "decade"
			},
			wantErr: "time period",
		},
		{
			name: "unknown backend",
			mutate: func(cfg *Config) {
				cfg.Backend = "selenium"
			},
			wantErr: "backend",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.NavigationTimeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "bad format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
targets: [golang, rust]
category: new
target_count: 10
navigation_timeout: 5s
selectors:
  detail.content: div.usertext-body
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Targets) != 2 || cfg.Targets[0] != "golang" {
		t.Fatalf("targets = %v", cfg.Targets)
	}
	if cfg.Category != "new" || cfg.TargetCount != 10 {
		t.Fatalf("category=%q count=%d", cfg.Category, cfg.TargetCount)
	}
	if cfg.NavigationTimeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.NavigationTimeout)
	}
	if cfg.Selectors["detail.content"] != "div.usertext-body" {
		t.Fatalf("selectors = %v", cfg.Selectors)
	}
	// untouched fields keep their defaults
	if cfg.BaseURL != "https://old.reddit.com" || cfg.MaxPages != 20 || cfg.OutputFormat != "json" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("merged config should validate: %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SCRAPER_COUNT", "7")
	t.Setenv("SCRAPER_TARGETS", "a, b,,c")
	t.Setenv("SCRAPER_DELAY", "250ms")
	t.Setenv("SCRAPER_BACKEND", "static")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.TargetCount != 7 {
		t.Fatalf("count = %d, want 7", cfg.TargetCount)
	}
	if strings.Join(cfg.Targets, "|") != "a|b|c" {
		t.Fatalf("targets = %v", cfg.Targets)
	}
	if cfg.Delay != 250*time.Millisecond || cfg.Backend != "static" {
		t.Fatalf("delay=%v backend=%q", cfg.Delay, cfg.Backend)
	}
}

func TestApplyEnvInvalidInt(t *testing.T) {
	t.Setenv("SCRAPER_MAX_PAGES", "many")
	if err := DefaultConfig().ApplyEnv(); err == nil || !strings.Contains(err.Error(), "SCRAPER_MAX_PAGES") {
		t.Fatalf("expected SCRAPER_MAX_PAGES error, got %v", err)
	}
}
