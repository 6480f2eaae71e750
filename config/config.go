package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/aluiziolira/go-scrape-threads/models"
)

// Config holds scraper configuration.
type Config struct {
	BaseURL           string            `yaml:"base_url"`
	Targets           []string          `yaml:"targets"`
	Category          string            `yaml:"category"`
	TimePeriod        string            `yaml:"time_period"`
	TargetCount       int               `yaml:"target_count"`
	MaxPages          int               `yaml:"max_pages"`
	Backend           string            `yaml:"backend"` // rod or static
	ShowBrowser       bool              `yaml:"show_browser"`
	BrowserBin        string            `yaml:"browser_bin"`
	UserDataDir       string            `yaml:"user_data_dir"`
	NavigationTimeout time.Duration     `yaml:"navigation_timeout"`
	IdleWindow        time.Duration     `yaml:"idle_window"`
	Delay             time.Duration     `yaml:"delay"`
	UserAgent         string            `yaml:"user_agent"`
	OutputDir         string            `yaml:"output_dir"`
	OutputFormat      string            `yaml:"output_format"` // json, jsonl, csv, dual, or sqlite
	MetricsAddr       string            `yaml:"metrics_addr"`
	Verbose           bool              `yaml:"verbose"`
	Selectors         map[string]string `yaml:"selectors"`
}

// DefaultConfig returns the built-in batch: top of all time, 50 posts per target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "https://old.reddit.com",
		Targets:           []string{"AmItheAsshole", "tifu", "relationship_advice"},
		Category:          "top",
		TimePeriod:        "all",
		TargetCount:       50,
		MaxPages:          20,
		Backend:           "rod",
		NavigationTimeout: 30 * time.Second,
		IdleWindow:        500 * time.Millisecond,
		Delay:             0,
		UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		OutputDir:         "data",
		OutputFormat:      "json",
	}
}

// LoadFile reads a YAML file and merges it over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := mergo.Merge(cfg, fileCfg, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SCRAPER_* environment variables.
func (c *Config) ApplyEnv() error {
	if value, ok, err := EnvInt("SCRAPER_COUNT"); err != nil {
		return fmt.Errorf("invalid SCRAPER_COUNT: %w", err)
	} else if ok {
		c.TargetCount = value
	}
	if value, ok, err := EnvInt("SCRAPER_MAX_PAGES"); err != nil {
		return fmt.Errorf("invalid SCRAPER_MAX_PAGES: %w", err)
	} else if ok {
		c.MaxPages = value
	}
	if value, ok, err := EnvDuration("SCRAPER_DELAY"); err != nil {
		return fmt.Errorf("invalid SCRAPER_DELAY: %w", err)
	} else if ok {
		c.Delay = value
	}
	if value, ok := EnvString("SCRAPER_TARGETS"); ok {
		c.Targets = SplitList(value)
	}
	if value, ok := EnvString("SCRAPER_BACKEND"); ok {
		c.Backend = value
	}
	if value, ok := EnvString("SCRAPER_BROWSER_BIN"); ok {
		c.BrowserBin = value
	}
	if value, ok := EnvString("BOT_DATA_DIR"); ok {
		c.UserDataDir = value
	}
	if value, ok := EnvString("SCRAPER_OUTPUT_DIR"); ok {
		c.OutputDir = value
	}
	if value, ok := EnvString("SCRAPER_METRICS_ADDR"); ok {
		c.MetricsAddr = value
	}
	return nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}
	for _, t := range c.Targets {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("target names cannot be empty")
		}
	}
	if _, err := models.ParseCategory(c.Category); err != nil {
		return err
	}
	if _, err := models.ParseTimePeriod(c.TimePeriod); err != nil {
		return err
	}
	if c.TargetCount < 0 {
		return fmt.Errorf("target count cannot be negative")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Backend != "rod" && c.Backend != "static" {
		return fmt.Errorf("backend must be rod or static")
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive")
	}
	if c.IdleWindow < 0 {
		return fmt.Errorf("idle window cannot be negative")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	switch c.OutputFormat {
	case "json", "jsonl", "csv", "dual", "sqlite":
	default:
		return fmt.Errorf("output format must be json, jsonl, csv, dual, or sqlite")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}

// ListingCategory returns the parsed category. Call after Validate.
func (c *Config) ListingCategory() models.Category {
	cat, _ := models.ParseCategory(c.Category)
	return cat
}

// ListingPeriod returns the parsed time period. Call after Validate.
func (c *Config) ListingPeriod() models.TimePeriod {
	p, _ := models.ParseTimePeriod(c.TimePeriod)
	return p
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
