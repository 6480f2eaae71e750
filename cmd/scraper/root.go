package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aluiziolira/go-scrape-threads/config"
	"github.com/aluiziolira/go-scrape-threads/models"
	"github.com/aluiziolira/go-scrape-threads/pipeline"
	"github.com/aluiziolira/go-scrape-threads/scraper"
)

type options struct {
	configFile   string
	baseURL      string
	targets      []string
	category     string
	timePeriod   string
	count        int
	maxPages     int
	backend      string
	showBrowser  bool
	browserBin   string
	userDataDir  string
	timeout      time.Duration
	delay        time.Duration
	outputDir    string
	outputFormat string
	metricsAddr  string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	cmd, _ := newCommand()
	return cmd
}

func newCommand() (*cobra.Command, *options) {
	opts := &options{}
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "scraper [target...]",
		Short:         "Scrape top threads of each target from old.reddit.com into JSON files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd.Flags(), opts, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "YAML config file merged over the defaults")
	f.StringVar(&opts.baseURL, "base-url", defaults.BaseURL, "Site origin")
	f.StringSliceVarP(&opts.targets, "targets", "t", defaults.Targets, "Targets to scrape, in order")
	f.StringVar(&opts.category, "category", defaults.Category, "Listing category: hot, new or top")
	f.StringVar(&opts.timePeriod, "time", defaults.TimePeriod, "Time window for top: day, week, month, year or all")
	f.IntVarP(&opts.count, "count", "n", defaults.TargetCount, "Posts to collect per target")
	f.IntVar(&opts.maxPages, "max-pages", defaults.MaxPages, "Maximum listing pages per target")
	f.StringVar(&opts.backend, "backend", defaults.Backend, "Session backend: rod or static")
	f.BoolVar(&opts.showBrowser, "show-browser", defaults.ShowBrowser, "Run the browser with a visible window")
	f.StringVar(&opts.browserBin, "browser-bin", defaults.BrowserBin, "Chrome binary (auto-detected when empty)")
	f.StringVar(&opts.userDataDir, "user-data-dir", defaults.UserDataDir, "Browser profile directory")
	f.DurationVar(&opts.timeout, "timeout", defaults.NavigationTimeout, "Per-navigation timeout")
	f.DurationVar(&opts.delay, "delay", defaults.Delay, "Minimum delay between navigations")
	f.StringVarP(&opts.outputDir, "output-dir", "o", defaults.OutputDir, "Output directory")
	f.StringVar(&opts.outputFormat, "format", defaults.OutputFormat, "Output format: json, jsonl, csv, dual or sqlite")
	f.StringVar(&opts.metricsAddr, "metrics-addr", defaults.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	f.BoolVarP(&opts.verbose, "verbose", "v", defaults.Verbose, "Enable verbose logging")

	return cmd, opts
}

// buildConfig layers defaults, the config file, the environment and the
// flags that were set explicitly. Positional args replace the target list.
func buildConfig(flags *pflag.FlagSet, opts *options, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := config.LoadFile(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("base-url", func() { cfg.BaseURL = opts.baseURL })
	set("targets", func() { cfg.Targets = opts.targets })
	set("category", func() { cfg.Category = strings.ToLower(opts.category) })
	set("time", func() { cfg.TimePeriod = strings.ToLower(opts.timePeriod) })
	set("count", func() { cfg.TargetCount = opts.count })
	set("max-pages", func() { cfg.MaxPages = opts.maxPages })
	set("backend", func() { cfg.Backend = opts.backend })
	set("show-browser", func() { cfg.ShowBrowser = opts.showBrowser })
	set("browser-bin", func() { cfg.BrowserBin = opts.browserBin })
	set("user-data-dir", func() { cfg.UserDataDir = opts.userDataDir })
	set("timeout", func() { cfg.NavigationTimeout = opts.timeout })
	set("delay", func() { cfg.Delay = opts.delay })
	set("output-dir", func() { cfg.OutputDir = opts.outputDir })
	set("format", func() { cfg.OutputFormat = strings.ToLower(opts.outputFormat) })
	set("metrics-addr", func() { cfg.MetricsAddr = opts.metricsAddr })
	set("verbose", func() { cfg.Verbose = opts.verbose })
	if len(args) > 0 {
		cfg.Targets = args
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		return fmt.Errorf("initialising scraper: %w", err)
	}

	if cfg.MetricsAddr != "" {
		stop := startMetricsServer(cfg.MetricsAddr, s.Metrics.Registry)
		defer stop()
	}

	slog.Info("starting scrape",
		slog.String("base_url", cfg.BaseURL),
		slog.Any("targets", cfg.Targets),
		slog.Int("count", cfg.TargetCount),
		slog.String("backend", cfg.Backend),
	)

	start := time.Now()
	results, err := runBatch(ctx, s, cfg)
	printSummary(results, time.Since(start), cfg)
	return err
}

type targetRunner interface {
	Run(ctx context.Context, target string) (*models.ScrapeResult, error)
}

// runBatch scrapes targets in order. The first failing target stops the
// batch; outputs already written stay on disk. Write failures are logged
// and do not stop the batch.
func runBatch(ctx context.Context, r targetRunner, cfg *config.Config) ([]*models.ScrapeResult, error) {
	results := make([]*models.ScrapeResult, 0, len(cfg.Targets))
	for _, target := range cfg.Targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := r.Run(ctx, target)
		if err != nil {
			return results, fmt.Errorf("target %s: %w", target, err)
		}
		results = append(results, result)

		if result.Aborted {
			slog.Warn("target finished with partial results",
				slog.String("target", target),
				slog.Int("posts", len(result.Posts)),
				slog.String("reason", result.AbortReason),
			)
		}

		if err := pipeline.WritePosts(cfg.OutputFormat, cfg.OutputDir, target, result.Posts); err != nil {
			slog.Error("write output", slog.String("target", target), slog.Any("error", err))
			continue
		}
		slog.Info("output written",
			slog.String("target", target),
			slog.String("path", outputPath(cfg, target)),
			slog.Int("posts", len(result.Posts)),
		)
	}
	return results, nil
}

func outputPath(cfg *config.Config, target string) string {
	switch cfg.OutputFormat {
	case "sqlite":
		return filepath.Join(cfg.OutputDir, "scrape.db")
	case "dual":
		return filepath.Join(cfg.OutputDir, target+".{csv,json}")
	default:
		return filepath.Join(cfg.OutputDir, target+"."+cfg.OutputFormat)
	}
}
