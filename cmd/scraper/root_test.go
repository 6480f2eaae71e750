package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aluiziolira/go-scrape-threads/config"
	"github.com/aluiziolira/go-scrape-threads/models"
	"github.com/aluiziolira/go-scrape-threads/pipeline"
)

type fakeRunner struct {
	results map[string]*models.ScrapeResult
	fail    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, target string) (*models.ScrapeResult, error) {
	f.calls = append(f.calls, target)
	if err := f.fail[target]; err != nil {
		return nil, err
	}
	return f.results[target], nil
}

func resultFor(target string, n int) *models.ScrapeResult {
	r := &models.ScrapeResult{Target: target, StartTime: time.Now()}
	for i := 1; i <= n; i++ {
		e := models.Entry{Rank: i, Title: "t", URL: "https://old.reddit.com/r/" + target + "/comments/x/"}
		r.Entries = append(r.Entries, e)
		r.Posts = append(r.Posts, models.Post{Entry: e, Content: "c", Score: "1", Comments: i})
	}
	r.EndTime = r.StartTime.Add(time.Second)
	return r
}

func TestBuildConfigFlagsOverride(t *testing.T) {
	cmd, opts := newCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--count", "10", "--category", "HOT", "--format", "csv", "-t", "golang,rust"}))

	cfg, err := buildConfig(cmd.Flags(), opts, nil)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.TargetCount)
	require.Equal(t, "hot", cfg.Category)
	require.Equal(t, "csv", cfg.OutputFormat)
	require.Equal(t, []string{"golang", "rust"}, cfg.Targets)
	// untouched flags keep the defaults
	require.Equal(t, config.DefaultConfig().MaxPages, cfg.MaxPages)
}

func TestBuildConfigArgsAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_count: 7\nbackend: static\n"), 0o644))

	cmd, opts := newCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--count", "3"}))

	cfg, err := buildConfig(cmd.Flags(), opts, []string{"tifu"})
	require.NoError(t, err)
	require.Equal(t, 3, cfg.TargetCount)
	require.Equal(t, "static", cfg.Backend)
	require.Equal(t, []string{"tifu"}, cfg.Targets)
}

func TestBuildConfigInvalid(t *testing.T) {
	cmd, opts := newCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--format", "xml"}))
	_, err := buildConfig(cmd.Flags(), opts, nil)
	require.Error(t, err)
}

func TestRunBatchWritesEachTarget(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Targets = []string{"a", "b"}
	cfg.OutputDir = t.TempDir()

	partial := resultFor("b", 1)
	partial.Aborted = true
	partial.AbortReason = "entry 2: missing content"
	runner := &fakeRunner{results: map[string]*models.ScrapeResult{
		"a": resultFor("a", 3),
		"b": partial,
	}}

	results, err := runBatch(context.Background(), runner, cfg)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, []string{"a", "b"}, runner.calls)

	posts, err := pipeline.ReadJSON(filepath.Join(cfg.OutputDir, "a.json"))
	require.NoError(t, err)
	require.Len(t, posts, 3)

	posts, err = pipeline.ReadJSON(filepath.Join(cfg.OutputDir, "b.json"))
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestRunBatchStopsOnFirstFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Targets = []string{"a", "b", "c"}
	cfg.OutputDir = t.TempDir()

	runner := &fakeRunner{
		results: map[string]*models.ScrapeResult{"a": resultFor("a", 2), "c": resultFor("c", 2)},
		fail:    map[string]error{"b": errors.New("navigation failed")},
	}

	results, err := runBatch(context.Background(), runner, cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "target b")
	require.Len(t, results, 1)
	require.Equal(t, []string{"a", "b"}, runner.calls)

	require.FileExists(t, filepath.Join(cfg.OutputDir, "a.json"))
	require.NoFileExists(t, filepath.Join(cfg.OutputDir, "c.json"))
}

func TestRunBatchSwallowsWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := config.DefaultConfig()
	cfg.Targets = []string{"a", "b"}
	// a regular file where the output directory should be
	cfg.OutputDir = blocker

	runner := &fakeRunner{results: map[string]*models.ScrapeResult{"a": resultFor("a", 1), "b": resultFor("b", 1)}}
	results, err := runBatch(context.Background(), runner, cfg)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSummaryTable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Targets = []string{"a", "b"}
	partial := resultFor("b", 1)
	partial.Aborted = true

	// footers render upper case in the rounded style
	out := strings.ToLower(summaryTable([]*models.ScrapeResult{resultFor("a", 2), partial}, 2*time.Second, cfg).Render())
	require.True(t, strings.Contains(out, "2/2 targets"), out)
	require.Contains(t, out, "yes")
	require.Contains(t, out, "1.50 posts/s")
}
