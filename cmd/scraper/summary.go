package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/aluiziolira/go-scrape-threads/config"
	"github.com/aluiziolira/go-scrape-threads/models"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func summaryTable(results []*models.ScrapeResult, duration time.Duration, cfg *config.Config) table.Writer {
	t := newTable()
	t.SetTitle("Scrape complete")
	t.AppendHeader(table.Row{"Target", "Entries", "Posts", "Pages", "Navigations", "Partial", "Duration"})

	totalPosts := 0
	for _, r := range results {
		partial := ""
		if r.Aborted {
			partial = "yes"
		}
		t.AppendRow(table.Row{
			r.Target,
			len(r.Entries),
			len(r.Posts),
			r.PageCount,
			r.Navigations,
			partial,
			r.Duration().Round(time.Millisecond),
		})
		totalPosts += len(r.Posts)
	}

	postsPerSec := 0.0
	if duration.Seconds() > 0 {
		postsPerSec = float64(totalPosts) / duration.Seconds()
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d/%d targets", len(results), len(cfg.Targets)),
		"",
		totalPosts,
		"",
		"",
		fmt.Sprintf("%.2f posts/s", postsPerSec),
		duration.Round(time.Millisecond),
	})
	return t
}

func printSummary(results []*models.ScrapeResult, duration time.Duration, cfg *config.Config) {
	fmt.Println()
	summaryTable(results, duration, cfg).Render()
	fmt.Printf("Output: %s (%s)\n", cfg.OutputDir, cfg.OutputFormat)
}
