package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aluiziolira/go-scrape-threads/models"
)

// NewWriter builds the writer for format under dir. File-based formats write
// one file per target; sqlite writes every target into scrape.db.
func NewWriter(format, dir, target string) (OutputWriter, error) {
	base := filepath.Join(dir, target)
	switch format {
	case "json", "":
		return NewJSONWriter(base + ".json")
	case "jsonl":
		return NewJSONLWriter(base + ".jsonl")
	case "csv":
		return NewCSVWriter(base + ".csv")
	case "dual":
		return NewDualWriter(base+".csv", base+".json")
	case "sqlite":
		return NewSQLiteWriter(filepath.Join(dir, "scrape.db"), target)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// WritePosts runs posts through a pipeline into a fresh writer and closes it.
func WritePosts(format, dir, target string, posts []models.Post) error {
	writer, err := NewWriter(format, dir, target)
	if err != nil {
		return err
	}

	p := NewPipeline(writer)
	p.Start()

	batch := make([]*models.Post, len(posts))
	for i := range posts {
		batch[i] = &posts[i]
	}
	procErr := p.Process(batch)
	closeErr := p.Close()
	writerErr := writer.Close()

	switch {
	case procErr != nil:
		return fmt.Errorf("process posts: %w", procErr)
	case closeErr != nil:
		return closeErr
	case writerErr != nil:
		return fmt.Errorf("close writer: %w", writerErr)
	}
	if err := writer.Validate(); err != nil {
		slog.Warn("output validation failed", slog.String("target", target), slog.Any("error", err))
	}
	return nil
}
