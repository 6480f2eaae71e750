package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aluiziolira/go-scrape-threads/models"
)

func samplePosts() []models.Post {
	return []models.Post{
		{
			Entry:    models.Entry{Rank: 1, Title: "AITA for, well, \"this\"?", URL: "https://old.reddit.com/r/AmItheAsshole/comments/a1/x/"},
			Content:  "first paragraph second paragraph",
			Score:    "12345",
			Comments: 1234,
		},
		{
			Entry:      models.Entry{Rank: 2, Title: "Second", URL: "https://old.reddit.com/r/AmItheAsshole/comments/a2/y/"},
			Content:    "",
			Score:      "•",
			Comments:   0,
			PostTime:   "2020-01-02T03:04:05+00:00",
			AuthorURL:  "https://old.reddit.com/user/someone",
			AuthorName: "someone",
		},
	}
}

func pointers(posts []models.Post) []*models.Post {
	out := make([]*models.Post, len(posts))
	for i := range posts {
		out[i] = &posts[i]
	}
	return out
}

func TestCSVWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Write(pointers(samplePosts())); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records=%d, want 3", len(records))
	}
	if diff := cmp.Diff(csvHeader, records[0]); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if records[1][1] != `AITA for, well, "this"?` || records[1][5] != "1234" {
		t.Fatalf("unexpected first record: %v", records[1])
	}
	if records[2][8] != "someone" {
		t.Fatalf("unexpected author column: %v", records[2])
	}
}

func TestJSONWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tifu.json")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	posts := samplePosts()
	if err := writer.Write(pointers(posts[:1])); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Write(pointers(posts[1:])); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if diff := cmp.Diff(posts, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONWriterFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	if err := writer.Write(pointers(samplePosts())); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"rank", "title", "url", "content", "score", "comments"} {
		if _, ok := raw[0][key]; !ok {
			t.Fatalf("missing key %q in %v", key, raw[0])
		}
	}
	if _, ok := raw[0]["authorName"]; ok {
		t.Fatalf("empty optional field should be omitted: %v", raw[0])
	}
	if raw[1]["postTime"] != "2020-01-02T03:04:05+00:00" {
		t.Fatalf("postTime = %v", raw[1]["postTime"])
	}
}

func TestJSONWriterEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := WritePosts("json", filepath.Dir(path), "empty", nil); err != nil {
		t.Fatalf("write posts: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("content = %q, want []", data)
	}
}

func TestJSONLWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.jsonl")

	writer, err := NewJSONLWriter(path)
	if err != nil {
		t.Fatalf("create jsonl writer: %v", err)
	}
	if err := writer.Write(pointers(samplePosts())); err != nil {
		t.Fatalf("write jsonl: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close jsonl: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open jsonl: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var decoded models.Post
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		count++
		if decoded.Rank != count {
			t.Fatalf("line %d has rank %d", count, decoded.Rank)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan jsonl: %v", err)
	}
	if count != 2 {
		t.Fatalf("json lines=%d, want 2", count)
	}
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "posts.csv")
	jsonPath := filepath.Join(dir, "posts.json")

	writer, err := NewDualWriter(csvPath, jsonPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}
	if err := writer.Write(pointers(samplePosts())); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}

	got, err := ReadJSON(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("json posts = %d, want 2", len(got))
	}
}

func TestSQLiteWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	posts := samplePosts()

	if err := WritePosts("sqlite", dir, "AmItheAsshole", posts); err != nil {
		t.Fatalf("write sqlite: %v", err)
	}
	// a second target shares the database file
	if err := WritePosts("sqlite", dir, "tifu", posts[:1]); err != nil {
		t.Fatalf("write sqlite: %v", err)
	}

	path := filepath.Join(dir, "scrape.db")
	got, err := ReadSQLite(path, "AmItheAsshole")
	if err != nil {
		t.Fatalf("read sqlite: %v", err)
	}
	if diff := cmp.Diff(posts, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	other, err := ReadSQLite(path, "tifu")
	if err != nil {
		t.Fatalf("read sqlite: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("tifu rows = %d, want 1", len(other))
	}
}

func TestNewWriterFormats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		format string
		file   string
	}{
		{format: "json", file: "tifu.json"},
		{format: "jsonl", file: "tifu.jsonl"},
		{format: "csv", file: "tifu.csv"},
		{format: "dual", file: "tifu.csv"},
		{format: "sqlite", file: "scrape.db"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if err := WritePosts(tt.format, dir, "tifu", samplePosts()); err != nil {
				t.Fatalf("write %s: %v", tt.format, err)
			}
			if _, err := os.Stat(filepath.Join(dir, tt.file)); err != nil {
				t.Fatalf("expected %s: %v", tt.file, err)
			}
		})
	}

	if _, err := NewWriter("xml", dir, "tifu"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
