package pipeline

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aluiziolira/go-scrape-threads/models"
)

//go:embed schema.sql
var schema string

const insertPost = `INSERT INTO posts
    (target, rank, title, url, content, score, comments, post_time, author_url, author_name, scraped_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteWriter appends posts of one target to a sqlite database. Several
// targets may share the same file.
type SQLiteWriter struct {
	db     *sql.DB
	target string
	rows   int
	mu     sync.Mutex
}

// NewSQLiteWriter opens filename and creates the posts table if needed.
func NewSQLiteWriter(filename, target string) (*SQLiteWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteWriter{db: db, target: target}, nil
}

// Write inserts posts in a single transaction.
func (sw *SQLiteWriter) Write(posts []*models.Post) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	tx, err := sw.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.Prepare(insertPost)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, post := range posts {
		if _, err := stmt.Exec(
			sw.target, post.Rank, post.Title, post.URL, post.Content, post.Score,
			post.Comments, post.PostTime, post.AuthorURL, post.AuthorName, now,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert post %d: %w", post.Rank, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	sw.rows += len(posts)
	return nil
}

// Close closes the database handle.
func (sw *SQLiteWriter) Close() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.db.Close()
}

// Validate ensures at least one row was stored for the target.
func (sw *SQLiteWriter) Validate() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.rows == 0 {
		return fmt.Errorf("no rows written for %s", sw.target)
	}
	return nil
}

// ReadSQLite returns the stored posts of target in rank order.
func ReadSQLite(filename, target string) ([]models.Post, error) {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT rank, title, url, content, score, comments, post_time, author_url, author_name
        FROM posts WHERE target = ? ORDER BY id`, target)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		var postTime, authorURL, authorName sql.NullString
		if err := rows.Scan(&p.Rank, &p.Title, &p.URL, &p.Content, &p.Score, &p.Comments, &postTime, &authorURL, &authorName); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.PostTime, p.AuthorURL, p.AuthorName = postTime.String, authorURL.String, authorName.String
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
