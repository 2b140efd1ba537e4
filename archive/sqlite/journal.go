package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/scipunch/newsbrief/archive"
)

//go:embed schema.sql
var schemaSQL string

// Journal keeps a local append-only copy of every archived record
type Journal struct {
	db *sql.DB
}

// New opens (or creates) the journal database at the given path
func New(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Name() string {
	return "journal"
}

// Write appends the record
func (j *Journal) Write(ctx context.Context, r archive.Record) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO archive_journal (query, summary, source_link, archived_at)
		VALUES (?, ?, ?, ?)
	`, r.Query, r.Summary, r.SourceLink, r.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("failed to append journal record: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first
func (j *Journal) Recent(ctx context.Context, n int) ([]archive.Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT query, summary, source_link, archived_at
		FROM archive_journal
		ORDER BY archived_at DESC, id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var records []archive.Record
	for rows.Next() {
		var r archive.Record
		var archivedAt int64
		if err := rows.Scan(&r.Query, &r.Summary, &r.SourceLink, &archivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		r.Timestamp = time.Unix(archivedAt, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of journal records
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archive_journal").Scan(&n)
	return n, err
}

// Close closes the journal database
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
