package archive

import (
	"context"
	"log/slog"
	"time"
)

// Record is one archived answer: the query, the summary text, when it was
// written and the first source article.
type Record struct {
	Query      string
	Summary    string
	Timestamp  time.Time
	SourceLink string
}

// Writer persists a record into one destination.
type Writer interface {
	Write(ctx context.Context, r Record) error
	Name() string
}

// Archiver fans a record out to every configured writer.
type Archiver struct {
	writers []Writer
	now     func() time.Time
}

func New(writers ...Writer) *Archiver {
	return &Archiver{writers: writers, now: time.Now}
}

// Save stamps the record with the current time and writes it everywhere.
// Failures are logged, never returned; the result is true only when every
// writer succeeded.
func (a *Archiver) Save(ctx context.Context, query, summary, sourceLink string) bool {
	r := Record{
		Query:      query,
		Summary:    summary,
		Timestamp:  a.now(),
		SourceLink: sourceLink,
	}

	ok := true
	for _, w := range a.writers {
		if err := w.Write(ctx, r); err != nil {
			slog.Error("archive write failed", "writer", w.Name(), "query", query, "error", err)
			ok = false
			continue
		}
		slog.Info("archived", "writer", w.Name(), "query", query)
	}
	return ok
}
