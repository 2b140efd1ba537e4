package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scipunch/newsbrief/config"
	"github.com/scipunch/newsbrief/fetcher/types"
)

var ErrArchiveFailed = errors.New("archive write failed")

type Searcher interface {
	Search(ctx context.Context, keyword string) []types.NewsItem
}

type Summarizer interface {
	Summarize(ctx context.Context, query string, items []types.NewsItem) (string, error)
}

type Archiver interface {
	Save(ctx context.Context, query, summary, sourceLink string) bool
}

// Job is the daily briefing: search the topic, summarize it and archive the
// result under the tagged query label.
type Job struct {
	news       Searcher
	summarizer Summarizer
	archiver   Archiver
	topic      string
	query      string
}

func NewJob(news Searcher, summarizer Summarizer, archiver Archiver, conf config.ScheduleConfig) *Job {
	return &Job{
		news:       news,
		summarizer: summarizer,
		archiver:   archiver,
		topic:      conf.Topic,
		query:      conf.ScheduledQuery(),
	}
}

// Run performs one briefing. Finding no articles is not an error: nothing is archived.
func (j *Job) Run(ctx context.Context) error {
	slog.Info("scheduled briefing started", "topic", j.topic)

	items := j.news.Search(ctx, j.topic)
	if len(items) == 0 {
		slog.Warn("scheduled briefing found no articles", "topic", j.topic)
		return nil
	}

	summary, err := j.summarizer.Summarize(ctx, j.topic, items)
	if err != nil {
		return fmt.Errorf("failed to summarize '%s' with %w", j.topic, err)
	}

	if !j.archiver.Save(ctx, j.query, summary, items[0].Link) {
		return ErrArchiveFailed
	}

	slog.Info("scheduled briefing archived", "query", j.query, "items", len(items))
	return nil
}
