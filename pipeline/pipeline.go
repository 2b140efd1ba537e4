package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/scipunch/newsbrief/config"
	"github.com/scipunch/newsbrief/fetcher/types"
)

type Searcher interface {
	Search(ctx context.Context, keyword string) []types.NewsItem
}

type Summarizer interface {
	Summarize(ctx context.Context, query string, items []types.NewsItem) (string, error)
}

type Archiver interface {
	Save(ctx context.Context, query, summary, sourceLink string) bool
}

// Pipeline answers one user query at a time: fetch, summarize, archive, format.
type Pipeline struct {
	news       Searcher
	summarizer Summarizer
	archiver   Archiver
	replies    config.ChatConfig
}

func New(news Searcher, summarizer Summarizer, archiver Archiver, replies config.ChatConfig) *Pipeline {
	return &Pipeline{
		news:       news,
		summarizer: summarizer,
		archiver:   archiver,
		replies:    replies,
	}
}

// IsGreeting reports whether the query exactly matches one of the greeting phrases.
func (p *Pipeline) IsGreeting(query string) bool {
	return slices.Contains(p.replies.Greetings, query)
}

// Respond always produces a reply. An empty search and a model failure become
// canned messages; archive failures are only logged.
func (p *Pipeline) Respond(ctx context.Context, query string) string {
	if p.IsGreeting(query) {
		return p.replies.GreetingReply
	}

	items := p.news.Search(ctx, query)
	if len(items) == 0 {
		slog.Info("no articles found", "query", query)
		return p.replies.NotFoundReply
	}

	summary, err := p.summarizer.Summarize(ctx, query, items)
	if err != nil {
		slog.Error("summary failed", "query", query, "items", len(items), "error", err)
		return p.replies.UnavailableReply + sources(items)
	}

	if !p.archiver.Save(ctx, query, summary, items[0].Link) {
		slog.Warn("answer was not archived", "query", query)
	}

	return Format(query, summary, items)
}

// Format renders the markdown answer: a headed summary followed by the source links.
func Format(query, summary string, items []types.NewsItem) string {
	return fmt.Sprintf("**['%s' 심층 요약]**\n\n%s", query, summary) + sources(items)
}

func sources(items []types.NewsItem) string {
	var b strings.Builder
	b.WriteString("\n\n**출처:**")
	for _, item := range items {
		fmt.Fprintf(&b, "\n- [%s](%s)", item.Title, item.Link)
	}
	return b.String()
}
