package agent

import (
	"context"

	"github.com/scipunch/newsbrief/fetcher/types"
)

// Summarizer condenses fetched news items into a short answer for the query.
type Summarizer interface {
	// Summarize returns a few sentences synthesizing the items for the query
	Summarize(ctx context.Context, query string, items []types.NewsItem) (string, error)

	// Name returns the backend identifier (e.g., "openai")
	Name() string
}
