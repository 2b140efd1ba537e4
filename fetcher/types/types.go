package types

import (
	"context"
	"time"

	"github.com/scipunch/newsbrief/parser"
)

// Feed represents a collection of items from a feed source
type Feed struct {
	Title       string
	Description string
	Items       []FeedItem
}

// FeedItem represents a single entry in a feed
type FeedItem struct {
	Title           string
	Link            string
	Published       string // as written by the feed
	PublishedParsed time.Time
	GUID            string
}

// FeedFetcher is an interface for fetching feeds from different sources
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (Feed, error)
}

// NewsItem is one feed entry enriched with its resolved link and scraped text.
// Content holds at most the scraper's character limit, or a failure marker.
type NewsItem struct {
	Title       string
	Link        string
	PublishedAt string
	Content     string
	Failure     parser.Failure // empty when Content is real article text
}
