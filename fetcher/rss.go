package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/scipunch/newsbrief/fetcher/types"
)

// RSSFetcher fetches RSS feeds using gofeed
type RSSFetcher struct {
	parser *gofeed.Parser
}

// NewRSSFetcher creates a new RSS fetcher
func NewRSSFetcher(timeout time.Duration, userAgent string) *RSSFetcher {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &RSSFetcher{parser: p}
}

// Fetch retrieves and parses an RSS feed from the given URL
func (f *RSSFetcher) Fetch(ctx context.Context, url string) (types.Feed, error) {
	var feed types.Feed

	gofeedFeed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return feed, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	feed.Title = gofeedFeed.Title
	feed.Description = gofeedFeed.Description
	feed.Items = make([]types.FeedItem, 0, len(gofeedFeed.Items))

	for _, item := range gofeedFeed.Items {
		feedItem := types.FeedItem{
			Title:     item.Title,
			Link:      item.Link,
			Published: item.Published,
			GUID:      item.GUID,
		}

		if item.PublishedParsed != nil {
			feedItem.PublishedParsed = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			feedItem.PublishedParsed = *item.UpdatedParsed
		}
		if feedItem.Published == "" {
			feedItem.Published = item.Updated
		}

		feed.Items = append(feed.Items, feedItem)
	}

	return feed, nil
}
