package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/scipunch/newsbrief/fetcher/types"
	"github.com/scipunch/newsbrief/filter"
	"github.com/scipunch/newsbrief/parser"
)

// Resolver maps a feed link to the article's final address.
type Resolver interface {
	Resolve(ctx context.Context, link string) string
}

// SearchOptions describe the news search endpoint.
type SearchOptions struct {
	Endpoint    string
	Language    string
	Region      string
	Edition     string
	MaxItems    int
	MaxChars    int
	FilterNames []string
}

// NewsFetcher searches a news feed by keyword and scrapes the top entries.
type NewsFetcher struct {
	feeds    types.FeedFetcher
	resolver Resolver
	parser   parser.Parser
	filters  *filter.FilterPipeline
	opts     SearchOptions
}

func NewNewsFetcher(feeds types.FeedFetcher, resolver Resolver, p parser.Parser, filters *filter.FilterPipeline, opts SearchOptions) *NewsFetcher {
	if opts.MaxItems <= 0 {
		opts.MaxItems = 2
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 3000
	}
	return &NewsFetcher{
		feeds:    feeds,
		resolver: resolver,
		parser:   p,
		filters:  filters,
		opts:     opts,
	}
}

// SearchURL builds the feed query for a keyword, e.g.
// https://news.google.com/rss/search?q=electric%20vehicles&hl=ko&gl=KR&ceid=KR:ko
func (f *NewsFetcher) SearchURL(keyword string) string {
	// QueryEscape turns spaces into '+', the feed expects %20
	q := strings.ReplaceAll(url.QueryEscape(keyword), "+", "%20")

	var b strings.Builder
	b.WriteString(f.opts.Endpoint)
	b.WriteString("?q=")
	b.WriteString(q)
	for _, param := range [][2]string{{"hl", f.opts.Language}, {"gl", f.opts.Region}, {"ceid", f.opts.Edition}} {
		if param[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "&%s=%s", param[0], param[1])
	}
	return b.String()
}

// Search returns at most MaxItems news items for the keyword, processed one
// after another. It never fails: an unreachable or broken feed is logged and
// yields an empty slice, like a feed with no entries, and page-level failures
// end up in the item's Content.
func (f *NewsFetcher) Search(ctx context.Context, keyword string) []types.NewsItem {
	feedURL := f.SearchURL(keyword)

	feed, err := f.feeds.Fetch(ctx, feedURL)
	if err != nil {
		slog.Error("feed fetch failed", "keyword", keyword, "url", feedURL, "error", err)
		return []types.NewsItem{}
	}

	entries := feed.Items
	if f.filters != nil {
		entries = f.filters.Apply(entries, f.opts.FilterNames)
	}
	if len(entries) > f.opts.MaxItems {
		entries = entries[:f.opts.MaxItems]
	}
	slog.Info("feed fetched", "keyword", keyword, "entries", len(feed.Items), "used", len(entries))

	items := make([]types.NewsItem, 0, len(entries))
	for _, entry := range entries {
		link := f.resolver.Resolve(ctx, entry.Link)
		res := f.parser.Parse(ctx, link)
		if !res.OK() {
			slog.Warn("article not scraped", "url", link, "reason", res.Failure, "error", res.Err)
		} else {
			slog.Info("article scraped", "url", link, "length", len(res.Text))
		}

		items = append(items, types.NewsItem{
			Title:       entry.Title,
			Link:        link,
			PublishedAt: entry.Published,
			Content:     parser.Truncate(res.String(), f.opts.MaxChars),
			Failure:     res.Failure,
		})
	}

	return items
}
