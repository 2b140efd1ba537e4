package fetcher

import (
	"fmt"

	"github.com/scipunch/newsbrief/config"
	"github.com/scipunch/newsbrief/filter"
	"github.com/scipunch/newsbrief/parser/web"
	"github.com/scipunch/newsbrief/resolver"
)

// New wires the feed reader, redirect resolver, article scraper and entry
// filters described by the config into a NewsFetcher.
func New(conf config.Config) (*NewsFetcher, error) {
	filters, err := filter.NewFilterPipeline(conf.Filters)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize filters: %w", err)
	}

	scraper, err := web.New(web.Options{
		Timeout:   conf.Scraper.Timeout.Duration,
		UserAgent: conf.Scraper.UserAgent,
		MinChars:  conf.Scraper.MinChars,
		MaxChars:  conf.Scraper.MaxChars,
		Extractor: conf.Scraper.Extractor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scraper: %w", err)
	}

	return NewNewsFetcher(
		NewRSSFetcher(conf.Feed.Timeout.Duration, conf.Scraper.UserAgent),
		resolver.New(conf.Resolver.Timeout.Duration),
		scraper,
		filters,
		SearchOptions{
			Endpoint:    conf.Feed.Endpoint,
			Language:    conf.Feed.Language,
			Region:      conf.Feed.Region,
			Edition:     conf.Feed.Edition,
			MaxItems:    conf.Feed.MaxItems,
			MaxChars:    conf.Scraper.MaxChars,
			FilterNames: conf.Feed.FilterNames,
		},
	), nil
}
