package filter

import (
	"fmt"
	"log/slog"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/scipunch/newsbrief/config"
	"github.com/scipunch/newsbrief/fetcher/types"
)

// FilterPipeline applies a series of named filters to feed entries
type FilterPipeline struct {
	filters map[string]*CompiledFilter
}

// CompiledFilter contains compiled regex patterns for efficient matching
type CompiledFilter struct {
	config          config.Filter
	excludePatterns []*regexp.Regexp
}

// NewFilterPipeline compiles the configured filters; an invalid pattern is an error
func NewFilterPipeline(filtersConfig map[string]config.Filter) (*FilterPipeline, error) {
	compiled := make(map[string]*CompiledFilter)

	for name, filterCfg := range filtersConfig {
		cf := &CompiledFilter{
			config:          filterCfg,
			excludePatterns: make([]*regexp.Regexp, 0, len(filterCfg.ExcludePatterns)),
		}

		for _, pattern := range filterCfg.ExcludePatterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("filter '%s' has invalid pattern '%s': %w", name, pattern, err)
			}
			cf.excludePatterns = append(cf.excludePatterns, re)
		}

		compiled[name] = cf
	}

	return &FilterPipeline{filters: compiled}, nil
}

// ShouldInclude returns true if the entry passes all filters in the pipeline
func (fp *FilterPipeline) ShouldInclude(item types.FeedItem, filterNames []string) (bool, string) {
	for _, filterName := range filterNames {
		filter, exists := fp.filters[filterName]
		if !exists {
			slog.Warn("filter not found, skipping", "filter_name", filterName)
			continue
		}

		if shouldInclude, reason := applyFilter(item, filter, filterName); !shouldInclude {
			return false, reason
		}
	}

	return true, ""
}

// Apply keeps the entries that pass, preserving feed order.
func (fp *FilterPipeline) Apply(items []types.FeedItem, filterNames []string) []types.FeedItem {
	if len(filterNames) == 0 {
		return items
	}

	kept := make([]types.FeedItem, 0, len(items))
	for _, item := range items {
		include, reason := fp.ShouldInclude(item, filterNames)
		if !include {
			slog.Debug("entry filtered out", "title", item.Title, "reason", reason, "url", item.Link)
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func applyFilter(item types.FeedItem, filter *CompiledFilter, filterName string) (bool, string) {
	text := item.Title

	if filter.config.MinLength > 0 && utf8.RuneCountInString(text) < filter.config.MinLength {
		return false, filterName + ":min_length"
	}

	if filter.config.MinWords > 0 && countWords(text) < filter.config.MinWords {
		return false, filterName + ":min_words"
	}

	for i, pattern := range filter.excludePatterns {
		if pattern.MatchString(text) {
			return false, filterName + ":exclude_pattern[" + filter.config.ExcludePatterns[i] + "]"
		}
	}

	return true, ""
}

func countWords(text string) int {
	words := 0
	inWord := false

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if !inWord {
				words++
				inWord = true
			}
		} else {
			inWord = false
		}
	}

	return words
}
