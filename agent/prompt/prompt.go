package prompt

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/scipunch/newsbrief/fetcher/types"
	"github.com/scipunch/newsbrief/parser"
)

// ErrNoArticles is returned when a summary is requested for an empty item list.
var ErrNoArticles = errors.New("no articles to summarize")

// Prompt is the rendered request sent to a language model.
type Prompt struct {
	System string
	User   string
}

// Builder renders the system instruction and the article body.
type Builder struct {
	instruction *template.Template
	maxChars    int
}

func NewBuilder(instruction string, maxChars int) (*Builder, error) {
	tmpl, err := template.New("instruction").Option("missingkey=error").Parse(instruction)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instruction template: %w", err)
	}
	return &Builder{instruction: tmpl, maxChars: maxChars}, nil
}

// Build renders the prompt. Item content is cut to maxChars as a last guard on request size.
func (b *Builder) Build(query string, items []types.NewsItem) (Prompt, error) {
	if len(items) == 0 {
		return Prompt{}, ErrNoArticles
	}

	var system strings.Builder
	if err := b.instruction.Execute(&system, struct{ Query string }{Query: query}); err != nil {
		return Prompt{}, fmt.Errorf("failed to render instruction: %w", err)
	}

	var user strings.Builder
	for i, item := range items {
		content := item.Content
		if b.maxChars > 0 {
			content = parser.Truncate(content, b.maxChars)
		}
		fmt.Fprintf(&user, "\n[기사 %d: %s]\n본문내용: %s\n", i+1, item.Title, content)
	}

	return Prompt{System: system.String(), User: user.String()}, nil
}
