package summary

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/scipunch/newsbrief/agent/prompt"
	"github.com/scipunch/newsbrief/fetcher/types"
)

//go:embed *.prompt
var prompts embed.FS

const (
	agentName  = "gemini"
	promptName = "summary"

	// input keys declared in summary.prompt
	inputInstruction = "instruction"
	inputArticles    = "articles"
)

// SummaryAgent uses Gemini to summarize news items
type SummaryAgent struct {
	prompt  *ai.Prompt
	g       *genkit.Genkit
	builder *prompt.Builder
}

// New creates a new summary agent with its own genkit instance.
// It fails fast if the prompt is not found or the API key is missing.
func New(ctx context.Context, apiKey, model string, builder *prompt.Builder) (*SummaryAgent, error) {
	if apiKey == "" || model == "" {
		return nil, errors.New("invalid Gemini credentials: API key and model must be set")
	}

	g := genkit.Init(ctx,
		genkit.WithPlugins(&googlegenai.GoogleAI{
			APIKey: apiKey,
		}),
		genkit.WithPromptFS(prompts),
		genkit.WithPromptDir("."),
		genkit.WithDefaultModel(fmt.Sprintf("googleai/%s", model)),
	)

	summaryPrompt, err := lookupPrompt(g, promptName)
	if err != nil {
		return nil, err
	}

	return &SummaryAgent{
		prompt:  &summaryPrompt,
		g:       g,
		builder: builder,
	}, nil
}

// Name returns the agent identifier
func (a *SummaryAgent) Name() string {
	return agentName
}

// Summarize renders the shared prompt and executes it on Gemini
func (a *SummaryAgent) Summarize(ctx context.Context, query string, items []types.NewsItem) (string, error) {
	p, err := a.builder.Build(query, items)
	if err != nil {
		return "", err
	}

	resp, err := (*a.prompt).Execute(ctx,
		ai.WithInput(map[string]any{
			inputInstruction: p.System,
			inputArticles:    p.User,
		}))
	if err != nil {
		return "", fmt.Errorf("failed to execute summary prompt: %w", err)
	}

	return summaryText(resp.Text())
}

func lookupPrompt(g *genkit.Genkit, name string) (ai.Prompt, error) {
	p := genkit.LookupPrompt(g, name)
	if p == nil {
		return nil, fmt.Errorf("prompt '%s' not found in embedded files", name)
	}
	return p, nil
}

func summaryText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", errors.New("empty response from gemini")
	}
	return text, nil
}
