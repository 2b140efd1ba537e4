package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/scipunch/newsbrief/agent/prompt"
	"github.com/scipunch/newsbrief/fetcher/types"
)

const agentName = "openai"

// Agent summarizes through any OpenAI-compatible chat completion endpoint.
type Agent struct {
	client  *openai.Client
	model   openai.ChatModel
	prompts *prompt.Builder
}

// New creates the agent. The client never retries: a failed call is reported to the caller at once.
func New(apiKey, baseURL, model string, prompts *prompt.Builder) (*Agent, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key must be set")
	}
	if model == "" {
		return nil, errors.New("openai model must be set")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	return &Agent{
		client:  &client,
		model:   openai.ChatModel(model),
		prompts: prompts,
	}, nil
}

func (a *Agent) Name() string {
	return agentName
}

func (a *Agent) Summarize(ctx context.Context, query string, items []types.NewsItem) (string, error) {
	p, err := a.prompts.Build(query, items)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from openai")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response from openai")
	}
	return text, nil
}
