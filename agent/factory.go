package agent

import (
	"context"
	"fmt"

	"github.com/scipunch/newsbrief/agent/openai"
	"github.com/scipunch/newsbrief/agent/prompt"
	"github.com/scipunch/newsbrief/agent/summary"
	"github.com/scipunch/newsbrief/config"
)

// New creates the summarizer selected by the LLM config.
// It fails fast on an unknown provider, a broken instruction template or missing credentials.
func New(ctx context.Context, conf config.LLMConfig, creds config.Credentials, maxChars int) (Summarizer, error) {
	builder, err := prompt.NewBuilder(conf.Instruction, maxChars)
	if err != nil {
		return nil, err
	}

	switch conf.Provider {
	case "", "openai":
		a, err := openai.New(creds.OpenAI.APIKey, conf.BaseURL, conf.Model, builder)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openai agent: %w", err)
		}
		return a, nil
	case "gemini":
		a, err := summary.New(ctx, creds.Gemini.APIKey, conf.Model, builder)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini agent: %w", err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", conf.Provider)
	}
}
