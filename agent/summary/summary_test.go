package summary

import (
	"context"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/genkit"

	"github.com/scipunch/newsbrief/agent/prompt"
)

func TestPromptDeclaresInputs(t *testing.T) {
	data, err := prompts.ReadFile(promptName + ".prompt")
	if err != nil {
		t.Fatalf("embedded prompt missing: %v", err)
	}
	text := string(data)

	for _, key := range []string{inputInstruction, inputArticles} {
		if !strings.Contains(text, "\n    "+key+": string") {
			t.Errorf("input schema does not declare %q", key)
		}
		if !strings.Contains(text, "{{"+key+"}}") {
			t.Errorf("template does not use %q", key)
		}
	}
}

func TestLookupPrompt(t *testing.T) {
	g := genkit.Init(context.Background(),
		genkit.WithPromptFS(prompts),
		genkit.WithPromptDir("."),
	)

	if _, err := lookupPrompt(g, promptName); err != nil {
		t.Errorf("expected embedded prompt to load: %v", err)
	}
	if _, err := lookupPrompt(g, "does-not-exist"); err == nil {
		t.Error("expected error for unknown prompt")
	}
}

func TestSummaryText(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "trimmed", raw: "\n  EV sales rose.  \n", want: "EV sales rose."},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace only", raw: " \n\t ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := summaryText(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNew_RequiresKeyAndModel(t *testing.T) {
	builder, err := prompt.NewBuilder("{{.Query}}", 3000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(context.Background(), "", "gemini-2.5-flash", builder); err == nil {
		t.Error("expected error without api key")
	}
	if _, err := New(context.Background(), "key", "", builder); err == nil {
		t.Error("expected error without model")
	}
}
