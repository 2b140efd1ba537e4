package chat

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/scipunch/newsbrief/config"
)

type echoResponder struct {
	queries []string
}

func (e *echoResponder) IsGreeting(query string) bool {
	return query == "안녕"
}

func (e *echoResponder) Respond(_ context.Context, query string) string {
	e.queries = append(e.queries, query)
	if e.IsGreeting(query) {
		return "hello there"
	}
	return "summary of " + query
}

func run(t *testing.T, input string) (*REPL, *echoResponder, string) {
	t.Helper()
	resp := &echoResponder{}
	r := New(resp, config.Default().Chat)

	var out bytes.Buffer
	if err := r.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return r, resp, out.String()
}

func TestRun_OneReplyPerTurn(t *testing.T) {
	r, resp, out := run(t, "electric vehicles\n\n  batteries  \n")

	if want := []string{"electric vehicles", "batteries"}; !reflect.DeepEqual(resp.queries, want) {
		t.Errorf("expected queries %v, got %v", want, resp.queries)
	}
	for _, reply := range []string{"summary of electric vehicles", "summary of batteries"} {
		if !strings.Contains(out, reply) {
			t.Errorf("output misses %q", reply)
		}
	}

	want := []Message{
		{Role: RoleUser, Content: "electric vehicles"},
		{Role: RoleAssistant, Content: "summary of electric vehicles"},
		{Role: RoleUser, Content: "batteries"},
		{Role: RoleAssistant, Content: "summary of batteries"},
	}
	if got := r.Session().Messages(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected history:\n got: %+v\nwant: %+v", got, want)
	}
}

func TestRun_ProgressOnlyForSearches(t *testing.T) {
	progress := config.Default().Chat.ProgressMessage

	_, _, out := run(t, "안녕\n")
	if strings.Contains(out, progress) {
		t.Error("greeting should not show the progress message")
	}
	if !strings.Contains(out, "hello there") {
		t.Error("greeting reply missing")
	}

	_, _, out = run(t, "AI\n")
	if !strings.Contains(out, progress) {
		t.Error("search should show the progress message")
	}
}

func TestRun_Quit(t *testing.T) {
	for _, cmd := range []string{"/quit", "/exit"} {
		t.Run(cmd, func(t *testing.T) {
			_, resp, _ := run(t, "first\n"+cmd+"\nnever\n")
			if !reflect.DeepEqual(resp.queries, []string{"first"}) {
				t.Errorf("expected only the first query, got %v", resp.queries)
			}
		})
	}
}

func TestRun_History(t *testing.T) {
	r, resp, out := run(t, "/history\nev\n/history\n")

	if !reflect.DeepEqual(resp.queries, []string{"ev"}) {
		t.Errorf("commands must not be searched, got %v", resp.queries)
	}
	if !strings.Contains(out, "(empty)") {
		t.Error("expected empty history notice")
	}
	if n := strings.Count(out, "summary of ev"); n != 2 {
		t.Errorf("expected the reply once as a turn and once in history, got %d", n)
	}
	if r.Session().Len() != 2 {
		t.Errorf("expected 2 messages, got %d", r.Session().Len())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	resp := &echoResponder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := New(resp, config.Default().Chat).Run(ctx, strings.NewReader("ev\n"), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(resp.queries) != 0 {
		t.Errorf("expected no queries, got %v", resp.queries)
	}
}

func TestSession_MessagesIsCopy(t *testing.T) {
	var s Session
	s.Append(RoleUser, "q")

	msgs := s.Messages()
	msgs[0].Content = "changed"

	if got := s.Messages()[0].Content; got != "q" {
		t.Errorf("history was modified through a copy: %q", got)
	}
}

func TestRedirectLogs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stderr, term bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	base := slog.Default()

	restore := redirectLogs(context.Background(), &term)
	slog.Debug("while chatting", "turn", 1)
	restore()
	slog.Info("after chat")

	if !strings.Contains(term.String(), "while chatting") {
		t.Errorf("expected log in terminal writer, got %q", term.String())
	}
	if strings.Contains(stderr.String(), "while chatting") {
		t.Error("log leaked to the previous writer while redirected")
	}
	if !strings.Contains(stderr.String(), "after chat") {
		t.Error("previous logger not restored")
	}
	if slog.Default() != base {
		t.Error("default logger differs after restore")
	}
}
