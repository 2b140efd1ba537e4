package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/scipunch/newsbrief/config"
)

const prompt = "> "

// Responder produces the assistant turn for a user query
type Responder interface {
	Respond(ctx context.Context, query string) string
	IsGreeting(query string) bool
}

// REPL is the interactive chat surface: every user line yields exactly one
// assistant reply, kept in the session history.
type REPL struct {
	responder Responder
	session   *Session
	progress  string
}

func New(responder Responder, conf config.ChatConfig) *REPL {
	return &REPL{
		responder: responder,
		session:   &Session{},
		progress:  conf.ProgressMessage,
	}
}

func (r *REPL) Session() *Session {
	return r.session
}

type lineReader interface {
	ReadLine() (string, error)
}

type scannerReader struct {
	s *bufio.Scanner
}

func (s scannerReader) ReadLine() (string, error) {
	if s.s.Scan() {
		return s.s.Text(), nil
	}
	if err := s.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Run serves the conversation until EOF, /quit or context cancellation. When
// in is an interactive terminal the line is edited in raw mode.
func (r *REPL) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to switch terminal to raw mode with %w", err)
		}
		defer term.Restore(int(f.Fd()), state)

		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{in, out}, prompt)
		defer redirectLogs(ctx, t)()
		return r.loop(ctx, t, t)
	}

	return r.loop(ctx, scannerReader{bufio.NewScanner(in)}, out)
}

func (r *REPL) loop(ctx context.Context, lines lineReader, out io.Writer) error {
	fmt.Fprintln(out, titleStyle.Render("📰 AI 뉴스 봇"))
	fmt.Fprintln(out, hintStyle.Render("검색할 뉴스 주제를 입력하세요. /history, /quit"))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input with %w", err)
		}

		query := strings.TrimSpace(line)
		switch query {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/history":
			r.printHistory(out)
			continue
		}

		r.turn(ctx, query, out)
	}
}

func (r *REPL) turn(ctx context.Context, query string, out io.Writer) {
	r.session.Append(RoleUser, query)

	if !r.responder.IsGreeting(query) && r.progress != "" {
		fmt.Fprintln(out, hintStyle.Render(r.progress))
	}

	reply := r.responder.Respond(ctx, query)
	r.session.Append(RoleAssistant, reply)
	slog.Debug("chat turn completed", "query", query, "turns", r.session.Len())

	fmt.Fprintf(out, "%s %s\n\n", label(RoleAssistant), reply)
}

func (r *REPL) printHistory(out io.Writer) {
	messages := r.session.Messages()
	if len(messages) == 0 {
		fmt.Fprintln(out, hintStyle.Render("(empty)"))
		return
	}
	for _, m := range messages {
		fmt.Fprintf(out, "%s %s\n", label(m.Role), m.Content)
	}
	fmt.Fprintln(out)
}

// redirectLogs sends the default logger to w until the returned func is
// called. A raw-mode terminal needs \r\n line endings and prompt redraws,
// which its writer provides.
func redirectLogs(ctx context.Context, w io.Writer) (restore func()) {
	prev := slog.Default()

	level := slog.LevelInfo
	if prev.Enabled(ctx, slog.LevelDebug) {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))

	return func() { slog.SetDefault(prev) }
}
