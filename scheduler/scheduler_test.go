package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/scipunch/newsbrief/config"
	"github.com/scipunch/newsbrief/fetcher/types"
)

type fakeSearcher struct {
	items    []types.NewsItem
	keywords []string
}

func (f *fakeSearcher) Search(_ context.Context, keyword string) []types.NewsItem {
	f.keywords = append(f.keywords, keyword)
	return f.items
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ string, _ []types.NewsItem) (string, error) {
	f.calls++
	return f.summary, f.err
}

type saved struct {
	query, summary, link string
}

type fakeArchiver struct {
	mu    sync.Mutex
	saves []saved
	fail  bool
}

func (f *fakeArchiver) Save(_ context.Context, query, summary, link string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, saved{query, summary, link})
	return !f.fail
}

var twoItems = []types.NewsItem{
	{Title: "AI chip race", Link: "https://example.com/ai/1", Content: "..."},
	{Title: "New model release", Link: "https://example.com/ai/2", Content: "..."},
}

func TestJobRun(t *testing.T) {
	news := &fakeSearcher{items: twoItems}
	llm := &fakeSummarizer{summary: "AI 경쟁이 치열합니다."}
	arch := &fakeArchiver{}

	job := NewJob(news, llm, arch, config.Default().Schedule)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(news.keywords) != 1 || news.keywords[0] != "최신 AI 기술" {
		t.Errorf("unexpected searches %v", news.keywords)
	}
	if len(arch.saves) != 1 {
		t.Fatalf("expected 1 archive record, got %d", len(arch.saves))
	}
	want := saved{"[자동] 최신 AI 기술", "AI 경쟁이 치열합니다.", "https://example.com/ai/1"}
	if arch.saves[0] != want {
		t.Errorf("unexpected record:\n got: %+v\nwant: %+v", arch.saves[0], want)
	}
}

func TestJobRun_NoArticles(t *testing.T) {
	llm := &fakeSummarizer{summary: "unused"}
	arch := &fakeArchiver{}

	job := NewJob(&fakeSearcher{}, llm, arch, config.Default().Schedule)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if llm.calls != 0 {
		t.Errorf("expected no summary call, got %d", llm.calls)
	}
	if len(arch.saves) != 0 {
		t.Errorf("expected no archive write, got %d", len(arch.saves))
	}
}

func TestJobRun_Failures(t *testing.T) {
	conf := config.Default().Schedule

	t.Run("summarize", func(t *testing.T) {
		arch := &fakeArchiver{}
		job := NewJob(&fakeSearcher{items: twoItems}, &fakeSummarizer{err: errors.New("quota")}, arch, conf)
		if err := job.Run(context.Background()); err == nil {
			t.Error("expected error")
		}
		if len(arch.saves) != 0 {
			t.Errorf("expected no archive write, got %d", len(arch.saves))
		}
	})

	t.Run("archive", func(t *testing.T) {
		arch := &fakeArchiver{fail: true}
		job := NewJob(&fakeSearcher{items: twoItems}, &fakeSummarizer{summary: "s"}, arch, conf)
		if err := job.Run(context.Background()); !errors.Is(err, ErrArchiveFailed) {
			t.Errorf("expected ErrArchiveFailed, got %v", err)
		}
	})
}

type countingRunner struct {
	runs  atomic.Int32
	panic bool
}

func (c *countingRunner) Run(context.Context) error {
	n := c.runs.Add(1)
	if c.panic && n == 1 {
		panic("first run explodes")
	}
	return nil
}

func everySecond(t *testing.T, job Runner) *Scheduler {
	t.Helper()
	s, err := New(config.Default().Schedule, job)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.schedule = cron.Every(time.Second)
	t.Cleanup(s.Stop)
	return s
}

func TestScheduler_StartOnce(t *testing.T) {
	s := everySecond(t, &countingRunner{})

	if !s.Start(context.Background()) {
		t.Fatal("expected first Start to succeed")
	}
	if s.Start(context.Background()) {
		t.Error("expected second Start to be a no-op")
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Errorf("expected 1 registered job, got %d", n)
	}
}

func TestScheduler_RunsOncePerTrigger(t *testing.T) {
	job := &countingRunner{}
	s := everySecond(t, job)
	if !s.Start(context.Background()) {
		t.Fatal("Start failed")
	}

	time.Sleep(2500 * time.Millisecond)
	s.Stop()

	if runs := job.runs.Load(); runs < 1 || runs > 3 {
		t.Errorf("expected 1 to 3 runs in 2.5s, got %d", runs)
	}
}

func TestScheduler_SurvivesPanic(t *testing.T) {
	job := &countingRunner{panic: true}
	s := everySecond(t, job)
	if !s.Start(context.Background()) {
		t.Fatal("Start failed")
	}

	deadline := time.Now().Add(5 * time.Second)
	for job.runs.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("job did not run again after a panic, runs=%d", job.runs.Load())
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestNew_InvalidSchedule(t *testing.T) {
	conf := config.Default().Schedule
	conf.Spec = "every morning"
	if _, err := New(conf, &countingRunner{}); err == nil {
		t.Error("expected error for invalid spec")
	}

	conf = config.Default().Schedule
	conf.Timezone = "Mars/Olympus_Mons"
	if _, err := New(conf, &countingRunner{}); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestNext_DailyAtNine(t *testing.T) {
	conf := config.Default().Schedule
	conf.Timezone = "UTC"

	s, err := New(conf, &countingRunner{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	now := time.Now()
	next := s.Next()
	if next.Hour() != 9 || next.Minute() != 0 {
		t.Errorf("expected 09:00, got %s", next.Format(time.TimeOnly))
	}
	if !next.After(now) || next.Sub(now) > 24*time.Hour {
		t.Errorf("next run %v is not within the next day", next)
	}
}

func TestStop_WithoutStart(t *testing.T) {
	s, err := New(config.Default().Schedule, &countingRunner{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.Stop()
}

func TestCronLogger_FollowsDefaultLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	cronLogger{}.Error(errors.New("boom"), "panic", "job", 1)

	out := buf.String()
	if !strings.Contains(out, "cron: panic") || !strings.Contains(out, "error=boom") {
		t.Errorf("unexpected log output %q", out)
	}
}
