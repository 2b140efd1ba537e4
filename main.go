package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scipunch/newsbrief/agent"
	"github.com/scipunch/newsbrief/archive"
	"github.com/scipunch/newsbrief/archive/notion"
	"github.com/scipunch/newsbrief/archive/sqlite"
	"github.com/scipunch/newsbrief/chat"
	"github.com/scipunch/newsbrief/config"
	"github.com/scipunch/newsbrief/fetcher"
	"github.com/scipunch/newsbrief/pipeline"
	"github.com/scipunch/newsbrief/scheduler"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var cfgPath, query string
	var runJob, noSchedule bool
	var history int
	flag.StringVar(&cfgPath, "config", config.DefaultPath(), "path to a TOML config")
	flag.StringVar(&query, "query", "", "answer a single query and exit")
	flag.BoolVar(&runJob, "run-job", false, "run the scheduled briefing once and exit")
	flag.IntVar(&history, "history", 0, "print the N most recent archived records and exit")
	flag.BoolVar(&noSchedule, "no-schedule", false, "do not start the daily briefing scheduler")
	flag.Parse()

	// Read config and create if default is missing
	conf, err := config.Read(cfgPath)
	if errors.Is(err, os.ErrNotExist) && cfgPath == config.DefaultPath() {
		if err := config.Write(cfgPath, conf); err != nil {
			log.Fatalf("failed to write default config with %s", err)
		}
		slog.Info("default config written", "path", cfgPath)
	} else if err != nil {
		log.Fatalf("failed to read config with %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if history > 0 {
		if err := printHistory(ctx, conf.Archive.JournalPath, history); err != nil {
			log.Fatalf("failed to read archive journal with %s", err)
		}
		return
	}

	creds, err := config.LoadCredentials(config.DefaultCredentialsPath())
	if err != nil {
		log.Fatalf("failed to read credentials: %s", err)
	}
	if err := creds.Validate(conf.LLM.Provider); err != nil {
		log.Fatalf("missing required configuration:\n%s", err)
	}

	news, err := fetcher.New(conf)
	if err != nil {
		log.Fatalf("failed to initialize news fetcher: %s", err)
	}

	summarizer, err := agent.New(ctx, conf.LLM, creds, conf.Scraper.MaxChars)
	if err != nil {
		log.Fatalf("failed to initialize summarizer: %s", err)
	}
	slog.Info("initialized summarizer", "provider", summarizer.Name(), "model", conf.LLM.Model)

	notionWriter, err := notion.New(creds.Notion.APIKey, creds.Notion.DatabaseID, notion.Properties{
		Query:   conf.Archive.QueryProperty,
		Summary: conf.Archive.SummaryProperty,
		Date:    conf.Archive.DateProperty,
		Link:    conf.Archive.LinkProperty,
	})
	if err != nil {
		log.Fatalf("failed to initialize notion archive: %s", err)
	}
	writers := []archive.Writer{notionWriter}

	if conf.Archive.JournalPath != "" {
		journal, err := sqlite.New(conf.Archive.JournalPath)
		if err != nil {
			log.Fatalf("failed to open archive journal: %s", err)
		}
		defer journal.Close()
		writers = append(writers, journal)
	}
	archiver := archive.New(writers...)

	job := scheduler.NewJob(news, summarizer, archiver, conf.Schedule)
	if runJob {
		if err := job.Run(ctx); err != nil {
			log.Fatalf("scheduled briefing failed: %s", err)
		}
		return
	}

	p := pipeline.New(news, summarizer, archiver, conf.Chat)
	if query != "" {
		fmt.Println(p.Respond(ctx, query))
		return
	}

	if conf.Schedule.Enabled && !noSchedule {
		s, err := scheduler.New(conf.Schedule, job)
		if err != nil {
			log.Fatalf("failed to initialize scheduler: %s", err)
		}
		s.Start(ctx)
		defer s.Stop()
	}

	if err := chat.New(p, conf.Chat).Run(ctx, os.Stdin, os.Stdout); err != nil {
		slog.Error("chat session ended with error", "error", err)
	}
}

func printHistory(ctx context.Context, journalPath string, n int) error {
	if journalPath == "" {
		return errors.New("archive journal is disabled")
	}
	journal, err := sqlite.New(journalPath)
	if err != nil {
		return err
	}
	defer journal.Close()

	records, err := journal.Recent(ctx, n)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("%s  %s  %s\n%s\n\n", r.Timestamp.Format(time.RFC3339), r.Query, r.SourceLink, r.Summary)
	}
	return nil
}
