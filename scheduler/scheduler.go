package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/scipunch/newsbrief/config"
)

// Runner is a unit of scheduled work
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler triggers a Runner on a cron schedule in the background.
// It can be started only once per process.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	location *time.Location
	job      Runner
	started  atomic.Bool
	stopped  atomic.Bool
}

func New(conf config.ScheduleConfig, job Runner) (*Scheduler, error) {
	loc, err := conf.Location()
	if err != nil {
		return nil, err
	}

	schedule, err := cron.ParseStandard(conf.Spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule '%s' with %w", conf.Spec, err)
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	return &Scheduler{
		cron:     c,
		schedule: schedule,
		location: loc,
		job:      job,
	}, nil
}

// Start registers the job and begins the background loop. Every later call
// is a no-op returning false, so the job is never registered twice.
func (s *Scheduler) Start(ctx context.Context) bool {
	if !s.started.CompareAndSwap(false, true) {
		slog.Debug("scheduler already running")
		return false
	}

	s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		if err := s.job.Run(ctx); err != nil {
			slog.Error("scheduled job failed", "error", err)
		}
	}))
	s.cron.Start()

	slog.Info("scheduler started", "next_run", s.Next())
	return true
}

// Next returns the upcoming trigger time
func (s *Scheduler) Next() time.Time {
	return s.schedule.Next(time.Now().In(s.location))
}

// Stop halts the loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if !s.started.Load() || !s.stopped.CompareAndSwap(false, true) {
		return
	}
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// cronLogger routes cron's logr-style calls onto the current default slog logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
