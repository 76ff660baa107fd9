package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

// pastDueTolerance is how late a tick may be picked up before the run is
// reported as past due.
const pastDueTolerance = time.Minute

// Runner is satisfied by CheckService.
type Runner interface {
	Run(ctx context.Context, trigger model.Trigger) model.RunReport
}

// Scheduler triggers a Runner on a fixed interval. It is the in-process
// alternative to an external timer such as the Functions host.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	runOnStart bool
	now        func() time.Time
}

// NewScheduler creates a Scheduler. When runOnStart is set, Start runs once
// immediately before waiting for the first tick.
func NewScheduler(runner Runner, interval time.Duration, runOnStart bool) *Scheduler {
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		runOnStart: runOnStart,
		now:        time.Now,
	}
}

// Start blocks until ctx is canceled. With a non-positive interval it only
// performs the start-up run, if enabled, and returns.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("scheduler started", "interval", s.interval, "run_on_start", s.runOnStart)

	if s.runOnStart {
		s.runner.Run(ctx, model.Trigger{Source: "timer"})
	}

	// Without an interval the scheduler is a one-shot start-up run.
	if s.interval <= 0 {
		slog.Info("scheduler stopped", "reason", "no interval")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		case tick := <-ticker.C:
			s.runner.Run(ctx, model.Trigger{
				Source:    "timer",
				IsPastDue: s.now().Sub(tick) > pastDueTolerance,
			})
		}
	}
}
