// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
	"github.com/ericfisherdev/spexpiry/internal/domain/port/driven"
)

// CheckService runs the fetch, scan and notify sequence. Runs are serialized:
// a second caller waits for the first run to finish.
type CheckService struct {
	directory  driven.DirectoryClient
	dispatcher *Dispatcher
	observer   driven.RunObserver
	now        func() time.Time
	mu         sync.Mutex
}

// NewCheckService creates a CheckService. observer may be nil.
func NewCheckService(
	directory driven.DirectoryClient,
	dispatcher *Dispatcher,
	observer driven.RunObserver,
) *CheckService {
	return &CheckService{
		directory:  directory,
		dispatcher: dispatcher,
		observer:   observer,
		now:        time.Now,
	}
}

// WithClock replaces the wall clock used to decide which credentials are due.
func (s *CheckService) WithClock(now func() time.Time) *CheckService {
	s.now = now
	return s
}

// Run fetches all applications, scans them for credentials on the warning
// schedule and sends one notification per match. Failures never escape: a
// directory failure is logged and recorded in the report, and nothing is sent.
func (s *CheckService) Run(ctx context.Context, trigger model.Trigger) model.RunReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	report := model.RunReport{
		Trigger:   trigger,
		StartedAt: start,
		Expiring:  []model.ExpiringApplication{},
	}

	if trigger.IsPastDue {
		slog.Warn("timer function is running late", "source", trigger.Source)
	}

	apps, err := s.directory.FetchApplications(ctx)
	if err != nil {
		slog.Error("fetching applications failed", "error", err)
		report.Err = err
		return s.finish(report)
	}
	report.Applications = len(apps)

	report.Expiring = ScanAll(apps, start)
	if len(report.Expiring) == 0 {
		slog.Info("no credentials due for a warning", "applications", len(apps))
		return s.finish(report)
	}

	report.Delivered, report.Failed = s.dispatcher.Dispatch(ctx, report.Expiring)

	return s.finish(report)
}

// Preview fetches and scans like Run but sends nothing. It returns the number
// of applications fetched alongside the due records.
func (s *CheckService) Preview(ctx context.Context) ([]model.ExpiringApplication, int, error) {
	apps, err := s.directory.FetchApplications(ctx)
	if err != nil {
		return nil, 0, err
	}

	return ScanAll(apps, s.now()), len(apps), nil
}

func (s *CheckService) finish(report model.RunReport) model.RunReport {
	report.Duration = s.now().Sub(report.StartedAt)

	slog.Info("check run complete",
		"source", report.Trigger.Source,
		"applications", report.Applications,
		"expiring", len(report.Expiring),
		"delivered", report.Delivered,
		"failed", report.Failed,
		"ok", report.OK(),
		"duration", report.Duration.Round(time.Millisecond),
	)

	if s.observer != nil {
		s.observer.ObserveRun(report)
	}

	return report
}
