package model

import "time"

// Trigger describes why a run was started.
type Trigger struct {
	Source    string // "timer", "http", "cli"
	IsPastDue bool   // The scheduler fired later than planned.
}

// RunReport summarizes one fetch-scan-notify run.
type RunReport struct {
	Trigger      Trigger
	StartedAt    time.Time
	Duration     time.Duration
	Applications int
	Expiring     []ExpiringApplication
	Delivered    int
	Failed       int
	Err          error // Set when the directory fetch failed; nothing was sent.
}

// OK reports whether the directory fetch succeeded.
func (r RunReport) OK() bool {
	return r.Err == nil
}
