package application

import "time"

// WithClock replaces the clock used to judge whether a tick is late.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}
