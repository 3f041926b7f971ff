// stopwatch.go — the scoped wall-clock timer behind Timed.
//
// A Stopwatch is started once and stopped once; Stop is idempotent so it can
// sit in a defer on every exit path, including panics.
package xgxexec

import (
	"sync"
	"time"
)

// Stopwatch records the wall-clock interval of one unit of work.
type Stopwatch struct {
	mu      sync.Mutex
	clock   func() time.Time
	started time.Time
	stopped time.Time
}

// NewStopwatch returns an idle stopwatch reading clock (time.Now when nil).
func NewStopwatch(clock func() time.Time) *Stopwatch {
	if clock == nil {
		clock = now
	}
	return &Stopwatch{clock: clock}
}

// StartStopwatch returns a running stopwatch.
func StartStopwatch(clock func() time.Time) *Stopwatch {
	sw := NewStopwatch(clock)
	sw.Start()
	return sw
}

// Start begins timing. Starting a running or stopped watch restarts it.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = s.clock()
	s.stopped = time.Time{}
}

// Stop freezes the elapsed time. Only the first Stop after Start counts.
func (s *Stopwatch) Stop() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started.IsZero() && s.stopped.IsZero() {
		s.stopped = s.clock()
	}
	return s.elapsedLocked()
}

// Running reports whether the watch was started and not yet stopped.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.started.IsZero() && s.stopped.IsZero()
}

// Started returns the start time (zero when idle).
func (s *Stopwatch) Started() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Stopped returns the stop time (zero while running or idle).
func (s *Stopwatch) Stopped() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Elapsed is the frozen interval once stopped, the live interval while
// running and zero when idle. It is never negative.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Stopwatch) elapsedLocked() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	end := s.stopped
	if end.IsZero() {
		end = s.clock()
	}
	if d := end.Sub(s.started); d > 0 {
		return d
	}
	return 0
}
