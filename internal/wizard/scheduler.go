package wizard

import (
	"sort"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// timer was still pending.
	Stop() bool
}

// Scheduler runs fn once after d. Implementations must invoke fn on the
// same thread of control that drives the Wizard's mutators.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

// ManualScheduler is a Scheduler driven by an explicit virtual clock.
// Nothing fires until Advance is called.
type ManualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s   *ManualScheduler
	at  time.Duration
	seq int
	fn  func()
}

// NewManualScheduler returns a ManualScheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After schedules fn at now+d.
func (s *ManualScheduler) After(d time.Duration, fn func()) Timer {
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	return t.s.remove(t)
}

func (s *ManualScheduler) remove(t *manualTimer) bool {
	for i, p := range s.timers {
		if p == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Now returns the elapsed virtual time.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of timers not yet fired or stopped.
func (s *ManualScheduler) Pending() int {
	return len(s.timers)
}

// Next returns the delay until the earliest pending timer.
func (s *ManualScheduler) Next() (time.Duration, bool) {
	if len(s.timers) == 0 {
		return 0, false
	}
	s.sortTimers()
	return s.timers[0].at - s.now, true
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Timers scheduled by a callback fire in the same call if they fall
// within the window. It returns the number of callbacks run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	target := s.now + d
	fired := 0
	for {
		if len(s.timers) == 0 {
			break
		}
		s.sortTimers()
		t := s.timers[0]
		if t.at > target {
			break
		}
		s.timers = s.timers[1:]
		s.now = t.at
		t.fn()
		fired++
	}
	s.now = target
	return fired
}

func (s *ManualScheduler) sortTimers() {
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].at != s.timers[j].at {
			return s.timers[i].at < s.timers[j].at
		}
		return s.timers[i].seq < s.timers[j].seq
	})
}
