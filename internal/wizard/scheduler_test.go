package wizard

import (
	"testing"
	"time"
)

func TestManualSchedulerFiresInOrder(t *testing.T) {
	s := NewManualScheduler()
	var order []string
	s.After(3*time.Second, func() { order = append(order, "c") })
	s.After(1*time.Second, func() { order = append(order, "a") })
	s.After(2*time.Second, func() { order = append(order, "b") })

	if n := s.Advance(2 * time.Second); n != 2 {
		t.Fatalf("fired %d timers, want 2", n)
	}
	if s.Pending() != 1 {
		t.Errorf("pending = %d, want 1", s.Pending())
	}
	s.Advance(time.Second)

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestManualSchedulerStop(t *testing.T) {
	s := NewManualScheduler()
	fired := false
	tm := s.After(time.Second, func() { fired = true })

	if !tm.Stop() {
		t.Error("expected Stop to report a pending timer")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	s.Advance(time.Minute)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestManualSchedulerChainedTimers(t *testing.T) {
	s := NewManualScheduler()
	count := 0
	s.After(time.Second, func() {
		count++
		s.After(time.Second, func() { count++ })
	})

	s.Advance(2 * time.Second)
	if count != 2 {
		t.Errorf("count = %d, want 2 (chained timer within window)", count)
	}
	if s.Now() != 2*time.Second {
		t.Errorf("Now = %v, want 2s", s.Now())
	}
}

func TestManualSchedulerNext(t *testing.T) {
	s := NewManualScheduler()
	if _, ok := s.Next(); ok {
		t.Error("expected no pending timer")
	}
	s.After(500*time.Millisecond, func() {})
	s.Advance(200 * time.Millisecond)

	d, ok := s.Next()
	if !ok || d != 300*time.Millisecond {
		t.Errorf("Next = %v, %v; want 300ms, true", d, ok)
	}
}
