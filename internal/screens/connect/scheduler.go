package connect

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/careconnect-ai/careconnect/internal/wizard"
)

// timerFiredMsg is delivered by tea.Tick when a wizard timer is due.
type timerFiredMsg struct {
	owner *teaScheduler
	id    int
}

// teaScheduler adapts wizard timers to Bubble Tea ticks so callbacks run
// on the update loop. Commands are queued by After and collected with drain.
type teaScheduler struct {
	nextID int
	timers map[int]func()
	queued []tea.Cmd
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{timers: make(map[int]func())}
}

func (s *teaScheduler) After(d time.Duration, fn func()) wizard.Timer {
	s.nextID++
	id := s.nextID
	s.timers[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{owner: s, id: id}
	}))
	return teaTimer{s: s, id: id}
}

// fire runs the callback for id unless it was stopped.
func (s *teaScheduler) fire(id int) bool {
	fn, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	fn()
	return true
}

func (s *teaScheduler) pending() int {
	return len(s.timers)
}

func (s *teaScheduler) drain() tea.Cmd {
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

type teaTimer struct {
	s  *teaScheduler
	id int
}

func (t teaTimer) Stop() bool {
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}
