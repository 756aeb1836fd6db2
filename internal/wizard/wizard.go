package wizard

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careconnect-ai/careconnect/internal/catalog"
)

// Default simulated latencies.
const (
	DefaultDiscoveryDelay = 2500 * time.Millisecond
	DefaultConnectDelay   = 2000 * time.Millisecond
)

// Config holds the simulated delays.
type Config struct {
	DiscoveryDelay time.Duration
	ConnectDelay   time.Duration
}

// DefaultConfig returns the standard delays.
func DefaultConfig() Config {
	return Config{
		DiscoveryDelay: DefaultDiscoveryDelay,
		ConnectDelay:   DefaultConnectDelay,
	}
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithCompletion registers the callback invoked once when a run completes.
func WithCompletion(fn func(ConnectedDevice)) Option {
	return func(w *Wizard) { w.onComplete = fn }
}

// WithLogger sets the logger used for transitions and rejected input.
func WithLogger(l *slog.Logger) Option {
	return func(w *Wizard) { w.logger = l }
}

// WithRunIDs overrides run token generation.
func WithRunIDs(next func() string) Option {
	return func(w *Wizard) { w.newRun = next }
}

// Wizard drives a Machine for a host view. It is not safe for concurrent
// use; the Scheduler must deliver callbacks on the caller's thread.
type Wizard struct {
	machine    Machine
	sched      Scheduler
	cfg        Config
	state      State
	pending    Timer
	onComplete func(ConnectedDevice)
	newRun     func() string
	logger     *slog.Logger
}

// New creates an idle Wizard.
func New(machine Machine, sched Scheduler, cfg Config, opts ...Option) *Wizard {
	w := &Wizard{
		machine: machine,
		sched:   sched,
		cfg:     cfg,
		newRun:  uuid.NewString,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins a run for category.
func (w *Wizard) Start(category catalog.Category) error {
	return w.dispatch(Start{Category: category, Run: w.newRun()})
}

// SelectDevice picks a listed candidate by id.
func (w *Wizard) SelectDevice(id string) error {
	return w.dispatch(SelectDevice{ID: id})
}

// Answer records a single-select answer and advances.
func (w *Wizard) Answer(value string) error {
	return w.dispatch(Answer{Value: value})
}

// ToggleMultiAnswer flips a multi-select value without advancing.
func (w *Wizard) ToggleMultiAnswer(value string) error {
	return w.dispatch(ToggleMulti{Value: value})
}

// ContinueMultiAnswer confirms the multi-select answer and advances.
func (w *Wizard) ContinueMultiAnswer() error {
	return w.dispatch(ContinueMulti{})
}

// Cancel abandons the run and discards all progress.
func (w *Wizard) Cancel() error {
	return w.dispatch(Cancel{})
}

// Snapshot returns a copy of the current state for rendering.
func (w *Wizard) Snapshot() Snapshot {
	return w.machine.Snapshot(w.state)
}

// Phase returns the current phase.
func (w *Wizard) Phase() Phase {
	return w.state.Phase
}

// Questions returns the questionnaire in order.
func (w *Wizard) Questions() []Question {
	return w.machine.Questions()
}

func (w *Wizard) dispatch(ev Event) error {
	from := w.state.Phase
	next, eff, err := w.machine.Step(w.state, ev)
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) {
			w.logger.Debug("wizard input ignored", "event", rej.Event, "phase", rej.Phase.String(), "reason", rej.Reason)
		}
		return err
	}
	w.state = next
	if from != next.Phase {
		w.logger.Debug("wizard transition", "event", ev.eventName(), "from", from.String(), "to", next.Phase.String(), "run", next.Run)
	}
	w.apply(eff)
	return nil
}

func (w *Wizard) apply(eff Effect) {
	switch eff.Kind {
	case EffectScheduleDiscovery:
		w.schedule(w.cfg.DiscoveryDelay, DiscoveryElapsed{Run: eff.Run})
	case EffectScheduleConnect:
		w.schedule(w.cfg.ConnectDelay, ConnectElapsed{Run: eff.Run})
	case EffectStopTimer:
		w.stopPending()
	case EffectComplete:
		w.pending = nil
		if eff.Result != nil && w.onComplete != nil {
			w.onComplete(*eff.Result)
		}
	}
}

func (w *Wizard) schedule(d time.Duration, ev Event) {
	w.stopPending()
	var t Timer
	t = w.sched.After(d, func() {
		if w.pending == t {
			w.pending = nil
		}
		// A stale timer is rejected by the machine's run check.
		_ = w.dispatch(ev)
	})
	w.pending = t
}

func (w *Wizard) stopPending() {
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
}
