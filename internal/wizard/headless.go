package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/careconnect-ai/careconnect/internal/catalog"
)

// ErrIncompleteScript is returned when a Script runs out of answers.
var ErrIncompleteScript = errors.New("script incomplete")

// Script is the input for a headless run.
type Script struct {
	Category catalog.Category
	// DeviceID picks a listed candidate; empty picks the first.
	DeviceID string
	// Answers fills the single-select questions in order.
	Answers []string
	// Conditions are toggled on for the multi-select question.
	Conditions []string
}

// Headless drives a wizard without a UI, on a ManualScheduler.
type Headless struct {
	Machine Machine
	Config  Config
	// Sleep waits out each simulated delay. Nil advances immediately.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
}

// Run performs one complete run and returns the connected device.
func (h Headless) Run(ctx context.Context, s Script) (ConnectedDevice, error) {
	var result *ConnectedDevice
	sched := NewManualScheduler()
	opts := []Option{WithCompletion(func(d ConnectedDevice) { result = &d })}
	if h.Logger != nil {
		opts = append(opts, WithLogger(h.Logger))
	}
	w := New(h.Machine, sched, h.Config, opts...)

	err := h.run(ctx, w, sched, s)
	if result == nil {
		_ = w.Cancel()
		if err == nil {
			err = errors.New("run ended without connecting")
		}
		return ConnectedDevice{}, err
	}
	return *result, nil
}

func (h Headless) run(ctx context.Context, w *Wizard, sched *ManualScheduler, s Script) error {
	if err := w.Start(s.Category); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := h.settle(ctx, sched); err != nil {
		return err
	}

	snap := w.Snapshot()
	if len(snap.Devices) == 0 {
		return fmt.Errorf("no devices found for %s", s.Category.DisplayName())
	}
	id := s.DeviceID
	if id == "" {
		id = snap.Devices[0].ID
	}
	if err := w.SelectDevice(id); err != nil {
		return fmt.Errorf("select device %q: %w", id, err)
	}

	next := 0
	for w.Phase() == PhaseAskingQuestions {
		q := w.Snapshot().Question
		if q.MultiSelect {
			for _, c := range s.Conditions {
				if err := w.ToggleMultiAnswer(c); err != nil {
					return fmt.Errorf("condition %q: %w", c, err)
				}
			}
			if err := w.ContinueMultiAnswer(); err != nil {
				return err
			}
			continue
		}
		if next >= len(s.Answers) {
			return fmt.Errorf("%w: no answer for %q", ErrIncompleteScript, q.Prompt)
		}
		if err := w.Answer(s.Answers[next]); err != nil {
			return fmt.Errorf("answer %q to %q: %w", s.Answers[next], q.Prompt, err)
		}
		next++
	}
	if next < len(s.Answers) {
		return fmt.Errorf("%d unused answers", len(s.Answers)-next)
	}

	return h.settle(ctx, sched)
}

// settle fires every pending timer, waiting between them if Sleep is set.
func (h Headless) settle(ctx context.Context, sched *ManualScheduler) error {
	for {
		d, ok := sched.Next()
		if !ok {
			return nil
		}
		if h.Sleep != nil {
			if err := h.Sleep(ctx, d); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		sched.Advance(d)
	}
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
