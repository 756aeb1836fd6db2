package wizard

import (
	"errors"
	"fmt"
)

// ErrRejected is wrapped by every RejectedError.
var ErrRejected = errors.New("wizard input rejected")

// RejectedError describes an event that was ignored because it does not
// apply to the current state. State is never modified when it is returned.
type RejectedError struct {
	Event  string
	Phase  Phase
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s in phase %s: %s", e.Event, e.Phase, e.Reason)
}

func (e *RejectedError) Unwrap() error { return ErrRejected }

func reject(ev Event, p Phase, reason string) *RejectedError {
	return &RejectedError{Event: ev.eventName(), Phase: p, Reason: reason}
}
