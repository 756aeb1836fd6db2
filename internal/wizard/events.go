package wizard

import "github.com/careconnect-ai/careconnect/internal/catalog"

// Event is an input to Machine.Step.
type Event interface {
	eventName() string
}

// Start begins a run for a device category under a fresh run token.
type Start struct {
	Category catalog.Category
	Run      string
}

// DiscoveryElapsed fires when the simulated search delay ends.
type DiscoveryElapsed struct {
	Run string
}

// SelectDevice picks one of the listed candidates.
type SelectDevice struct {
	ID string
}

// Answer records a single-select answer for the active question.
type Answer struct {
	Value string
}

// ToggleMulti flips membership of a value in the multi-select answer.
type ToggleMulti struct {
	Value string
}

// ContinueMulti confirms the multi-select answer.
type ContinueMulti struct{}

// Cancel abandons the run.
type Cancel struct{}

// ConnectElapsed fires when the simulated pairing delay ends.
type ConnectElapsed struct {
	Run string
}

func (Start) eventName() string            { return "start" }
func (DiscoveryElapsed) eventName() string { return "discovery-elapsed" }
func (SelectDevice) eventName() string     { return "select-device" }
func (Answer) eventName() string           { return "answer" }
func (ToggleMulti) eventName() string      { return "toggle-multi" }
func (ContinueMulti) eventName() string    { return "continue-multi" }
func (Cancel) eventName() string           { return "cancel" }
func (ConnectElapsed) eventName() string   { return "connect-elapsed" }

// EffectKind tells the controller what to do after a transition.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectScheduleDiscovery
	EffectScheduleConnect
	EffectStopTimer
	EffectComplete
)

// Effect is the side effect requested by a transition.
type Effect struct {
	Kind EffectKind
	// Run is the token timer events must carry.
	Run    string
	Result *ConnectedDevice
}
