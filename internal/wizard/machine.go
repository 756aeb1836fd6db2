package wizard

import (
	"slices"

	"github.com/careconnect-ai/careconnect/internal/catalog"
)

// Machine holds the static inputs of the flow: where discovered devices
// come from and which questions are asked.
type Machine struct {
	lookup    catalog.Lookup
	questions []Question
}

// NewMachine creates a Machine. A nil lookup uses the built-in sample
// catalog; nil questions use DefaultQuestions.
func NewMachine(lookup catalog.Lookup, questions []Question) Machine {
	if lookup == nil {
		lookup = catalog.Default()
	}
	if len(questions) == 0 {
		questions = DefaultQuestions()
	}
	return Machine{lookup: lookup, questions: slices.Clone(questions)}
}

// Questions returns the questionnaire in order.
func (m Machine) Questions() []Question {
	return slices.Clone(m.questions)
}

// Snapshot renders s for a host view.
func (m Machine) Snapshot(s State) Snapshot {
	return s.snapshot(m.questions)
}

// Step applies ev to s. It never mutates s; on rejection it returns s
// unchanged together with a *RejectedError.
func (m Machine) Step(s State, ev Event) (State, Effect, error) {
	switch e := ev.(type) {
	case Start:
		return m.start(s, e)
	case DiscoveryElapsed:
		return m.discovered(s, e)
	case SelectDevice:
		return m.selectDevice(s, e)
	case Answer:
		return m.answer(s, e)
	case ToggleMulti:
		return m.toggle(s, e)
	case ContinueMulti:
		return m.continueMulti(s, e)
	case Cancel:
		return m.cancel(s, e)
	case ConnectElapsed:
		return m.connected(s, e)
	}
	return s, Effect{}, &RejectedError{Event: "unknown", Phase: s.Phase, Reason: "unsupported event"}
}

func (m Machine) start(s State, e Start) (State, Effect, error) {
	if s.Phase != PhaseIdle && s.Phase != PhaseCompleted {
		return s, Effect{}, reject(e, s.Phase, "a run is already in progress")
	}
	if e.Category == catalog.CategoryNone {
		return s, Effect{}, reject(e, s.Phase, "no device category")
	}
	if e.Run == "" {
		return s, Effect{}, reject(e, s.Phase, "missing run token")
	}
	next := State{
		Run:      e.Run,
		Category: e.Category,
		Phase:    PhaseSearching,
	}
	return next, Effect{Kind: EffectScheduleDiscovery, Run: e.Run}, nil
}

func (m Machine) discovered(s State, e DiscoveryElapsed) (State, Effect, error) {
	if s.Phase != PhaseSearching || e.Run != s.Run {
		return s, Effect{}, reject(e, s.Phase, "stale discovery timer")
	}
	next := s
	next.Devices = m.lookup.Candidates(s.Category)
	next.Phase = PhaseDevicesListed
	return next, Effect{}, nil
}

func (m Machine) selectDevice(s State, e SelectDevice) (State, Effect, error) {
	if s.Phase != PhaseDevicesListed {
		return s, Effect{}, reject(e, s.Phase, "no device list shown")
	}
	found := slices.ContainsFunc(s.Devices, func(c catalog.Candidate) bool {
		return c.ID == e.ID
	})
	if !found {
		return s, Effect{}, reject(e, s.Phase, "unknown device "+e.ID)
	}
	next := s
	next.SelectedID = e.ID
	next.QuestionIndex = 0
	next.Phase = PhaseAskingQuestions
	return next, Effect{}, nil
}

func (m Machine) answer(s State, e Answer) (State, Effect, error) {
	q, err := m.activeQuestion(s, e)
	if err != nil {
		return s, Effect{}, err
	}
	if q.MultiSelect {
		return s, Effect{}, reject(e, s.Phase, "question is multi-select")
	}
	if !q.HasOption(e.Value) {
		return s, Effect{}, reject(e, s.Phase, "not an option: "+e.Value)
	}
	next := s
	next.Answers = s.Answers.with(q.Field, e.Value)
	return m.advance(next)
}

func (m Machine) toggle(s State, e ToggleMulti) (State, Effect, error) {
	q, err := m.activeQuestion(s, e)
	if err != nil {
		return s, Effect{}, err
	}
	if !q.MultiSelect {
		return s, Effect{}, reject(e, s.Phase, "question is single-select")
	}
	if !q.HasOption(e.Value) {
		return s, Effect{}, reject(e, s.Phase, "not an option: "+e.Value)
	}
	next := s
	next.Answers = s.Answers.toggled(e.Value)
	return next, Effect{}, nil
}

func (m Machine) continueMulti(s State, e ContinueMulti) (State, Effect, error) {
	q, err := m.activeQuestion(s, e)
	if err != nil {
		return s, Effect{}, err
	}
	if !q.MultiSelect {
		return s, Effect{}, reject(e, s.Phase, "question is single-select")
	}
	return m.advance(s)
}

func (m Machine) cancel(s State, e Cancel) (State, Effect, error) {
	if s.Phase == PhaseCompleted {
		return s, Effect{}, reject(e, s.Phase, "run already completed")
	}
	return State{}, Effect{Kind: EffectStopTimer}, nil
}

func (m Machine) connected(s State, e ConnectElapsed) (State, Effect, error) {
	if s.Phase != PhaseConnecting || e.Run != s.Run {
		return s, Effect{}, reject(e, s.Phase, "stale connect timer")
	}
	dev, ok := s.Selected()
	if !ok {
		return s, Effect{}, reject(e, s.Phase, "no selected device")
	}
	result := &ConnectedDevice{
		Run:      s.Run,
		Category: s.Category,
		Device:   dev,
		Answers:  s.Answers.clone(),
	}
	return State{Phase: PhaseCompleted}, Effect{Kind: EffectComplete, Run: s.Run, Result: result}, nil
}

func (m Machine) activeQuestion(s State, ev Event) (Question, error) {
	if s.Phase != PhaseAskingQuestions {
		return Question{}, reject(ev, s.Phase, "no question shown")
	}
	if s.QuestionIndex < 0 || s.QuestionIndex >= len(m.questions) {
		return Question{}, reject(ev, s.Phase, "question index out of range")
	}
	return m.questions[s.QuestionIndex], nil
}

// advance moves to the next question, or to Connecting after the last one.
func (m Machine) advance(s State) (State, Effect, error) {
	if s.QuestionIndex < len(m.questions)-1 {
		s.QuestionIndex++
		return s, Effect{}, nil
	}
	s.Phase = PhaseConnecting
	return s, Effect{Kind: EffectScheduleConnect, Run: s.Run}, nil
}
