package wizard

import (
	"slices"

	"github.com/careconnect-ai/careconnect/internal/catalog"
)

// State is the value held by one wizard run. The zero value is Idle.
type State struct {
	// Run is the token of the active run; empty while Idle.
	Run      string
	Category catalog.Category
	Phase    Phase
	Devices  []catalog.Candidate
	// SelectedID refers to an element of Devices, or is empty.
	SelectedID    string
	QuestionIndex int
	Answers       Answers
}

// Selected returns the selected candidate. It resolves SelectedID against
// Devices, so a selection can never outlive the list it came from.
func (s State) Selected() (catalog.Candidate, bool) {
	if s.SelectedID == "" {
		return catalog.Candidate{}, false
	}
	for _, d := range s.Devices {
		if d.ID == s.SelectedID {
			return d, true
		}
	}
	return catalog.Candidate{}, false
}

// Snapshot is the read-only view handed to hosts for rendering.
type Snapshot struct {
	Run           string
	Category      catalog.Category
	Phase         Phase
	Devices       []catalog.Candidate
	Selected      *catalog.Candidate
	QuestionIndex int
	QuestionCount int
	// Question is the active question while asking, nil otherwise.
	Question *Question
	Answers  Answers
}

func (s State) snapshot(questions []Question) Snapshot {
	snap := Snapshot{
		Run:           s.Run,
		Category:      s.Category,
		Phase:         s.Phase,
		Devices:       slices.Clone(s.Devices),
		QuestionIndex: s.QuestionIndex,
		QuestionCount: len(questions),
		Answers:       s.Answers.clone(),
	}
	if d, ok := s.Selected(); ok {
		snap.Selected = &d
	}
	if s.Phase == PhaseAskingQuestions && s.QuestionIndex < len(questions) {
		q := questions[s.QuestionIndex]
		q.Options = slices.Clone(q.Options)
		snap.Question = &q
	}
	return snap
}
