package wizard

import (
	"slices"

	"github.com/careconnect-ai/careconnect/internal/catalog"
)

// Phase is the active step of a wizard run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSearching
	PhaseDevicesListed
	PhaseAskingQuestions
	PhaseConnecting
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSearching:
		return "searching"
	case PhaseDevicesListed:
		return "devices-listed"
	case PhaseAskingQuestions:
		return "asking-questions"
	case PhaseConnecting:
		return "connecting"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Field names the answer slot a question fills.
type Field string

const (
	FieldPersonName       Field = "personName"
	FieldRelationship     Field = "relationship"
	FieldAgeBand          Field = "ageBand"
	FieldHealthConditions Field = "healthConditions"
)

// Question is one entry of the fixed questionnaire.
type Question struct {
	Field       Field
	Prompt      string
	Options     []string
	MultiSelect bool
}

// HasOption reports whether v is one of the question's options.
func (q Question) HasOption(v string) bool {
	return slices.Contains(q.Options, v)
}

// DefaultQuestions returns the questionnaire asked after a device is picked.
func DefaultQuestions() []Question {
	return []Question{
		{
			Field:   FieldPersonName,
			Prompt:  "Who will be wearing this device?",
			Options: []string{"Mum", "Dad", "Grandma", "Grandpa", "Other"},
		},
		{
			Field:   FieldRelationship,
			Prompt:  "What is your relationship to them?",
			Options: []string{"Son/Daughter", "Grandchild", "Spouse", "Caregiver", "Other"},
		},
		{
			Field:   FieldAgeBand,
			Prompt:  "What is their approximate age?",
			Options: []string{"60-69", "70-79", "80-89", "90+"},
		},
		{
			Field:       FieldHealthConditions,
			Prompt:      "Do they have any health conditions we should monitor? (Select all that apply)",
			Options:     []string{"Heart condition", "Diabetes", "Mobility issues", "Memory concerns", "None"},
			MultiSelect: true,
		},
	}
}

// Answers collects the questionnaire responses.
type Answers struct {
	PersonName   string `json:"personName"`
	Relationship string `json:"relationship"`
	AgeBand      string `json:"ageBand"`
	// HealthConditions is a set kept in the order values were first toggled on.
	HealthConditions []string `json:"healthConditions"`
}

// Value returns the single-select answer for f, or "" for multi-select fields.
func (a Answers) Value(f Field) string {
	switch f {
	case FieldPersonName:
		return a.PersonName
	case FieldRelationship:
		return a.Relationship
	case FieldAgeBand:
		return a.AgeBand
	}
	return ""
}

// HasCondition reports whether v is in the health condition set.
func (a Answers) HasCondition(v string) bool {
	return slices.Contains(a.HealthConditions, v)
}

// with returns a copy of a with field f set to v.
func (a Answers) with(f Field, v string) Answers {
	out := a.clone()
	switch f {
	case FieldPersonName:
		out.PersonName = v
	case FieldRelationship:
		out.Relationship = v
	case FieldAgeBand:
		out.AgeBand = v
	}
	return out
}

// toggled returns a copy of a with v added to or removed from the condition set.
func (a Answers) toggled(v string) Answers {
	out := a.clone()
	if i := slices.Index(out.HealthConditions, v); i >= 0 {
		out.HealthConditions = slices.Delete(out.HealthConditions, i, i+1)
		if len(out.HealthConditions) == 0 {
			out.HealthConditions = nil
		}
	} else {
		out.HealthConditions = append(out.HealthConditions, v)
	}
	return out
}

func (a Answers) clone() Answers {
	a.HealthConditions = slices.Clone(a.HealthConditions)
	return a
}

// ConnectedDevice is the result of a completed run.
type ConnectedDevice struct {
	Run      string            `json:"run"`
	Category catalog.Category  `json:"category"`
	Device   catalog.Candidate `json:"device"`
	Answers  Answers           `json:"answers"`
}
