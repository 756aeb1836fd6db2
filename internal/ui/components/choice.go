package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careconnect-ai/careconnect/internal/ui/theme"
)

// ChoiceKind says what the user did with a ChoiceList.
type ChoiceKind int

const (
	// ChoicePick chooses a single option.
	ChoicePick ChoiceKind = iota
	// ChoiceToggle flips an option in a multi-select list.
	ChoiceToggle
	// ChoiceContinue confirms a multi-select list.
	ChoiceContinue
)

// ChoiceMsg is emitted when the user acts on a ChoiceList. Tag is copied
// from the list so the owner can drop messages that arrive after the list
// was replaced.
type ChoiceMsg struct {
	Kind  ChoiceKind
	Value string
	Tag   int
}

const continueLabel = "Continue"

// ChoiceList is a vertical option picker. In multi-select mode options are
// check boxes and a trailing Continue row confirms the selection.
type ChoiceList struct {
	Prompt  string
	Options []string
	Multi   bool
	Cursor  int
	// Tag identifies this list in the ChoiceMsgs it emits.
	Tag int
	// Checked marks toggled options in multi-select mode. The owner keeps it
	// in sync with its own state.
	Checked map[string]bool
}

// NewChoiceList creates a choice list.
func NewChoiceList(prompt string, options []string, multi bool) ChoiceList {
	return ChoiceList{
		Prompt:  prompt,
		Options: options,
		Multi:   multi,
		Checked: map[string]bool{},
	}
}

func (c ChoiceList) rows() int {
	if c.Multi {
		return len(c.Options) + 1
	}
	return len(c.Options)
}

func (c ChoiceList) onContinue() bool {
	return c.Multi && c.Cursor == len(c.Options)
}

// Update handles keyboard navigation and selection.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < c.rows()-1 {
			c.Cursor++
		}
	case "enter":
		if c.onContinue() {
			return c, c.emit(ChoiceContinue, "")
		}
		return c, c.act(c.Cursor)
	case "space", " ":
		if c.Multi && !c.onContinue() {
			return c, c.act(c.Cursor)
		}
	case "tab":
		if c.Multi {
			return c, c.emit(ChoiceContinue, "")
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(c.Options) {
				c.Cursor = i
				return c, c.act(i)
			}
		}
	}
	return c, nil
}

func (c ChoiceList) act(i int) tea.Cmd {
	if i < 0 || i >= len(c.Options) {
		return nil
	}
	if c.Multi {
		return c.emit(ChoiceToggle, c.Options[i])
	}
	return c.emit(ChoicePick, c.Options[i])
}

func (c ChoiceList) emit(kind ChoiceKind, value string) tea.Cmd {
	tag := c.Tag
	return func() tea.Msg { return ChoiceMsg{Kind: kind, Value: value, Tag: tag} }
}

// View renders the prompt and options.
func (c ChoiceList) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Prompt) + "\n\n"

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		label := fmt.Sprintf("%s%d. %s", prefix, i+1, opt)
		if c.Multi {
			box := "[ ]"
			if c.Checked[opt] {
				box = theme.Checked.Render("[✓]")
			}
			label = fmt.Sprintf("%s%s %s", prefix, box, opt)
		}

		if i == c.Cursor {
			s += theme.Selected.Render(label) + "\n"
		} else {
			s += theme.Unselected.Render(label) + "\n"
		}
	}

	if c.Multi {
		line := "  " + continueLabel
		if c.onContinue() {
			line = theme.ButtonActive.Render("▸ " + continueLabel)
		} else {
			line = theme.Hint.Render(line)
		}
		s += "\n" + line + "\n"
	}
	return s
}
