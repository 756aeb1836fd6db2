package components

import (
	"github.com/careconnect-ai/careconnect/internal/ui/theme"
)

// Button is a form submit button. Pressing it is handled by the form.
type Button struct {
	Label     string
	BusyLabel string
	Focused   bool
	// Busy swaps in BusyLabel while a request is in flight.
	Busy bool
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Busy && b.BusyLabel != "" {
		label = b.BusyLabel
	}
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + label)
	}
	return theme.ButtonInactive.Render(label)
}
