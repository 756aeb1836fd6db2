// Package screen defines the contract between the router and the views it
// stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/careconnect-ai/careconnect/internal/ui/layout"
)

// Screen is one page of the app: welcome, login, signup, dashboard, or the
// connect wizard.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders the body between header and footer.
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Modal marks a screen that sits on top of the one below it. The header
// shows it as a breadcrumb under its parent's title.
type Modal interface {
	Screen
	Modal()
}

// HeaderTitle returns the header title for active with parent below it.
func HeaderTitle(active, parent Screen) string {
	if active == nil {
		return ""
	}
	if _, ok := active.(Modal); ok && parent != nil {
		return parent.Title() + " › " + active.Title()
	}
	return active.Title()
}
