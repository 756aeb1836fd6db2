package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careconnect-ai/careconnect/internal/auth"
	"github.com/careconnect-ai/careconnect/internal/router"
	"github.com/careconnect-ai/careconnect/internal/screen"
	"github.com/careconnect-ai/careconnect/internal/ui/components"
	"github.com/careconnect-ai/careconnect/internal/ui/layout"
	"github.com/careconnect-ai/careconnect/internal/ui/theme"
)

// Authenticator signs a caregiver in.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string, remember bool) (*auth.User, error)
}

// Focus slots in tab order.
const (
	focusEmail = iota
	focusPassword
	focusRemember
	focusSubmit
	focusSignup
	focusCount
)

type signInResultMsg struct {
	User *auth.User
	Err  error
}

// LoginScreen is the email and password sign-in form.
type LoginScreen struct {
	auth     Authenticator
	email    components.TextInput
	password components.TextInput
	remember bool
	focus    int
	pending  bool
	err      string
}

var _ screen.Screen = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New(a Authenticator) *LoginScreen {
	s := &LoginScreen{
		auth:     a,
		email:    components.NewTextInput("Email", "you@example.com", false, 254),
		password: components.NewTextInput("Password", "", true, 128),
	}
	return s
}

func (s *LoginScreen) Title() string {
	return "Sign In"
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.setFocus(focusEmail)
}

func (s *LoginScreen) setFocus(f int) tea.Cmd {
	s.focus = (f + focusCount) % focusCount
	s.email.Blur()
	s.password.Blur()
	switch s.focus {
	case focusEmail:
		return s.email.Focus()
	case focusPassword:
		return s.password.Focus()
	}
	return nil
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		s.pending = false
		if msg.Err != nil {
			s.showError(msg.Err)
			return s, nil
		}
		return s, router.Navigate(router.PathDashboard)

	case tea.KeyPressMsg:
		if s.pending {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s, s.setFocus(s.focus - 1)
		case "enter":
			return s.activate()
		case "space", " ":
			if s.focus == focusRemember {
				s.remember = !s.remember
				return s, nil
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusEmail:
		s.email, cmd = s.email.Update(msg)
	case focusPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) activate() (screen.Screen, tea.Cmd) {
	switch s.focus {
	case focusEmail, focusPassword:
		return s, s.setFocus(s.focus + 1)
	case focusRemember:
		s.remember = !s.remember
		return s, nil
	case focusSignup:
		return s, router.Navigate(router.PathSignup)
	}
	return s, s.submit()
}

func (s *LoginScreen) submit() tea.Cmd {
	s.err = ""
	s.email.Err = ""
	s.password.Err = ""

	email := auth.NormalizeEmail(s.email.Value())
	password := s.password.Value()
	if err := errors.Join(auth.ValidateEmail(email), auth.ValidatePassword(password)); err != nil {
		s.showError(err)
		return nil
	}

	s.pending = true
	remember := s.remember
	a := s.auth
	return func() tea.Msg {
		u, err := a.SignIn(context.Background(), email, password, remember)
		return signInResultMsg{User: u, Err: err}
	}
}

func (s *LoginScreen) showError(err error) {
	if ferrs := auth.FieldErrors(err); len(ferrs) > 0 {
		for _, fe := range ferrs {
			switch fe.Field {
			case "email":
				s.email.Err = fe.Msg
			case "password":
				s.password.Err = fe.Msg
			}
		}
		return
	}
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.err = "Invalid email or password"
	case errors.Is(err, auth.ErrTooManyAttempts):
		s.err = "Too many attempts. Please wait a moment and try again."
	default:
		s.err = "Something went wrong. Please try again."
	}
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Welcome back") + "\n")
	b.WriteString(theme.Subtitle.Render("Sign in to check on your loved one") + "\n\n")
	b.WriteString(s.email.View() + "\n\n")
	b.WriteString(s.password.View() + "\n\n")

	box := "[ ]"
	if s.remember {
		box = theme.Checked.Render("[✓]")
	}
	remember := box + " Remember me"
	if s.focus == focusRemember {
		remember = theme.Selected.Render("▸ ") + remember
	} else {
		remember = "  " + remember
	}
	b.WriteString(remember + "\n\n")

	btn := components.Button{Label: "Sign In", BusyLabel: "Signing in...", Focused: s.focus == focusSubmit, Busy: s.pending}
	b.WriteString(btn.View() + "\n\n")

	link := "Don't have an account? Sign up"
	if s.focus == focusSignup {
		b.WriteString(theme.Selected.Render("▸ "+link) + "\n")
	} else {
		b.WriteString(theme.Hint.Render("  "+link) + "\n")
	}

	if s.err != "" {
		b.WriteString("\n" + theme.ErrorText.Render(s.err) + "\n")
	}

	card := theme.Modal.Width(48).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
