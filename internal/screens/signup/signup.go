package signup

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

// Registrar creates an account and signs it in.
type Registrar interface {
	SignUp(ctx context.Context, name, email, password string) (*auth.User, error)
}

const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldConfirm
	focusSubmit
	focusLogin
	focusCount
)

type signUpResultMsg struct {
	User *auth.User
	Err  error
}

// SignupScreen is the account registration form.
type SignupScreen struct {
	reg     Registrar
	fields  []components.TextInput
	focus   int
	pending bool
	err     string
}

var _ screen.Screen = (*SignupScreen)(nil)

// New creates a SignupScreen.
func New(reg Registrar) *SignupScreen {
	return &SignupScreen{
		reg: reg,
		fields: []components.TextInput{
			fieldName:     components.NewTextInput("Full name", "Jane Smith", false, 100),
			fieldEmail:    components.NewTextInput("Email", "you@example.com", false, 254),
			fieldPassword: components.NewTextInput("Password", "", true, 128),
			fieldConfirm:  components.NewTextInput("Confirm password", "", true, 128),
		},
	}
}

func (s *SignupScreen) Title() string {
	return "Create Account"
}

func (s *SignupScreen) Init() tea.Cmd {
	return s.setFocus(fieldName)
}

func (s *SignupScreen) setFocus(f int) tea.Cmd {
	s.focus = (f + focusCount) % focusCount
	for i := range s.fields {
		s.fields[i].Blur()
	}
	if s.focus < len(s.fields) {
		return s.fields[s.focus].Focus()
	}
	return nil
}

func (s *SignupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signUpResultMsg:
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
			switch {
			case s.focus < len(s.fields):
				return s, s.setFocus(s.focus + 1)
			case s.focus == focusLogin:
				return s, router.Navigate(router.PathLogin)
			default:
				return s, s.submit()
			}
		}
	}

	if s.focus < len(s.fields) {
		var cmd tea.Cmd
		s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SignupScreen) submit() tea.Cmd {
	s.err = ""
	for i := range s.fields {
		s.fields[i].Err = ""
	}

	name := strings.TrimSpace(s.fields[fieldName].Value())
	email := auth.NormalizeEmail(s.fields[fieldEmail].Value())
	password := s.fields[fieldPassword].Value()

	err := errors.Join(auth.ValidateName(name), auth.ValidateEmail(email), auth.ValidatePassword(password))
	if err != nil {
		s.showError(err)
		return nil
	}
	if password != s.fields[fieldConfirm].Value() {
		s.fields[fieldConfirm].Err = "Passwords do not match"
		return nil
	}

	s.pending = true
	reg := s.reg
	return func() tea.Msg {
		u, err := reg.SignUp(context.Background(), name, email, password)
		return signUpResultMsg{User: u, Err: err}
	}
}

func (s *SignupScreen) showError(err error) {
	if ferrs := auth.FieldErrors(err); len(ferrs) > 0 {
		for _, fe := range ferrs {
			switch fe.Field {
			case "name":
				s.fields[fieldName].Err = fe.Msg
			case "email":
				s.fields[fieldEmail].Err = fe.Msg
			case "password":
				s.fields[fieldPassword].Err = fe.Msg
			}
		}
		return
	}
	if errors.Is(err, auth.ErrEmailTaken) {
		s.fields[fieldEmail].Err = "An account with this email already exists"
		return
	}
	s.err = "Something went wrong. Please try again."
}

func (s *SignupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Create your account") + "\n")
	b.WriteString(theme.Subtitle.Render("Start caring with peace of mind") + "\n\n")
	for _, f := range s.fields {
		b.WriteString(f.View() + "\n\n")
	}

	btn := components.Button{Label: "Create Account", BusyLabel: "Creating account...", Focused: s.focus == focusSubmit, Busy: s.pending}
	b.WriteString(btn.View() + "\n\n")

	link := "Already have an account? Sign in"
	if s.focus == focusLogin {
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

func (s *SignupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
