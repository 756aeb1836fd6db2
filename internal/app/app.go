package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careconnect-ai/careconnect/internal/auth"
	"github.com/careconnect-ai/careconnect/internal/router"
	"github.com/careconnect-ai/careconnect/internal/screen"
	"github.com/careconnect-ai/careconnect/internal/screens/dashboard"
	"github.com/careconnect-ai/careconnect/internal/screens/login"
	"github.com/careconnect-ai/careconnect/internal/screens/signup"
	"github.com/careconnect-ai/careconnect/internal/screens/welcome"
	"github.com/careconnect-ai/careconnect/internal/ui/layout"
	"github.com/careconnect-ai/careconnect/internal/wizard"
)

// Session is the auth service used by every screen.
type Session interface {
	Status() auth.Status
	Current() *auth.User
	Restore(ctx context.Context) (*auth.User, error)
	SignIn(ctx context.Context, email, password string, remember bool) (*auth.User, error)
	SignUp(ctx context.Context, name, email, password string) (*auth.User, error)
	SignOut(ctx context.Context) error
}

// Options holds the dependencies for the app.
type Options struct {
	Session      Session
	Machine      wizard.Machine
	WizardConfig wizard.Config
	Logger       *slog.Logger
	// SkipSplash starts on the dashboard instead of the welcome screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	session Session
	width   int
	height  int
}

// newAppModel creates a new AppModel with the routes registered.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	r := router.New(welcome.New(router.PathDashboard))
	r.Register(router.PathWelcome, func() screen.Screen {
		return welcome.New(router.PathDashboard)
	})
	r.Register(router.PathLogin, func() screen.Screen {
		return login.New(opts.Session)
	})
	r.Register(router.PathSignup, func() screen.Screen {
		return signup.New(opts.Session)
	})
	r.Register(router.PathDashboard, func() screen.Screen {
		return dashboard.New(dashboard.Deps{
			Session: opts.Session,
			Machine: opts.Machine,
			Wizard:  opts.WizardConfig,
			Logger:  opts.Logger,
		})
	})
	if opts.SkipSplash {
		r.Navigate(router.PathDashboard)
	}

	return AppModel{
		router:  r,
		session: opts.Session,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := screen.HeaderTitle(active, m.router.Parent())

	user := ""
	if m.session != nil {
		if u := m.session.Current(); u != nil {
			user = u.Name
		}
	}
	header := layout.RenderHeader(title, user, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
