package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careconnect-ai/careconnect/internal/auth"
	"github.com/careconnect-ai/careconnect/internal/catalog"
	dash "github.com/careconnect-ai/careconnect/internal/dashboard"
	"github.com/careconnect-ai/careconnect/internal/router"
	"github.com/careconnect-ai/careconnect/internal/screen"
	"github.com/careconnect-ai/careconnect/internal/screens/connect"
	"github.com/careconnect-ai/careconnect/internal/ui/components"
	"github.com/careconnect-ai/careconnect/internal/ui/layout"
	"github.com/careconnect-ai/careconnect/internal/ui/theme"
	"github.com/careconnect-ai/careconnect/internal/wizard"
)

// Session is the auth state the dashboard is gated on.
type Session interface {
	Status() auth.Status
	Current() *auth.User
	Restore(ctx context.Context) (*auth.User, error)
	SignOut(ctx context.Context) error
}

// Deps holds what the dashboard needs to open the connect modal.
type Deps struct {
	Session Session
	Machine wizard.Machine
	Wizard  wizard.Config
	Logger  *slog.Logger
}

type restoredMsg struct {
	User *auth.User
	Err  error
}

type signedOutMsg struct{}

// DashboardScreen is the signed-in home: a connect prompt, or the daily
// overview once a device is connected.
type DashboardScreen struct {
	deps    Deps
	status  auth.Status
	user    *auth.User
	device  *wizard.ConnectedDevice
	spinner spinner.Model
	menu    components.Menu
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates a DashboardScreen.
func New(deps Deps) *DashboardScreen {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	d := &DashboardScreen{
		deps: deps,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
	d.buildMenu()
	return d
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) Init() tea.Cmd {
	d.status = d.deps.Session.Status()
	switch d.status {
	case auth.StatusLoading:
		return tea.Batch(d.spinner.Tick, d.restore())
	case auth.StatusUnauthenticated:
		return router.Navigate(router.PathLogin)
	}
	d.user = d.deps.Session.Current()
	return nil
}

func (d *DashboardScreen) restore() tea.Cmd {
	sess := d.deps.Session
	return func() tea.Msg {
		u, err := sess.Restore(context.Background())
		return restoredMsg{User: u, Err: err}
	}
}

func (d *DashboardScreen) buildMenu() {
	signOut := components.MenuItem{Label: "Sign Out", Action: d.signOut}
	if d.device != nil {
		d.menu = components.NewMenu([]components.MenuItem{signOut})
		return
	}
	d.menu = components.NewMenu([]components.MenuItem{
		{Label: "Connect Fitbit", Hint: "Charge, Sense, Versa", Action: d.openConnect(catalog.CategoryFitbit)},
		{Label: "Connect Apple Watch", Hint: "Series, SE, Ultra", Action: d.openConnect(catalog.CategoryAppleWatch)},
		{Label: "Connect Other Watches", Hint: "Garmin, Samsung, Xiaomi", Action: d.openConnect(catalog.CategoryOther)},
		signOut,
	})
}

func (d *DashboardScreen) openConnect(cat catalog.Category) func() tea.Cmd {
	return func() tea.Cmd {
		modal := connect.New(d.deps.Machine, d.deps.Wizard, cat, d.deps.Logger)
		return router.Push(modal)
	}
}

func (d *DashboardScreen) signOut() tea.Cmd {
	sess := d.deps.Session
	log := d.deps.Logger
	return func() tea.Msg {
		if err := sess.SignOut(context.Background()); err != nil {
			log.Warn("sign out", "err", err)
		}
		return signedOutMsg{}
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case restoredMsg:
		if msg.Err != nil {
			d.deps.Logger.Warn("restore session", "err", msg.Err)
		}
		if msg.User == nil {
			d.status = auth.StatusUnauthenticated
			return d, router.Navigate(router.PathLogin)
		}
		d.status = auth.StatusAuthenticated
		d.user = msg.User
		return d, nil

	case signedOutMsg:
		d.status = auth.StatusUnauthenticated
		d.user = nil
		d.device = nil
		return d, router.Navigate(router.PathLogin)

	case connect.DeviceConnectedMsg:
		dev := msg.Device
		d.device = &dev
		d.buildMenu()
		return d, nil

	case spinner.TickMsg:
		if d.status != auth.StatusLoading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		if d.status != auth.StatusAuthenticated {
			return d, nil
		}
		var cmd tea.Cmd
		d.menu, cmd = d.menu.Update(msg)
		return d, cmd
	}
	return d, nil
}

// Device returns the device connected this session, if any.
func (d *DashboardScreen) Device() *wizard.ConnectedDevice {
	return d.device
}

func (d *DashboardScreen) View(width, height int) string {
	switch d.status {
	case auth.StatusLoading:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			d.spinner.View()+" Loading your dashboard...")
	case auth.StatusUnauthenticated:
		return ""
	}

	name := ""
	if d.user != nil {
		name = d.user.Name
	}
	o := dash.Build(name, d.device)

	header := theme.Title.Render(o.Greeting)
	var body string
	if !o.Connected {
		body = renderEmpty(d.menu)
	} else {
		body = renderOverview(o, width, height) + "\n\n" + d.menu.View()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, header+"\n\n"+body)
}

func renderEmpty(menu components.Menu) string {
	text := lipgloss.NewStyle().Width(56).Foreground(theme.TextDim).Align(lipgloss.Center).Render(dash.EmptyText)
	content := theme.Title.Render(dash.EmptyTitle) + "\n\n" +
		text + "\n\n" +
		menu.View() + "\n" +
		theme.Hint.Render(dash.SupportedLine)
	return theme.Card.Render(content)
}

func renderOverview(o dash.Overview, width, height int) string {
	banner := theme.Banner.Render(
		o.Banner + "  " + components.SignalBars(o.SignalBars) + "   ● Live\n" +
			lipgloss.NewStyle().Bold(false).Render(o.Monitoring))

	rows := 8
	if layout.IsCompactHeight(height) {
		rows = 4
	}
	left := theme.Card.Render(
		theme.Label.Render(o.Wellbeing) + "\n" +
			theme.Body.Bold(true).Render("Daily Overview") + "\n\n" +
			renderScore(o) + "\n\n" +
			theme.Label.Render("This Week") + "\n" +
			renderWeek(o.Week, rows))

	right := theme.Card.Render(renderStats(o.Stats)) + "\n" + theme.Card.Render(renderAllClear(o))

	var grid string
	if layout.IsCompactWidth(width) {
		grid = left + "\n" + right
	} else {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}
	return banner + "\n\n" + grid
}

func renderScore(o dash.Overview) string {
	return theme.Label.Render("Peace of Mind Score") + "\n" +
		theme.Selected.Render(fmt.Sprintf("%d", o.Score)) + theme.Label.Render(fmt.Sprintf(" / %d", dash.ScoreMax)) + "\n" +
		theme.Hint.Render(o.ScoreNote)
}

func renderWeek(week []dash.DayScore, rows int) string {
	var b strings.Builder
	for r := rows; r >= 1; r-- {
		for _, d := range week {
			cell := "    "
			if dash.BarHeight(d.Score, rows) >= r {
				cell = barStyle(d.Level).Render("███") + " "
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	for _, d := range week {
		b.WriteString(theme.Label.Render(fmt.Sprintf("%-4s", d.Day)))
	}
	b.WriteString("\n")
	for _, d := range week {
		b.WriteString(fmt.Sprintf("%-4d", d.Score))
	}
	return b.String()
}

func barStyle(l dash.Level) lipgloss.Style {
	switch l {
	case dash.LevelExcellent:
		return theme.BarExcellent
	case dash.LevelGood:
		return theme.BarGood
	default:
		return theme.BarFair
	}
}

func renderStats(stats []dash.Stat) string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render("Today's Stats") + "\n\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "%s\n%-14s %s\n",
			theme.Label.Render(s.Label),
			theme.Body.Render(s.Value),
			theme.Checked.Render(s.Note))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAllClear(o dash.Overview) string {
	text := lipgloss.NewStyle().Width(36).Foreground(theme.Success).Render(o.AllClearText)
	return theme.Checked.Render("✓ "+dash.AllClearTitle) + "\n" +
		theme.Label.Render(dash.AllClearDetail) + "\n\n" + text
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
