// Package connect is the device connection modal. It hosts one wizard run:
// searching, choosing a device, the setup questions and connecting.
package connect

import (
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/careconnect-ai/careconnect/internal/catalog"
	"github.com/careconnect-ai/careconnect/internal/router"
	"github.com/careconnect-ai/careconnect/internal/screen"
	"github.com/careconnect-ai/careconnect/internal/ui/components"
	"github.com/careconnect-ai/careconnect/internal/ui/layout"
	"github.com/careconnect-ai/careconnect/internal/ui/theme"
	"github.com/careconnect-ai/careconnect/internal/wizard"
)

// DeviceConnectedMsg is sent to the screen below once a run completes.
type DeviceConnectedMsg struct {
	Device wizard.ConnectedDevice
}

// ConnectScreen runs the wizard for one device category.
type ConnectScreen struct {
	category catalog.Category
	wiz      *wizard.Wizard
	sched    *teaScheduler
	spinner  spinner.Model
	log      *slog.Logger

	deviceCursor int
	question     int
	choices      components.ChoiceList
	result       *wizard.ConnectedDevice
	closed       bool
}

var _ screen.Modal = (*ConnectScreen)(nil)

// New creates a ConnectScreen for category. The run starts on Init.
func New(machine wizard.Machine, cfg wizard.Config, category catalog.Category, log *slog.Logger) *ConnectScreen {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &ConnectScreen{
		category: category,
		sched:    newTeaScheduler(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
		log:      log,
		question: -1,
	}
	c.wiz = wizard.New(machine, c.sched, cfg,
		wizard.WithLogger(log),
		wizard.WithCompletion(func(d wizard.ConnectedDevice) { c.result = &d }),
	)
	return c
}

// Modal marks the wizard as an overlay on the dashboard.
func (c *ConnectScreen) Modal() {}

func (c *ConnectScreen) Title() string {
	return "Connect " + c.category.DisplayName()
}

func (c *ConnectScreen) Init() tea.Cmd {
	if err := c.wiz.Start(c.category); err != nil {
		c.log.Warn("connect: start rejected", "category", string(c.category), "err", err)
		return nil
	}
	return tea.Batch(c.sched.drain(), c.spinner.Tick)
}

// Snapshot exposes the wizard state for rendering and tests.
func (c *ConnectScreen) Snapshot() wizard.Snapshot {
	return c.wiz.Snapshot()
}

func (c *ConnectScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerFiredMsg:
		if msg.owner != c.sched || c.closed {
			return c, nil
		}
		c.sched.fire(msg.id)
		return c, c.afterDispatch()

	case spinner.TickMsg:
		if !c.busy() {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case components.ChoiceMsg:
		// Picks are delivered asynchronously; one made for an earlier
		// question must not answer the current one.
		if snap := c.wiz.Snapshot(); snap.Phase != wizard.PhaseAskingQuestions || msg.Tag != snap.QuestionIndex {
			c.log.Debug("connect: stale choice dropped", "value", msg.Value, "tag", msg.Tag)
			return c, nil
		}
		var err error
		switch msg.Kind {
		case components.ChoicePick:
			err = c.wiz.Answer(msg.Value)
		case components.ChoiceToggle:
			err = c.wiz.ToggleMultiAnswer(msg.Value)
		case components.ChoiceContinue:
			err = c.wiz.ContinueMultiAnswer()
		}
		if err != nil {
			return c, nil
		}
		return c, c.afterDispatch()

	case tea.KeyPressMsg:
		return c.handleKey(msg)
	}
	return c, nil
}

func (c *ConnectScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		return c, c.close()
	}

	switch c.wiz.Phase() {
	case wizard.PhaseDevicesListed:
		devices := c.wiz.Snapshot().Devices
		switch msg.String() {
		case "up", "k":
			if c.deviceCursor > 0 {
				c.deviceCursor--
			}
		case "down", "j":
			if c.deviceCursor < len(devices)-1 {
				c.deviceCursor++
			}
		case "enter":
			if c.deviceCursor < len(devices) {
				if err := c.wiz.SelectDevice(devices[c.deviceCursor].ID); err == nil {
					return c, c.afterDispatch()
				}
			}
		}
		return c, nil

	case wizard.PhaseAskingQuestions:
		var cmd tea.Cmd
		c.choices, cmd = c.choices.Update(msg)
		return c, cmd
	}
	return c, nil
}

// close cancels any run in progress and dismisses the modal.
func (c *ConnectScreen) close() tea.Cmd {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.wiz.Phase() != wizard.PhaseCompleted {
		_ = c.wiz.Cancel()
	}
	return router.Pop()
}

// afterDispatch collects scheduled timers, keeps the question view in step
// with the wizard and finishes the modal on completion.
func (c *ConnectScreen) afterDispatch() tea.Cmd {
	cmds := []tea.Cmd{c.sched.drain()}

	if c.result != nil {
		c.closed = true
		dev := *c.result
		c.log.Info("device connected", "device", dev.Device.ID, "category", string(dev.Category))
		return tea.Sequence(router.Pop(), func() tea.Msg { return DeviceConnectedMsg{Device: dev} })
	}

	snap := c.wiz.Snapshot()
	if snap.Phase == wizard.PhaseAskingQuestions && snap.Question != nil {
		if snap.QuestionIndex != c.question {
			c.question = snap.QuestionIndex
			c.choices = components.NewChoiceList(snap.Question.Prompt, snap.Question.Options, snap.Question.MultiSelect)
			c.choices.Tag = snap.QuestionIndex
		}
		if snap.Question.MultiSelect {
			c.choices.Checked = map[string]bool{}
			for _, v := range snap.Answers.HealthConditions {
				c.choices.Checked[v] = true
			}
		}
	}
	if snap.Phase == wizard.PhaseConnecting || snap.Phase == wizard.PhaseSearching {
		cmds = append(cmds, c.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (c *ConnectScreen) busy() bool {
	p := c.wiz.Phase()
	return p == wizard.PhaseSearching || p == wizard.PhaseConnecting
}

func (c *ConnectScreen) View(width, height int) string {
	snap := c.wiz.Snapshot()
	var body string

	switch snap.Phase {
	case wizard.PhaseSearching:
		body = c.spinner.View() + " " + theme.Title.Render("Searching for "+c.category.DisplayName()) + "\n\n" +
			theme.Hint.Render("Looking for nearby available devices...")

	case wizard.PhaseDevicesListed:
		var b strings.Builder
		b.WriteString(theme.Title.Render("Devices Found") + "\n")
		b.WriteString(theme.Label.Render("Select the device you want to connect") + "\n\n")
		for i, d := range snap.Devices {
			name := d.DisplayName
			if i == c.deviceCursor {
				name = theme.Selected.Render("▸ " + name)
			} else {
				name = theme.Unselected.Render("  " + name)
			}
			fmt.Fprintf(&b, "%s  %s\n", name, components.SignalBars(d.Signal.Bars()))
			b.WriteString(theme.Label.Render("    Ready to connect") + "\n")
		}
		body = b.String()

	case wizard.PhaseAskingQuestions:
		progress := components.StepProgress(snap.QuestionIndex+1, snap.QuestionCount, 40)
		body = progress.View() + "\n\n" + c.choices.View()

	case wizard.PhaseConnecting:
		name := ""
		if snap.Selected != nil {
			name = snap.Selected.DisplayName
		}
		body = c.spinner.View() + " " + theme.Title.Render("Connecting to "+name) + "\n\n" +
			theme.Hint.Render("Please wait while we set up your device...")

	default:
		body = theme.Hint.Render("No connection in progress.")
	}

	modal := theme.Modal.Width(56).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

func (c *ConnectScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	switch c.wiz.Phase() {
	case wizard.PhaseDevicesListed:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Choose"}, layout.KeyHint{Key: "Enter", Description: "Connect"})
	case wizard.PhaseAskingQuestions:
		if c.choices.Multi {
			hints = append(hints, layout.KeyHint{Key: "Space", Description: "Toggle"}, layout.KeyHint{Key: "Tab", Description: "Continue"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Select"})
		}
	}
	return hints
}
