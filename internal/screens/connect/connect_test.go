package connect

import (
	"reflect"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careconnect-ai/careconnect/internal/catalog"
	"github.com/careconnect-ai/careconnect/internal/router"
	"github.com/careconnect-ai/careconnect/internal/ui/components"
	"github.com/careconnect-ai/careconnect/internal/wizard"
)

func newTestScreen(t *testing.T, cat catalog.Category) *ConnectScreen {
	t.Helper()
	cfg := wizard.Config{DiscoveryDelay: time.Millisecond, ConnectDelay: time.Millisecond}
	c := New(wizard.NewMachine(nil, nil), cfg, cat, nil)
	c.Init()
	return c
}

// fireDue delivers every pending timer as if its tick arrived.
func fireDue(c *ConnectScreen) tea.Cmd {
	var ids []int
	for id := range c.sched.timers {
		ids = append(ids, id)
	}
	var last tea.Cmd
	for _, id := range ids {
		_, last = c.Update(timerFiredMsg{owner: c.sched, id: id})
	}
	return last
}

func pressKey(c *ConnectScreen, code rune) tea.Cmd {
	_, cmd := c.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

// choose delivers a choice as if the question on screen emitted it.
func choose(c *ConnectScreen, kind components.ChoiceKind, value string) {
	c.Update(components.ChoiceMsg{Kind: kind, Value: value, Tag: c.choices.Tag})
}

// sequenceMsgs runs the commands of a tea.Sequence and returns their messages.
func sequenceMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	v := reflect.ValueOf(cmd())
	require.Equal(t, reflect.Slice, v.Kind(), "expected a sequence of commands")
	var msgs []tea.Msg
	for i := 0; i < v.Len(); i++ {
		if sub, ok := v.Index(i).Interface().(tea.Cmd); ok && sub != nil {
			msgs = append(msgs, sub())
		}
	}
	return msgs
}

func answerAll(c *ConnectScreen) {
	choose(c, components.ChoicePick, "Mum")
	choose(c, components.ChoicePick, "Son/Daughter")
	choose(c, components.ChoicePick, "80-89")
	choose(c, components.ChoiceToggle, "Diabetes")
	choose(c, components.ChoiceToggle, "Memory concerns")
	choose(c, components.ChoiceContinue, "")
}

func TestInitStartsSearching(t *testing.T) {
	c := newTestScreen(t, catalog.CategoryFitbit)
	assert.Equal(t, wizard.PhaseSearching, c.Snapshot().Phase)
	assert.Equal(t, 1, c.sched.pending())
	assert.Contains(t, c.View(100, 30), "Searching for Fitbit")
	assert.Equal(t, "Connect Fitbit", c.Title())
}

func TestFullFlowDeliversDevice(t *testing.T) {
	c := newTestScreen(t, catalog.CategoryAppleWatch)

	fireDue(c)
	snap := c.Snapshot()
	require.Equal(t, wizard.PhaseDevicesListed, snap.Phase)
	require.Len(t, snap.Devices, 3)
	assert.Contains(t, c.View(100, 30), "Devices Found")

	pressKey(c, tea.KeyDown)
	pressKey(c, tea.KeyEnter)
	snap = c.Snapshot()
	require.Equal(t, wizard.PhaseAskingQuestions, snap.Phase)
	assert.Equal(t, snap.Devices[1].ID, snap.Selected.ID)
	assert.Equal(t, snap.Question.Prompt, c.choices.Prompt)

	answerAll(c)
	require.Equal(t, wizard.PhaseConnecting, c.Snapshot().Phase)
	assert.Contains(t, c.View(100, 30), "Connecting to "+snap.Devices[1].DisplayName)

	cmd := fireDue(c)
	assert.Equal(t, wizard.PhaseCompleted, c.Snapshot().Phase)

	msgs := sequenceMsgs(t, cmd)
	require.Len(t, msgs, 2)
	assert.Equal(t, router.PopScreenMsg{}, msgs[0])
	done, ok := msgs[1].(DeviceConnectedMsg)
	require.True(t, ok, "expected DeviceConnectedMsg, got %T", msgs[1])
	assert.Equal(t, snap.Devices[1].ID, done.Device.Device.ID)
	assert.Equal(t, catalog.CategoryAppleWatch, done.Device.Category)
	assert.Equal(t, "Mum", done.Device.Answers.PersonName)
	assert.Equal(t, []string{"Diabetes", "Memory concerns"}, done.Device.Answers.HealthConditions)
}

func TestMultiSelectChecksFollowAnswers(t *testing.T) {
	c := newTestScreen(t, catalog.CategoryFitbit)
	fireDue(c)
	pressKey(c, tea.KeyEnter)
	choose(c, components.ChoicePick, "Dad")
	choose(c, components.ChoicePick, "Caregiver")
	choose(c, components.ChoicePick, "70-79")

	require.True(t, c.choices.Multi)
	choose(c, components.ChoiceToggle, "Diabetes")
	assert.True(t, c.choices.Checked["Diabetes"])
	choose(c, components.ChoiceToggle, "Diabetes")
	assert.False(t, c.choices.Checked["Diabetes"])
}

func TestEscWhileSearchingCancelsAndPops(t *testing.T) {
	c := newTestScreen(t, catalog.CategoryOther)
	staleID := c.sched.nextID

	cmd := pressKey(c, tea.KeyEscape)
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
	assert.Equal(t, wizard.PhaseIdle, c.Snapshot().Phase)
	assert.Equal(t, 0, c.sched.pending())

	// The tick was already in flight.
	_, cmd = c.Update(timerFiredMsg{owner: c.sched, id: staleID})
	assert.Nil(t, cmd)
	assert.Equal(t, wizard.PhaseIdle, c.Snapshot().Phase)
	assert.Empty(t, c.Snapshot().Devices)
}

func TestEscWhileConnectingNeverCompletes(t *testing.T) {
	c := newTestScreen(t, catalog.CategoryFitbit)
	fireDue(c)
	pressKey(c, tea.KeyEnter)
	answerAll(c)
	require.Equal(t, wizard.PhaseConnecting, c.Snapshot().Phase)
	staleID := c.sched.nextID

	pressKey(c, tea.KeyEscape)
	c.Update(timerFiredMsg{owner: c.sched, id: staleID})

	assert.Nil(t, c.result)
	assert.Equal(t, wizard.PhaseIdle, c.Snapshot().Phase)
}

func TestTimerFromAnotherScreenIgnored(t *testing.T) {
	old := newTestScreen(t, catalog.CategoryFitbit)
	c := newTestScreen(t, catalog.CategoryFitbit)

	c.Update(timerFiredMsg{owner: old.sched, id: 1})
	assert.Equal(t, wizard.PhaseSearching, c.Snapshot().Phase)
	assert.Equal(t, 1, c.sched.pending())
}

func TestSecondEscIsNoop(t *testing.T) {
	c := newTestScreen(t, catalog.CategoryFitbit)
	pressKey(c, tea.KeyEscape)
	assert.Nil(t, pressKey(c, tea.KeyEscape))
}

func TestStartRejectedForNoCategory(t *testing.T) {
	c := newTestScreen(t, catalog.CategoryNone)
	assert.Equal(t, wizard.PhaseIdle, c.Snapshot().Phase)
	assert.Equal(t, 0, c.sched.pending())
	assert.Contains(t, c.View(100, 30), "No connection in progress")
}

func TestSchedulerStopAndFire(t *testing.T) {
	s := newTeaScheduler()
	ran := 0
	t1 := s.After(time.Second, func() { ran++ })
	s.After(time.Second, func() { ran += 10 })
	s.drain()

	assert.True(t, t1.Stop())
	assert.False(t, t1.Stop())
	assert.False(t, s.fire(1))
	assert.True(t, s.fire(2))
	assert.False(t, s.fire(2))
	assert.Equal(t, 10, ran)
	assert.Equal(t, 0, s.pending())
}

func TestDoubleEnterAnswersOnlyShownQuestion(t *testing.T) {
	c := newTestScreen(t, catalog.CategoryFitbit)
	fireDue(c)
	pressKey(c, tea.KeyEnter)
	require.Equal(t, wizard.PhaseAskingQuestions, c.Snapshot().Phase)

	// "Other" is the fifth option of both the first and second question.
	for range 4 {
		pressKey(c, tea.KeyDown)
	}
	first := pressKey(c, tea.KeyEnter)
	second := pressKey(c, tea.KeyEnter)
	require.NotNil(t, first)
	require.NotNil(t, second)

	c.Update(first())
	c.Update(second())

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.QuestionIndex)
	assert.Equal(t, "Other", snap.Answers.PersonName)
	assert.Empty(t, snap.Answers.Relationship)
}

func TestChoiceForCurrentQuestionIsApplied(t *testing.T) {
	c := newTestScreen(t, catalog.CategoryFitbit)
	fireDue(c)
	pressKey(c, tea.KeyEnter)

	c.Update(components.ChoiceMsg{Kind: components.ChoicePick, Value: "Dad", Tag: 0})
	c.Update(components.ChoiceMsg{Kind: components.ChoicePick, Value: "Spouse", Tag: 0})
	assert.Equal(t, 1, c.Snapshot().QuestionIndex)
	assert.Empty(t, c.Snapshot().Answers.Relationship)

	c.Update(components.ChoiceMsg{Kind: components.ChoicePick, Value: "Spouse", Tag: 1})
	assert.Equal(t, "Spouse", c.Snapshot().Answers.Relationship)
	assert.Equal(t, 2, c.Snapshot().QuestionIndex)
}
