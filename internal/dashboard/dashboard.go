// Package dashboard assembles what the caregiver sees after sign-in: the
// device connection prompt, or, once a device is connected, the daily
// overview for the person being monitored.
//
// Health figures are fixed sample values until a real device feed exists.
package dashboard

import (
	"fmt"

	"github.com/careconnect-ai/careconnect/internal/catalog"
	"github.com/careconnect-ai/careconnect/internal/wizard"
)

// Level grades a day's score.
type Level string

const (
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelFair      Level = "fair"
)

// DayScore is one bar of the weekly trend.
type DayScore struct {
	Day   string
	Score int
	Level Level
}

// Stat is one row of today's stats.
type Stat struct {
	Label string
	Value string
	Note  string
}

// ScoreMax is the top of the Peace of Mind scale.
const ScoreMax = 100

// Prompt texts for the not-yet-connected state.
const (
	EmptyTitle     = "No Device Connected"
	EmptyText      = "Connect your loved one's wearable device to start receiving real-time health insights, daily Peace of Mind scores, and proactive alerts."
	SupportedLine  = "Supports Fitbit, Apple Watch, Garmin, Samsung Galaxy Watch, and more"
	AllClearTitle  = "All Clear"
	AllClearDetail = "No concerns detected"
)

// WeeklyScores returns the Monday to Sunday trend.
func WeeklyScores() []DayScore {
	return []DayScore{
		{Day: "Mon", Score: 85, Level: LevelGood},
		{Day: "Tue", Score: 82, Level: LevelGood},
		{Day: "Wed", Score: 78, Level: LevelFair},
		{Day: "Thu", Score: 88, Level: LevelGood},
		{Day: "Fri", Score: 91, Level: LevelExcellent},
		{Day: "Sat", Score: 87, Level: LevelGood},
		{Day: "Sun", Score: 89, Level: LevelGood},
	}
}

// TodayStats returns today's sleep, steps and heart rate.
func TodayStats() []Stat {
	return []Stat{
		{Label: "Sleep", Value: "7.2 hours", Note: "Good"},
		{Label: "Steps", Value: "4,521", Note: "Active"},
		{Label: "Heart Rate", Value: "68 bpm", Note: "Normal"},
	}
}

// Overview is the dashboard content, independent of rendering.
type Overview struct {
	Greeting  string
	Connected bool

	// Set only when Connected.
	Device       catalog.Candidate
	SignalBars   int
	Banner       string
	Monitoring   string
	Wellbeing    string
	Score        int
	ScoreNote    string
	Week         []DayScore
	Stats        []Stat
	AllClearText string
}

// Build returns the overview for the signed-in user and the device
// connected this session, if any.
func Build(userName string, dev *wizard.ConnectedDevice) Overview {
	o := Overview{Greeting: Greeting(userName)}
	if dev == nil {
		return o
	}

	person := dev.Answers.PersonName
	o.Connected = true
	o.Device = dev.Device
	o.SignalBars = dev.Device.Signal.Bars()
	o.Banner = dev.Device.DisplayName + " Connected"
	o.Monitoring = fmt.Sprintf("Monitoring %s's wellbeing", orDefault(person, "your loved one"))
	o.Wellbeing = fmt.Sprintf("%s's Wellbeing", orDefault(person, "Your Loved One"))
	o.Score = 87
	o.ScoreNote = "Looking good today"
	o.Week = WeeklyScores()
	o.Stats = TodayStats()
	o.AllClearText = fmt.Sprintf(
		"Everything looks normal. %s had a restful night and is moving about as expected.",
		orDefault(person, "Your loved one"))
	return o
}

// Greeting returns the header greeting for name.
func Greeting(name string) string {
	if name == "" {
		return "Welcome"
	}
	return "Welcome, " + name
}

// BarHeight scales score to at most rows cells, keeping every bar visible.
func BarHeight(score, rows int) int {
	if rows <= 0 {
		return 0
	}
	h := score * rows / ScoreMax
	if h < 1 {
		h = 1
	}
	if h > rows {
		h = rows
	}
	return h
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
