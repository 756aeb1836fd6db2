package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/careconnect-ai/careconnect/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// StepProgress returns a bar for step n (1-based) of total.
func StepProgress(n, total, width int) ProgressBar {
	pct := 0.0
	if total > 0 {
		pct = float64(n) / float64(total)
	}
	return NewProgressBar(fmt.Sprintf("Question %d of %d", n, total), pct, false, width)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Label.Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += theme.Label.Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

// SignalBars renders n of 3 signal bars.
func SignalBars(n int) string {
	const bars = "▂▄▆"
	runes := []rune(bars)
	var b strings.Builder
	for i, r := range runes {
		if i < n {
			b.WriteString(theme.Checked.Render(string(r)))
		} else {
			b.WriteString(theme.Label.Render(string(r)))
		}
	}
	return b.String()
}
