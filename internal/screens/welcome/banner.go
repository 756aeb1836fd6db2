package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/careconnect-ai/careconnect/internal/ui/theme"
)

const bannerArt = `
  ██████╗ █████╗ ██████╗ ███████╗
 ██╔════╝██╔══██╗██╔══██╗██╔════╝
 ██║     ███████║██████╔╝█████╗
 ██║     ██╔══██║██╔══██╗██╔══╝
 ╚██████╗██║  ██║██║  ██║███████╗
  ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝
        C O N N E C T`

const bannerCompact = "C A R E C O N N E C T"

// RenderBanner returns the CareConnect banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
