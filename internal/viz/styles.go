package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a bar filled to percent (0..1) in the theme colours.
func ProgressBar(percent float64, width int, theme Theme) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	done := lipgloss.NewStyle().Foreground(theme.Success).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(theme.Muted).Render(strings.Repeat("░", width-filled))
	return done + rest
}
