package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Output styles for command results. Colours degrade to plain text on
// dumb terminals via lipgloss's profile detection.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E3A1"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F38BA8"))
)

// renderStatus colours a status word green or red.
func renderStatus(status string) string {
	if status == "healthy" {
		return successStyle.Render(status)
	}
	return errorStyle.Render(status)
}
