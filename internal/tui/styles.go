package tui

import "github.com/charmbracelet/lipgloss"

// Theme colors for the preview
const (
	colorAccent = "86"  // cyan/green - the animated role text
	colorText   = "252" // light gray - greeting
	colorMuted  = "241" // gray - hints
)

// Styles contains the style definitions used by the preview model.
type Styles struct {
	Greeting lipgloss.Style
	Role     lipgloss.Style
	Cursor   lipgloss.Style
	Hint     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Greeting: lipgloss.NewStyle().Foreground(lipgloss.Color(colorText)),
		Role: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAccent)).
			Blink(true),
		Hint: lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted)),
	}
}
