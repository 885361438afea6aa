// Package ui provides shared terminal styling for the dashboard and CLI.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette (256-color).
var (
	ClrBrand  = lipgloss.Color("39")  // blue
	ClrMuted  = lipgloss.Color("245") // gray
	ClrSubtle = lipgloss.Color("242") // darker gray
	ClrGreen  = lipgloss.Color("114") // green, active store
	ClrRed    = lipgloss.Color("203") // red/error
	ClrYellow = lipgloss.Color("220") // yellow, warnings
)

// Reusable styles.
var (
	Bold   = lipgloss.NewStyle().Bold(true)
	Brand  = lipgloss.NewStyle().Foreground(ClrBrand).Bold(true)
	Muted  = lipgloss.NewStyle().Foreground(ClrMuted)
	Subtle = lipgloss.NewStyle().Foreground(ClrSubtle)
	Green  = lipgloss.NewStyle().Foreground(ClrGreen)
	Red    = lipgloss.NewStyle().Foreground(ClrRed)
	Yellow = lipgloss.NewStyle().Foreground(ClrYellow)
)

// Error formats an error message.
func Error(msg string) string {
	return Red.Render("error: " + msg)
}

// Errorf formats an error with printf-style formatting.
func Errorf(format string, a ...any) string {
	return Error(fmt.Sprintf(format, a...))
}

// Info formats an informational label with details.
func Info(label, detail string) string {
	return Brand.Render(label) + " " + Muted.Render(detail)
}

// Dim renders dimmed/muted text.
func Dim(text string) string {
	return Subtle.Render(text)
}
