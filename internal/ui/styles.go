// Package ui provides terminal output helpers and the interactive command
// browser. Static output is styled with lipgloss; interactive views use tview.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles is the single source of truth for static output styling.
type Styles struct {
	Primary lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
	Border  lipgloss.Style
	Bold    lipgloss.Style
}

// DefaultStyles returns the default color styles.
func DefaultStyles() *Styles {
	return &Styles{
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // Blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // Green
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // Red
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // Yellow
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // Cyan
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),  // Gray
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
}

var styles = DefaultStyles()

// SetStyles replaces the global styles.
func SetStyles(s *Styles) {
	styles = s
}

// Primary renders text in the primary color.
func Primary(text string) string { return styles.Primary.Render(text) }

// Success renders text with a success checkmark.
func Success(text string) string { return styles.Success.Render("✓ " + text) }

// Error renders text in the error color.
func Error(text string) string { return styles.Error.Render(text) }

// Warning renders text in the warning color.
func Warning(text string) string { return styles.Warning.Render(text) }

// Info renders text in the info color.
func Info(text string) string { return styles.Info.Render(text) }

// Dim renders text in a dimmed color.
func Dim(text string) string { return styles.Dim.Render(text) }

// Bold renders bold text.
func Bold(text string) string { return styles.Bold.Render(text) }

// Header renders text as a header (bold primary).
func Header(text string) string { return styles.Header.Render(text) }

// Failed renders text with an error cross.
func Failed(text string) string { return styles.Error.Render("✗ " + text) }
