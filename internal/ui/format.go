package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderTitle renders title over a dim rule of the same width.
func RenderTitle(title string) string {
	return Header(title) + "\n" + Dim(strings.Repeat("─", lipgloss.Width(title)))
}

// FormatKeyValue renders "key: value" with a dim key.
func FormatKeyValue(key, value string) string {
	return Dim(key+": ") + value
}

// FormatCount renders "1 command" or "3 commands".
func FormatCount(count int, singular, plural string) string {
	noun := plural
	if count == 1 {
		noun = singular
	}
	return fmt.Sprintf("%d %s", count, noun)
}

// FormatDuration renders d with one unit: µs, ms, tenths of seconds or of
// minutes.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
}

// FormatTimestamp renders t in local time to the second, or "-" when unset.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

// Indent prefixes every non-empty line of content with spaces.
func Indent(content string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(content, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func RenderSuccessPanel(title, content string) string {
	return renderPanel("✓ "+title, content, styles.Success)
}

func RenderWarningPanel(title, content string) string {
	return renderPanel("⚠ "+title, content, styles.Warning)
}

func RenderErrorPanel(title, content string) string {
	return renderPanel("✗ "+title, content, styles.Error)
}

// renderPanel frames a bold heading and content in a rounded border colored
// like accent.
func renderPanel(title, content string, accent lipgloss.Style) string {
	color := accent.GetForeground()
	heading := lipgloss.NewStyle().Bold(true).Foreground(color).Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(heading + "\n\n" + strings.TrimRight(content, "\n"))
}
