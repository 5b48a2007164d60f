package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// listIndent is the indent of list markers.
const listIndent = 2

// List is a marker list. Continuation lines of an item align under its text.
type List struct {
	lines []string
}

func NewList() *List { return &List{} }

func (l *List) AddError(content string)   { l.add("✗", styles.Error, content) }
func (l *List) AddWarning(content string) { l.add("!", styles.Warning, content) }

func (l *List) add(marker string, style lipgloss.Style, content string) {
	first, rest, _ := strings.Cut(content, "\n")
	item := strings.Repeat(" ", listIndent) + style.Render(marker) + " " + first
	if rest != "" {
		item += "\n" + Indent(rest, listIndent+2)
	}
	l.lines = append(l.lines, item)
}

func (l *List) Len() int { return len(l.lines) }

func (l *List) String() string { return strings.Join(l.lines, "\n") }
