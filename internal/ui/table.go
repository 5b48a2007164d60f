package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cellGap is the space added after the widest cell of each column.
const cellGap = 4

// Table renders rows under a header between horizontal rules.
type Table struct {
	headers []string
	rows    [][]string
}

// NewStyledTable returns an empty table with the given headers.
func NewStyledTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row. Short rows are padded, extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int { return len(t.rows) }

// columnWidths returns the display width of each column including cellGap.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	for _, row := range append([][]string{t.headers}, t.rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	for i := range widths {
		widths[i] += cellGap
	}
	return widths
}

// String renders the table. A table without headers renders as "".
func (t *Table) String() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.columnWidths()

	ruleWidth := 1
	for _, w := range widths {
		ruleWidth += w
	}
	rule := strings.Repeat("─", ruleWidth)

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteByte(' ')
		for i, cell := range cells {
			b.WriteString(padRight(cell, widths[i]))
		}
		return b.String()
	}

	out := []string{rule, line(t.headers), rule}
	for _, row := range t.rows {
		out = append(out, line(row))
	}
	return strings.Join(out, "\n") + "\n"
}
