package ui

import (
	"github.com/gdamore/tcell/v2"
)

// Theme defines the color scheme for the interactive views.
var Theme = struct {
	Primary tcell.Color
	Success tcell.Color
	Warning tcell.Color
	Error   tcell.Color
	Info    tcell.Color

	Text    tcell.Color
	TextDim tcell.Color

	Background tcell.Color

	Border      tcell.Color
	BorderFocus tcell.Color
	Header      tcell.Color
	Selection   tcell.Color
	Highlight   tcell.Color
}{
	Primary: tcell.ColorBlue,
	Success: tcell.ColorGreen,
	Warning: tcell.ColorYellow,
	Error:   tcell.ColorRed,
	Info:    tcell.ColorAqua, // tcell v2 uses ColorAqua for cyan

	Text:    tcell.ColorWhite,
	TextDim: tcell.ColorGray,

	Background: tcell.ColorBlack,

	Border:      tcell.ColorGray,
	BorderFocus: tcell.ColorBlue,
	Header:      tcell.ColorYellow,
	Selection:   tcell.ColorTeal,
	Highlight:   tcell.ColorWhite,
}

// Color tags for tview dynamic-color text.
const (
	TagLabel   = "[yellow]"
	TagValue   = "[white]"
	TagSuccess = "[green]"
	TagError   = "[red]"
	TagMuted   = "[gray]"
	TagReset   = "[-]"
)
