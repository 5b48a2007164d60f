package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/rivo/tview"
)

// HintsBrowser is the key help shown in the browser status bar.
const HintsBrowser = "q quit  ↑↓/jk navigate  tab switch panel  g/G first/last"

// Item is one entry in the browser.
type Item struct {
	Title    string // list label
	Subtitle string // dim label under the title
	Detail   string // right panel content
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Browse shows items in a two-panel browser until the user quits. When
// stdout is not a terminal the items are printed instead.
func Browse(title string, items []Item) error {
	if !IsTerminal(os.Stdout) {
		return WriteItems(os.Stdout, title, items)
	}
	b := newBrowser(title, items)
	return b.app.SetRoot(b.layout, true).EnableMouse(true).Run()
}

// WriteItems prints items as plain text.
func WriteItems(w io.Writer, title string, items []Item) error {
	if _, err := fmt.Fprintln(w, RenderTitle(title)); err != nil {
		return err
	}
	for _, it := range items {
		fmt.Fprintf(w, "\n%s  %s\n", Primary(it.Title), Dim(it.Subtitle))
		fmt.Fprintln(w, Indent(it.Detail, 2))
	}
	return nil
}

// browser holds the primitives of the interactive view.
type browser struct {
	app    *tview.Application
	layout *tview.Flex
	list   *tview.List
	detail *tview.TextView
	items  []Item
}

func newBrowser(title string, items []Item) *browser {
	b := &browser{app: tview.NewApplication(), items: items}

	b.list = tview.NewList().
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(Theme.Selection).
		SetSelectedTextColor(Theme.Highlight).
		SetSecondaryTextColor(Theme.TextDim).
		SetMainTextColor(Theme.Text)
	b.list.SetBorder(true).
		SetBorderColor(Theme.Border).
		SetTitle(" Commands ").
		SetTitleColor(Theme.Header)

	b.detail = tview.NewTextView().
		SetScrollable(true).
		SetWrap(false)
	b.detail.SetBorder(true).
		SetBorderColor(Theme.Border).
		SetTitle(" SQL ").
		SetTitleColor(Theme.Header)

	for _, it := range items {
		b.list.AddItem(it.Title, it.Subtitle, 0, nil)
	}
	b.list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		b.show(index)
	})
	if len(items) > 0 {
		b.show(0)
	} else {
		b.detail.SetText("No commands.")
	}

	header := tview.NewTextView().
		SetText(" " + title + " ").
		SetTextColor(Theme.Text)
	header.SetBackgroundColor(Theme.Primary)

	status := tview.NewTextView().
		SetText(HintsBrowser).
		SetTextColor(Theme.TextDim).
		SetTextAlign(tview.AlignCenter)

	body := tview.NewFlex().
		AddItem(b.list, 40, 0, true).
		AddItem(b.detail, 0, 1, false)

	b.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(body, 0, 1, true).
		AddItem(status, 1, 0, false)

	b.app.SetInputCapture(b.keys)
	return b
}

// show displays the detail of item index.
func (b *browser) show(index int) {
	if index < 0 || index >= len(b.items) {
		return
	}
	b.detail.SetText(b.items[index].Detail).ScrollToBeginning()
}

// keys handles global key bindings.
func (b *browser) keys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		b.app.Stop()
		return nil
	case tcell.KeyTab:
		if b.list.HasFocus() {
			b.app.SetFocus(b.detail)
		} else {
			b.app.SetFocus(b.list)
		}
		return nil
	}

	switch event.Rune() {
	case 'q':
		b.app.Stop()
		return nil
	case 'j':
		b.move(1)
		return nil
	case 'k':
		b.move(-1)
		return nil
	case 'g':
		b.list.SetCurrentItem(0)
		return nil
	case 'G':
		b.list.SetCurrentItem(-1)
		return nil
	}
	return event
}

func (b *browser) move(delta int) {
	n := b.list.GetItemCount()
	if n == 0 {
		return
	}
	next := b.list.GetCurrentItem() + delta
	if next < 0 || next >= n {
		return
	}
	b.list.SetCurrentItem(next)
}
