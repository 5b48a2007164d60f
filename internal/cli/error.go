package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/oraddl/internal/alerr"
)

// sqlSnippetLines caps the statement excerpt shown for SQL failures.
const sqlSnippetLines = 12

// keys rendered by dedicated sections rather than the detail list.
var shownKeys = map[string]bool{
	"file": true, "line": true, "sql": true, "helps": true,
}

// FormatError formats an error for CLI display in compiler style:
//
//	error[E1002]: unknown operation kind
//	  --> plans/001.yaml:7
//	  |
//	7 | - create_tabel:
//	  | ^^^^^^^^^^^^^^
//	  |
//	  | index: 1
//	help: ...
//	cause: ...
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ae *alerr.Error
	if !errors.As(err, &ae) {
		return Error("error") + ": " + err.Error() + "\n"
	}

	var b strings.Builder
	ctx := ae.GetContext()

	b.WriteString(Error("error"))
	b.WriteString("[" + Code(string(ae.GetCode())) + "]: ")
	b.WriteString(ae.GetMessage())
	b.WriteString("\n")

	file, _ := ctx["file"].(string)
	line, _ := ctx["line"].(int)
	if file != "" {
		b.WriteString(RenderFileHeader(file, line))
		if line > 0 {
			if snippet, err := NewSourceSnippet(file, line, 1, 1); err == nil {
				b.WriteString(snippet.Render())
			}
		}
	}

	if sql, ok := ctx["sql"].(string); ok && sql != "" {
		b.WriteString(NewTextSnippet(sql, sqlSnippetLines).Render())
	}

	if details := contextDetails(ctx); len(details) > 0 {
		b.WriteString("   " + Pipe() + "\n")
		for _, d := range details {
			b.WriteString("   " + Pipe() + " " + d + "\n")
		}
	}

	for _, help := range ae.Helps() {
		b.WriteString(Help("help") + ": " + help + "\n")
	}

	if cause := ae.GetCause(); cause != nil {
		b.WriteString(Note("cause") + ": " + cleanCauseMessage(cause.Error()) + "\n")
	}

	return b.String()
}

// contextDetails lists the remaining context as sorted "key: value" lines.
func contextDetails(ctx map[string]any) []string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if !shownKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	details := make([]string, 0, len(keys))
	for _, k := range keys {
		details = append(details, fmt.Sprintf("%s: %v", k, ctx[k]))
	}
	return details
}

// cleanCauseMessage drops the goja native stack suffix from messages raised
// inside plan scripts.
func cleanCauseMessage(msg string) string {
	if idx := strings.Index(msg, " at github.com"); idx != -1 {
		msg = strings.TrimSpace(msg[:idx])
	}
	return msg
}

// FormatWarning formats a warning message.
func FormatWarning(msg string) string {
	return Warning("warning") + ": " + msg + "\n"
}

// FormatNote formats a note message.
func FormatNote(msg string) string {
	return Note("note") + ": " + msg + "\n"
}
