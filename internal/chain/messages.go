package chain

import (
	"fmt"
	"strings"

	"github.com/hlop3z/oraddl/internal/ui"
)

// FormatVerificationResult formats the verification result for display.
func FormatVerificationResult(result *VerificationResult) string {
	var b strings.Builder

	counts := map[ErrorType]int{}
	for _, e := range result.Errors {
		counts[e.Type]++
	}

	var summary strings.Builder
	summary.WriteString(fmt.Sprintf("  Verified: %s\n", ui.FormatCount(result.Verified, "command", "commands")))
	if n := counts[ErrorTampered]; n > 0 {
		summary.WriteString(fmt.Sprintf("  Tampered: %s\n", ui.Error(ui.FormatCount(n, "command", "commands"))))
	}
	if n := counts[ErrorMissing]; n > 0 {
		summary.WriteString(fmt.Sprintf("  Missing:  %s\n", ui.Error(ui.FormatCount(n, "command", "commands"))))
	}
	if n := counts[ErrorExtra]; n > 0 {
		summary.WriteString(fmt.Sprintf("  Extra:    %s\n", ui.Error(ui.FormatCount(n, "command", "commands"))))
	}
	summary.WriteString(fmt.Sprintf("  Root:     %s\n", ui.Dim(result.Root)))

	if result.Valid {
		b.WriteString(ui.RenderSuccessPanel("Script Integrity: VALID", summary.String()))
	} else {
		b.WriteString(ui.RenderErrorPanel("Script Integrity: BROKEN", summary.String()))
	}

	if len(result.Errors) > 0 {
		b.WriteString("\n")
		list := ui.NewList()
		for _, err := range result.Errors {
			label := err.Type.String()
			if err.Index >= 0 {
				label = fmt.Sprintf("#%d %s", err.Index+1, label)
			}
			msg := fmt.Sprintf("[%s] %s", ui.Bold(label), err.Message)
			if err.Details != "" {
				msg += "\n" + err.Details
			}
			list.AddError(msg)
		}
		b.WriteString(list.String())
		b.WriteString("\n")
	}

	return b.String()
}

// FormatChain lists the commands of a chain as a table.
func FormatChain(c *Chain) string {
	table := ui.NewStyledTable("#", "KIND", "CHECKSUM")
	for _, link := range c.Links {
		kind := link.Kind
		if kind == "" {
			kind = "-"
		}
		table.AddRow(fmt.Sprintf("%d", link.Index+1), kind, link.Checksum[:12])
	}
	return table.String()
}
