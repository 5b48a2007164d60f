package dialect

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName upper-cases an identifier the way the Oracle catalog stores
// non-quoted names. A Caser is stateful, so each call builds its own.
func NormalizeName(name string) string {
	return cases.Upper(language.Und).String(name)
}

// QuoteIdent normalizes and double-quotes an identifier.
func QuoteIdent(name string) string {
	escaped := strings.ReplaceAll(NormalizeName(name), `"`, `""`)
	return `"` + escaped + `"`
}

// QuoteIdents returns a comma-separated list of quoted identifiers.
func QuoteIdents(names []string) string {
	var b strings.Builder
	writeQuotedList(&b, names)
	return b.String()
}

// QualifiedColumn returns "TABLE"."COLUMN".
func QualifiedColumn(table, column string) string {
	return QuoteIdent(table) + "." + QuoteIdent(column)
}

func writeQuotedList(b *strings.Builder, items []string) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(QuoteIdent(item))
	}
}

// EscapeQuotes doubles single quotes so s can sit inside a quoted literal.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Literal returns s as a single-quoted SQL string literal.
func Literal(s string) string {
	return "'" + EscapeQuotes(s) + "'"
}

// UnicodeLiteral returns s as a national character literal (N'...').
func UnicodeLiteral(s string) string {
	return "N" + Literal(s)
}

// endStatement terminates the current statement when asked to.
func endStatement(s Sink, terminate bool) {
	if terminate {
		s.AppendLine(Terminator)
		s.EndCommand()
	}
}
