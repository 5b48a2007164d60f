// Package sqlgen provides the rewriting statement builder that sits between
// the idempotent generator and the Oracle producer. The builder intercepts
// every fragment the producer appends and nests trigger and comment
// statements into dynamically executed strings when the enclosing block
// cannot hold them directly.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/dialect"
)

// indentUnit is one level of indentation in generated scripts.
const indentUnit = "    "

// Boundaries the rewrite rules forward in place of intercepted tokens.
const (
	executeImmediate = "EXECUTE IMMEDIATE '"
	closeString      = "';"
	closeTrigger     = "; END;';"
)

// Command is one executable statement of the generated script.
type Command struct {
	// Text is the statement text without trailing whitespace.
	Text string
	// Op is the index of the operation that produced the command, or -1.
	Op int
	// Kind is the kind of that operation.
	Kind string
}

// Mode holds the caller-controlled rewrite flags of a scope.
type Mode struct {
	// CreateTable is set while the producer emits a table creation.
	CreateTable bool
	// AddColumn is set while the producer emits a column addition.
	AddColumn bool
	// AlterTable is set while the producer emits a standalone comment
	// change (alter table, alter column).
	AlterTable bool
	// IgnoreEndOfStatement swallows terminators and command ends so several
	// sub-statements merge into one command.
	IgnoreEndOfStatement bool
	// EscapeQuotes doubles single quotes because the text is nested in a
	// quoted dynamic-execution string.
	EscapeQuotes bool
}

func (m Mode) merge(o Mode) Mode {
	return Mode{
		CreateTable:          m.CreateTable || o.CreateTable,
		AddColumn:            m.AddColumn || o.AddColumn,
		AlterTable:           m.AlterTable || o.AlterTable,
		IgnoreEndOfStatement: m.IgnoreEndOfStatement || o.IgnoreEndOfStatement,
		EscapeQuotes:         m.EscapeQuotes || o.EscapeQuotes,
	}
}

// nestsComments reports whether a comment statement must be nested.
func (m Mode) nestsComments() bool {
	return m.CreateTable || m.AddColumn || m.AlterTable
}

// nestsTriggers reports whether a trigger statement must be nested.
func (m Mode) nestsTriggers() bool {
	return m.CreateTable || m.AddColumn
}

// Option configures a Builder.
type Option func(*Builder)

// WithStrict records a diagnostic whenever a scope ends while a nested
// trigger or comment string is still open.
func WithStrict() Option {
	return func(b *Builder) {
		b.strict = true
	}
}

// Builder accumulates fragments into commands, rewriting trigger and comment
// fragments according to the current mode. It is not safe for concurrent use.
type Builder struct {
	buf         strings.Builder
	commands    []Command
	mode        Mode
	inTrigger   bool
	inComment   bool
	indent      int
	atLineStart bool
	written     int

	op   int
	kind string

	strict bool
	diags  []string
}

var _ dialect.Sink = (*Builder)(nil)

// New creates an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{atLineStart: true, op: -1}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ----------------------------------------------------------------------------
// Sink
// ----------------------------------------------------------------------------

// Append applies the rewrite rules to f and forwards the result.
func (b *Builder) Append(f string) {
	if b.escaping() {
		f = dialect.EscapeQuotes(f)
	}

	switch {
	case b.mode.nestsTriggers() && f == dialect.TriggerOpener:
		b.inTrigger = true
		b.write(executeImmediate + f)

	case b.inTrigger && f == dialect.TriggerCloser:
		b.inTrigger = false
		b.writeLine(closeTrigger)

	case b.mode.nestsComments() && (f == dialect.CommentOnTable || f == dialect.CommentOnColumn):
		b.inComment = true
		if b.mode.AddColumn {
			b.writeLine(closeString)
		}
		b.write(executeImmediate + f)

	case b.inComment && strings.HasPrefix(f, dialect.UnicodePrefix):
		// Comment text is stored without the national prefix.
		b.write(f[1:])

	default:
		b.write(f)
	}
}

// AppendLine forwards f and a line break. A lone terminator may instead
// close a nested comment string or be swallowed.
func (b *Builder) AppendLine(f string) {
	if f != dialect.Terminator {
		if b.escaping() {
			f = dialect.EscapeQuotes(f)
		}
		b.writeLine(f)
		return
	}

	if b.inComment {
		b.inComment = false
		if b.mode.CreateTable || b.mode.AlterTable {
			b.writeLine(closeString)
		}
		return
	}

	if b.mode.IgnoreEndOfStatement {
		return
	}
	b.writeLine(f)
}

// EndCommand closes the current command unless end of statement is ignored.
// Blank commands are dropped.
func (b *Builder) EndCommand() {
	if b.mode.IgnoreEndOfStatement {
		return
	}
	b.flush()
}

// Indent runs body with one more level of indentation.
func (b *Builder) Indent(body func()) {
	b.indent++
	defer func() { b.indent-- }()
	body()
}

// ----------------------------------------------------------------------------
// Scopes
// ----------------------------------------------------------------------------

// Within runs fn with m merged into the current mode and restores the mode
// afterwards. Trigger and comment strings opened inside fn belong to the
// scope and are closed when it ends.
func (b *Builder) Within(m Mode, fn func()) {
	saved, trig, comment := b.mode, b.inTrigger, b.inComment
	b.mode = saved.merge(m)
	defer func() {
		if b.inTrigger && !trig {
			b.diagnose("row-version trigger string was not closed")
		}
		if b.inComment && !comment {
			b.diagnose("comment string was not closed")
		}
		b.mode, b.inTrigger, b.inComment = saved, trig, comment
	}()
	fn()
}

// Mode returns the current mode.
func (b *Builder) Mode() Mode {
	return b.mode
}

// SetOrigin tags the commands flushed from now on with an operation.
func (b *Builder) SetOrigin(op int, kind string) {
	b.op, b.kind = op, kind
}

func (b *Builder) diagnose(msg string) {
	if !b.strict {
		return
	}
	if b.kind != "" {
		msg = fmt.Sprintf("%s (operation %d, %s)", msg, b.op, b.kind)
	}
	b.diags = append(b.diags, msg)
}

// Err returns the strict-mode diagnostics as one error, or nil.
func (b *Builder) Err() error {
	if len(b.diags) == 0 {
		return nil
	}
	return alerr.New(alerr.ErrRewriteUnterminated, b.diags[0]).
		With("diagnostics", append([]string(nil), b.diags...)).
		WithHelp("the producer must emit the terminator and END tokens as separate fragments")
}

// ----------------------------------------------------------------------------
// Output
// ----------------------------------------------------------------------------

// Written returns the number of fragments forwarded so far.
func (b *Builder) Written() int {
	return b.written
}

// String returns the text of the command being built.
func (b *Builder) String() string {
	return b.buf.String()
}

// Build flushes any pending text and returns the commands in order.
func (b *Builder) Build() []Command {
	b.flush()
	out := make([]Command, len(b.commands))
	copy(out, b.commands)
	return out
}

// Checkpoint captures the builder output so it can be rolled back.
type Checkpoint struct {
	text     string
	commands int
	written  int
	diags    int
}

// Checkpoint returns the current output position.
func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint{
		text:     b.buf.String(),
		commands: len(b.commands),
		written:  b.written,
		diags:    len(b.diags),
	}
}

// Rollback discards everything written since c.
func (b *Builder) Rollback(c Checkpoint) {
	b.buf.Reset()
	b.buf.WriteString(c.text)
	b.commands = b.commands[:c.commands]
	b.written = c.written
	b.diags = b.diags[:c.diags]
	b.atLineStart = c.text == "" || strings.HasSuffix(c.text, "\n")
}

func (b *Builder) escaping() bool {
	return b.mode.EscapeQuotes || b.inTrigger || b.inComment
}

func (b *Builder) write(s string) {
	b.written++
	if s == "" {
		return
	}
	if b.atLineStart {
		b.buf.WriteString(strings.Repeat(indentUnit, b.indent))
		b.atLineStart = false
	}
	b.buf.WriteString(s)
}

func (b *Builder) writeLine(s string) {
	b.write(s)
	b.buf.WriteByte('\n')
	b.atLineStart = true
}

func (b *Builder) flush() {
	text := strings.TrimRight(b.buf.String(), " \t\r\n")
	b.buf.Reset()
	b.atLineStart = true
	if strings.TrimSpace(text) == "" {
		return
	}
	b.commands = append(b.commands, Command{Text: text, Op: b.op, Kind: b.kind})
}
