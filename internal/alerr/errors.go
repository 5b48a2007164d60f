// Package alerr provides standardized error handling for oraddl.
// Every error carries a stable, machine-readable code plus structured context.
package alerr

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Code is a stable error identifier of the form E{category}{number}.
type Code string

const (
	// E1xxx: operations and plan files.
	ErrInvalidInput     Code = "E1001" // nil or malformed generator input
	ErrPlanInvalid      Code = "E1002" // plan file is unreadable or undecodable
	ErrOperationInvalid Code = "E1003" // operation lacks a required attribute

	// E2xxx: script generation.
	ErrUnsupportedOperation Code = "E2001" // kind has no Oracle rendering
	ErrRewriteUnterminated  Code = "E2002" // nested trigger or comment left open

	// E3xxx: script files and lockfiles.
	ErrScriptChecksum Code = "E3001" // command differs from the lockfile
	ErrScriptRead     Code = "E3002" // script or lockfile unreadable

	// E4xxx: database access.
	ErrSQLExecution   Code = "E4001"
	ErrSQLConnection  Code = "E4002"
	ErrSQLTransaction Code = "E4003"

	// E5xxx: JS plan files.
	ErrJSExecution Code = "E5001"
	ErrJSTimeout   Code = "E5002"

	// E6xxx: configuration.
	ErrConfig Code = "E6001"

	// E7xxx: git metadata of the plans directory.
	ErrNotGitRepo   Code = "E7001"
	ErrGitOperation Code = "E7002"

	// E8xxx: local apply journal.
	ErrJournalInit  Code = "E8001"
	ErrJournalRead  Code = "E8002"
	ErrJournalWrite Code = "E8003"

	EInternalError Code = "E9001"
)

// helpsKey is the context key holding help lines.
const helpsKey = "helps"

// Error is the error type returned by every oraddl package.
type Error struct {
	code    Code
	message string
	context map[string]any
	cause   error
}

// New returns an error with code and message.
func New(code Code, msg string) *Error {
	return &Error{code: code, message: msg, context: map[string]any{}}
}

// Wrap returns an error with code and message whose cause is err.
// A nil err yields the same result as New.
func Wrap(code Code, err error, msg string) *Error {
	e := New(code, msg)
	e.cause = err
	return e
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code Code, err error, format string, args ...any) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// WrapSQL wraps a failed statement as ErrSQLExecution with message
// "failed to <action>" and the statement under "sql".
func WrapSQL(err error, action, sql string) *Error {
	e := Wrap(ErrSQLExecution, err, "failed to "+action)
	if sql != "" {
		e.WithSQL(sql)
	}
	return e
}

// Error renders the code and message, then one indented line per context
// key in sorted order, then the cause:
//
//	[E2001] operation is not supported by the dialect
//	  dialect: oracle
//	  operation: RestartSequence
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.code, e.message)

	keys := make([]string, 0, len(e.context))
	for k := range e.context {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %v", k, e.context[k])
	}

	if e.cause != nil {
		fmt.Fprintf(&b, "\n  cause: %v", e.cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error carrying the same code, so errors.Is(err,
// alerr.New(code, "")) works as a code test.
func (e *Error) Is(target error) bool {
	var other *Error
	if target == nil || !errors.As(target, &other) {
		return false
	}
	return other.code == e.code
}

func (e *Error) GetCode() Code              { return e.code }
func (e *Error) GetMessage() string         { return e.message }
func (e *Error) GetContext() map[string]any { return e.context }
func (e *Error) GetCause() error            { return e.cause }

// With sets one context value and returns e for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = map[string]any{}
	}
	e.context[key] = value
	return e
}

func (e *Error) WithTable(table string) *Error { return e.With("table", table) }
func (e *Error) WithColumn(name string) *Error { return e.With("column", name) }
func (e *Error) WithSQL(sql string) *Error     { return e.With("sql", sql) }

// WithOperation records the operation kind and, when index is not negative,
// its position in the operation list.
func (e *Error) WithOperation(kind string, index int) *Error {
	e.With("operation", kind)
	if index >= 0 {
		e.With("index", index)
	}
	return e
}

// WithFile records a plan or script location. Line 0 means unknown.
func (e *Error) WithFile(path string, line int) *Error {
	e.With("file", path)
	if line > 0 {
		e.With("line", line)
	}
	return e
}

// WithHelp appends a line shown as "help: ..." by the CLI.
func (e *Error) WithHelp(help string) *Error {
	return e.With(helpsKey, append(e.Helps(), help))
}

// Helps returns the help lines in the order they were added.
func (e *Error) Helps() []string {
	helps, _ := e.context[helpsKey].([]string)
	return helps
}

// GetErrorCode returns the code of the outermost *Error in err's chain, or
// "" when there is none.
func GetErrorCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}

// Is reports whether err's outermost *Error has code.
func Is(err error, code Code) bool {
	return err != nil && GetErrorCode(err) == code
}
