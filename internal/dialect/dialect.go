// Package dialect provides the baseline, non-idempotent DDL producer that the
// idempotent generator decorates. A producer writes fragments onto a Sink; the
// fragment boundaries and keyword tokens below form its contract with the
// rewriting sink in internal/sqlgen.
package dialect

import (
	"github.com/hlop3z/oraddl/internal/ast"
)

// Tokens the rewriting sink matches exactly. A producer must emit each of them
// as a separate fragment; changing any of them breaks the rewriter.
const (
	// Terminator ends a statement. It is always emitted alone via AppendLine.
	Terminator = ";"

	// TriggerOpener starts a row-version trigger statement.
	TriggerOpener = "CREATE OR REPLACE TRIGGER "

	// TriggerCloser is the keyword ending a trigger body, emitted without its ";".
	TriggerCloser = "END"

	// CommentOnTable and CommentOnColumn start comment statements.
	CommentOnTable  = "COMMENT ON TABLE "
	CommentOnColumn = "COMMENT ON COLUMN "

	// UnicodePrefix starts a national character literal (N'...').
	UnicodePrefix = "N'"
)

// Sink receives the fragments a producer emits.
type Sink interface {
	// Append writes a fragment to the current statement.
	Append(fragment string)

	// AppendLine writes a fragment followed by a line break.
	AppendLine(fragment string)

	// EndCommand closes the current statement.
	EndCommand()

	// Indent runs body with one more level of indentation.
	Indent(body func())
}

// Emitter produces the raw DDL for each operation kind.
//
// When terminate is true the emitter ends the statement with Terminator and
// EndCommand; when false it leaves the statement open so a caller can embed
// the text in a larger one. Statements an operation needs beyond its first
// (comments, triggers) are always terminated with Terminator.
type Emitter interface {
	// Name returns the dialect name.
	Name() string

	// -------------------------------------------------------------------------
	// Tables
	// -------------------------------------------------------------------------

	// CreateTable emits the table, its comments and row-version triggers.
	CreateTable(op *ast.CreateTable, m *ast.Model, s Sink, terminate bool) error
	DropTable(op *ast.DropTable, m *ast.Model, s Sink, terminate bool) error
	RenameTable(op *ast.RenameTable, m *ast.Model, s Sink, terminate bool) error
	// AlterTable emits a table comment statement, or nothing when unchanged.
	AlterTable(op *ast.AlterTable, m *ast.Model, s Sink, terminate bool) error

	// -------------------------------------------------------------------------
	// Columns
	// -------------------------------------------------------------------------

	AddColumn(op *ast.AddColumn, m *ast.Model, s Sink, terminate bool) error
	DropColumn(op *ast.DropColumn, m *ast.Model, s Sink, terminate bool) error
	RenameColumn(op *ast.RenameColumn, m *ast.Model, s Sink, terminate bool) error
	// AlterColumn emits a re-runnable redefinition of the column.
	AlterColumn(op *ast.AlterColumn, m *ast.Model, s Sink, terminate bool) error

	// -------------------------------------------------------------------------
	// Keys and constraints
	// -------------------------------------------------------------------------

	AddPrimaryKey(op *ast.AddPrimaryKey, m *ast.Model, s Sink, terminate bool) error
	DropPrimaryKey(op *ast.DropPrimaryKey, m *ast.Model, s Sink, terminate bool) error
	AddForeignKey(op *ast.AddForeignKey, m *ast.Model, s Sink, terminate bool) error
	DropForeignKey(op *ast.DropForeignKey, m *ast.Model, s Sink, terminate bool) error
	AddUniqueConstraint(op *ast.AddUniqueConstraint, m *ast.Model, s Sink, terminate bool) error
	DropUniqueConstraint(op *ast.DropUniqueConstraint, m *ast.Model, s Sink, terminate bool) error
	AddCheckConstraint(op *ast.AddCheckConstraint, m *ast.Model, s Sink, terminate bool) error
	DropCheckConstraint(op *ast.DropCheckConstraint, m *ast.Model, s Sink, terminate bool) error

	// -------------------------------------------------------------------------
	// Indexes
	// -------------------------------------------------------------------------

	CreateIndex(op *ast.CreateIndex, m *ast.Model, s Sink, terminate bool) error
	DropIndex(op *ast.DropIndex, m *ast.Model, s Sink, terminate bool) error
	RenameIndex(op *ast.RenameIndex, m *ast.Model, s Sink, terminate bool) error

	// -------------------------------------------------------------------------
	// Sequences
	// -------------------------------------------------------------------------

	CreateSequence(op *ast.CreateSequence, m *ast.Model, s Sink, terminate bool) error
	DropSequence(op *ast.DropSequence, m *ast.Model, s Sink, terminate bool) error
	RenameSequence(op *ast.RenameSequence, m *ast.Model, s Sink, terminate bool) error
	AlterSequence(op *ast.AlterSequence, m *ast.Model, s Sink, terminate bool) error
	// RestartSequence returns alerr.ErrUnsupportedOperation when the dialect
	// cannot restart a sequence in place.
	RestartSequence(op *ast.RestartSequence, m *ast.Model, s Sink, terminate bool) error

	// -------------------------------------------------------------------------
	// Data
	// -------------------------------------------------------------------------

	// InsertData emits an insert that skips rows already present.
	InsertData(op *ast.InsertData, m *ast.Model, s Sink, terminate bool) error

	// -------------------------------------------------------------------------
	// Row versioning
	// -------------------------------------------------------------------------

	// RowVersionTrigger emits the trigger that bumps column on every insert or
	// update of table. The statement is always terminated.
	RowVersionTrigger(table, column string, s Sink)

	// DropRowVersionTrigger drops the trigger created by RowVersionTrigger.
	DropRowVersionTrigger(table string, s Sink, terminate bool)

	// RowVersionTriggerName returns the catalog name of table's trigger.
	RowVersionTriggerName(table string) string
}
