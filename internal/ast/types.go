// Package ast defines the schema-change operations consumed by the script
// generator. Operations are immutable inputs: the generator reads them but
// never modifies them.
package ast

import "github.com/hlop3z/oraddl/internal/strutil"

// OpType represents the kind of a schema operation.
type OpType int

const (
	// OpCreateTable creates a new table with columns and inline constraints.
	OpCreateTable OpType = iota

	// OpDropTable removes an existing table.
	OpDropTable

	// OpRenameTable changes a table's name.
	OpRenameTable

	// OpAlterTable changes table-level attributes (the table comment).
	OpAlterTable

	// OpAddColumn adds a new column to an existing table.
	OpAddColumn

	// OpDropColumn removes a column from an existing table.
	OpDropColumn

	// OpRenameColumn changes a column's name.
	OpRenameColumn

	// OpAlterColumn modifies a column's type, nullability, default or comment.
	OpAlterColumn

	// OpAddPrimaryKey adds a PRIMARY KEY constraint.
	OpAddPrimaryKey

	// OpDropPrimaryKey removes a PRIMARY KEY constraint.
	OpDropPrimaryKey

	// OpAddForeignKey adds a foreign key constraint.
	OpAddForeignKey

	// OpDropForeignKey removes a foreign key constraint.
	OpDropForeignKey

	// OpAddUniqueConstraint adds a UNIQUE constraint.
	OpAddUniqueConstraint

	// OpDropUniqueConstraint removes a UNIQUE constraint.
	OpDropUniqueConstraint

	// OpAddCheckConstraint adds a CHECK constraint.
	OpAddCheckConstraint

	// OpDropCheckConstraint removes a CHECK constraint.
	OpDropCheckConstraint

	// OpCreateIndex creates a new index on one or more columns.
	OpCreateIndex

	// OpDropIndex removes an existing index.
	OpDropIndex

	// OpRenameIndex changes an index's name.
	OpRenameIndex

	// OpCreateSequence creates a new sequence.
	OpCreateSequence

	// OpDropSequence removes an existing sequence.
	OpDropSequence

	// OpRenameSequence changes a sequence's name.
	OpRenameSequence

	// OpAlterSequence changes a sequence's increment, bounds or cycling.
	OpAlterSequence

	// OpRestartSequence resets a sequence to a start value.
	OpRestartSequence

	// OpInsertData inserts seed rows.
	OpInsertData
)

var opNames = [...]string{
	OpCreateTable:          "CreateTable",
	OpDropTable:            "DropTable",
	OpRenameTable:          "RenameTable",
	OpAlterTable:           "AlterTable",
	OpAddColumn:            "AddColumn",
	OpDropColumn:           "DropColumn",
	OpRenameColumn:         "RenameColumn",
	OpAlterColumn:          "AlterColumn",
	OpAddPrimaryKey:        "AddPrimaryKey",
	OpDropPrimaryKey:       "DropPrimaryKey",
	OpAddForeignKey:        "AddForeignKey",
	OpDropForeignKey:       "DropForeignKey",
	OpAddUniqueConstraint:  "AddUniqueConstraint",
	OpDropUniqueConstraint: "DropUniqueConstraint",
	OpAddCheckConstraint:   "AddCheckConstraint",
	OpDropCheckConstraint:  "DropCheckConstraint",
	OpCreateIndex:          "CreateIndex",
	OpDropIndex:            "DropIndex",
	OpRenameIndex:          "RenameIndex",
	OpCreateSequence:       "CreateSequence",
	OpDropSequence:         "DropSequence",
	OpRenameSequence:       "RenameSequence",
	OpAlterSequence:        "AlterSequence",
	OpRestartSequence:      "RestartSequence",
	OpInsertData:           "InsertData",
}

// String returns the string representation of an OpType.
func (o OpType) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "Unknown"
	}
	return opNames[o]
}

// Key returns the snake_case name used for the kind in plan files
// (e.g. "add_unique_constraint").
func (o OpType) Key() string {
	return strutil.ToSnakeCase(o.String())
}

// JSName returns the camelCase name JS plan files call the kind by
// (e.g. "addUniqueConstraint").
func (o OpType) JSName() string {
	return strutil.ToCamelCase(o.Key())
}

// AllOpTypes returns every operation kind in declaration order.
func AllOpTypes() []OpType {
	out := make([]OpType, len(opNames))
	for i := range opNames {
		out[i] = OpType(i)
	}
	return out
}

// ParseOpType resolves a kind from its String(), Key() or JSName() form.
func ParseOpType(s string) (OpType, bool) {
	for _, op := range AllOpTypes() {
		if s == op.String() || s == op.Key() || s == op.JSName() {
			return op, true
		}
	}
	return 0, false
}
