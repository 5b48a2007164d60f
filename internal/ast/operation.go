package ast

import (
	"strings"

	"github.com/hlop3z/oraddl/internal/alerr"
)

// Operation represents a single schema change in a batch.
type Operation interface {
	// Type returns the operation kind.
	Type() OpType

	// Table returns the owning table name, or "" for sequence operations.
	Table() string

	// Validate checks that the operation carries the attributes its kind needs.
	// The generator itself does not call it; plan loaders do.
	Validate() error
}

// -----------------------------------------------------------------------------
// Embedded types for operation definitions
// -----------------------------------------------------------------------------

// TableOp provides the Name field for table-level operations.
type TableOp struct {
	Name string `yaml:"name"`
}

// Table returns the table name.
func (t TableOp) Table() string { return t.Name }

func (t TableOp) validate() error {
	if t.Name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgTableNameRequired)
	}
	return ValidateIdentifier(t.Name)
}

// TableRef provides the owning table for column, key and index operations.
type TableRef struct {
	TableName string `yaml:"table"`
}

// Table returns the owning table name.
func (t TableRef) Table() string { return t.TableName }

func (t TableRef) validate() error {
	if t.TableName == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgTableNameRequired)
	}
	return ValidateIdentifier(t.TableName)
}

// NamedRef names an object owned by a table (constraint, index, column).
type NamedRef struct {
	TableRef `yaml:",inline"`
	Name     string `yaml:"name"`
}

func (n NamedRef) validate() error {
	if err := n.TableRef.validate(); err != nil {
		return err
	}
	if n.Name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgNameRequired).WithTable(n.TableName)
	}
	return ValidateIdentifier(n.Name)
}

func validateNewName(name string) error {
	if name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgNewNameRequired)
	}
	return ValidateIdentifier(name)
}

// -----------------------------------------------------------------------------
// Tables
// -----------------------------------------------------------------------------

// CreateTable creates a table with its columns and inline constraints.
type CreateTable struct {
	TableOp           `yaml:",inline"`
	Columns           []*ColumnDef     `yaml:"columns"`
	PrimaryKey        *KeyDef          `yaml:"primary_key"`
	UniqueConstraints []*KeyDef        `yaml:"unique_constraints"`
	ForeignKeys       []*ForeignKeyDef `yaml:"foreign_keys"`
	CheckConstraints  []*CheckDef      `yaml:"check_constraints"`
	Comment           string           `yaml:"comment"`
}

func (op *CreateTable) Type() OpType { return OpCreateTable }

func (op *CreateTable) Validate() error {
	if err := op.TableOp.validate(); err != nil {
		return err
	}
	if len(op.Columns) == 0 {
		return alerr.New(alerr.ErrOperationInvalid, msgTableNeedsColumn).WithTable(op.Name)
	}
	for _, col := range op.Columns {
		if err := col.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrOperationInvalid, err, "invalid column").
				WithTable(op.Name).
				WithColumn(col.Name)
		}
	}
	if op.PrimaryKey != nil {
		if err := op.PrimaryKey.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrOperationInvalid, err, "invalid primary key").WithTable(op.Name)
		}
	}
	for _, uq := range op.UniqueConstraints {
		if err := uq.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrOperationInvalid, err, "invalid unique constraint").WithTable(op.Name)
		}
	}
	for _, fk := range op.ForeignKeys {
		if err := fk.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrOperationInvalid, err, "invalid foreign key").WithTable(op.Name)
		}
	}
	for _, ck := range op.CheckConstraints {
		if err := ck.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrOperationInvalid, err, "invalid check constraint").WithTable(op.Name)
		}
	}
	return nil
}

// RowVersionColumns returns the columns flagged as row-version columns.
func (op *CreateTable) RowVersionColumns() []*ColumnDef {
	var out []*ColumnDef
	for _, c := range op.Columns {
		if c.IsRowVersion {
			out = append(out, c)
		}
	}
	return out
}

// DropTable removes a table.
type DropTable struct {
	TableOp `yaml:",inline"`
}

func (op *DropTable) Type() OpType    { return OpDropTable }
func (op *DropTable) Validate() error { return op.TableOp.validate() }

// RenameTable renames a table.
type RenameTable struct {
	TableOp `yaml:",inline"`
	NewName string `yaml:"new_name"`
}

func (op *RenameTable) Type() OpType { return OpRenameTable }

func (op *RenameTable) Validate() error {
	if err := op.TableOp.validate(); err != nil {
		return err
	}
	return validateNewName(op.NewName)
}

// AlterTable changes the table comment. OldComment is informational; the
// producer skips the statement when both comments are equal.
type AlterTable struct {
	TableOp    `yaml:",inline"`
	Comment    string `yaml:"comment"`
	OldComment string `yaml:"old_comment"`
}

func (op *AlterTable) Type() OpType    { return OpAlterTable }
func (op *AlterTable) Validate() error { return op.TableOp.validate() }

// -----------------------------------------------------------------------------
// Columns
// -----------------------------------------------------------------------------

// AddColumn adds a column to an existing table.
type AddColumn struct {
	TableRef `yaml:",inline"`
	Column   ColumnDef `yaml:"column"`
}

func (op *AddColumn) Type() OpType { return OpAddColumn }

func (op *AddColumn) Validate() error {
	if err := op.TableRef.validate(); err != nil {
		return err
	}
	if err := op.Column.Validate(); err != nil {
		return alerr.Wrap(alerr.ErrOperationInvalid, err, "invalid column").WithTable(op.TableName)
	}
	return nil
}

// DropColumn removes a column. IsRowVersion also drops the table's
// row-version trigger.
type DropColumn struct {
	NamedRef     `yaml:",inline"`
	IsRowVersion bool `yaml:"row_version"`
}

func (op *DropColumn) Type() OpType    { return OpDropColumn }
func (op *DropColumn) Validate() error { return op.NamedRef.validate() }

// RenameColumn renames a column.
type RenameColumn struct {
	NamedRef `yaml:",inline"`
	NewName  string `yaml:"new_name"`
}

func (op *RenameColumn) Type() OpType { return OpRenameColumn }

func (op *RenameColumn) Validate() error {
	if err := op.NamedRef.validate(); err != nil {
		return err
	}
	return validateNewName(op.NewName)
}

// AlterColumn redefines a column. Old, when known, is the previous definition.
type AlterColumn struct {
	TableRef `yaml:",inline"`
	Column   ColumnDef  `yaml:"column"`
	Old      *ColumnDef `yaml:"old"`
}

func (op *AlterColumn) Type() OpType { return OpAlterColumn }

func (op *AlterColumn) Validate() error {
	if err := op.TableRef.validate(); err != nil {
		return err
	}
	if err := op.Column.Validate(); err != nil {
		return alerr.Wrap(alerr.ErrOperationInvalid, err, "invalid column").WithTable(op.TableName)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Keys and constraints
// -----------------------------------------------------------------------------

// AddPrimaryKey adds a primary key constraint.
type AddPrimaryKey struct {
	NamedRef `yaml:",inline"`
	Columns  []string `yaml:"columns"`
}

func (op *AddPrimaryKey) Type() OpType { return OpAddPrimaryKey }

func (op *AddPrimaryKey) Validate() error {
	if err := op.NamedRef.validate(); err != nil {
		return err
	}
	return validateNames(op.Columns)
}

// DropPrimaryKey removes a primary key constraint.
type DropPrimaryKey struct {
	NamedRef `yaml:",inline"`
}

func (op *DropPrimaryKey) Type() OpType    { return OpDropPrimaryKey }
func (op *DropPrimaryKey) Validate() error { return op.NamedRef.validate() }

// AddForeignKey adds a foreign key constraint.
type AddForeignKey struct {
	TableRef      `yaml:",inline"`
	ForeignKeyDef `yaml:",inline"`
}

func (op *AddForeignKey) Type() OpType { return OpAddForeignKey }

func (op *AddForeignKey) Validate() error {
	if err := op.TableRef.validate(); err != nil {
		return err
	}
	return op.ForeignKeyDef.Validate()
}

// DropForeignKey removes a foreign key constraint.
type DropForeignKey struct {
	NamedRef `yaml:",inline"`
}

func (op *DropForeignKey) Type() OpType    { return OpDropForeignKey }
func (op *DropForeignKey) Validate() error { return op.NamedRef.validate() }

// AddUniqueConstraint adds a unique constraint.
type AddUniqueConstraint struct {
	NamedRef `yaml:",inline"`
	Columns  []string `yaml:"columns"`
}

func (op *AddUniqueConstraint) Type() OpType { return OpAddUniqueConstraint }

func (op *AddUniqueConstraint) Validate() error {
	if err := op.NamedRef.validate(); err != nil {
		return err
	}
	return validateNames(op.Columns)
}

// DropUniqueConstraint removes a unique constraint.
type DropUniqueConstraint struct {
	NamedRef `yaml:",inline"`
}

func (op *DropUniqueConstraint) Type() OpType    { return OpDropUniqueConstraint }
func (op *DropUniqueConstraint) Validate() error { return op.NamedRef.validate() }

// AddCheckConstraint adds a check constraint.
type AddCheckConstraint struct {
	TableRef `yaml:",inline"`
	CheckDef `yaml:",inline"`
}

func (op *AddCheckConstraint) Type() OpType { return OpAddCheckConstraint }

func (op *AddCheckConstraint) Validate() error {
	if err := op.TableRef.validate(); err != nil {
		return err
	}
	return op.CheckDef.Validate()
}

// DropCheckConstraint removes a check constraint.
type DropCheckConstraint struct {
	NamedRef `yaml:",inline"`
}

func (op *DropCheckConstraint) Type() OpType    { return OpDropCheckConstraint }
func (op *DropCheckConstraint) Validate() error { return op.NamedRef.validate() }

// -----------------------------------------------------------------------------
// Indexes
// -----------------------------------------------------------------------------

// CreateIndex creates an index.
type CreateIndex struct {
	NamedRef `yaml:",inline"`
	Columns  []string `yaml:"columns"`
	Unique   bool     `yaml:"unique"`
}

func (op *CreateIndex) Type() OpType { return OpCreateIndex }

func (op *CreateIndex) Validate() error {
	if err := op.NamedRef.validate(); err != nil {
		return err
	}
	return validateNames(op.Columns)
}

// DropIndex removes an index. The table is informational: Oracle index
// names are unique per schema.
type DropIndex struct {
	NamedRef `yaml:",inline"`
}

func (op *DropIndex) Type() OpType { return OpDropIndex }

func (op *DropIndex) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgNameRequired)
	}
	return ValidateIdentifier(op.Name)
}

// RenameIndex renames an index.
type RenameIndex struct {
	NamedRef `yaml:",inline"`
	NewName  string `yaml:"new_name"`
}

func (op *RenameIndex) Type() OpType { return OpRenameIndex }

func (op *RenameIndex) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgNameRequired)
	}
	if err := ValidateIdentifier(op.Name); err != nil {
		return err
	}
	return validateNewName(op.NewName)
}

// -----------------------------------------------------------------------------
// Sequences
// -----------------------------------------------------------------------------

// SequenceOp provides the Name field for sequence operations.
type SequenceOp struct {
	Name string `yaml:"name"`
}

// Table returns "": sequences are schema objects, not table objects.
func (SequenceOp) Table() string { return "" }

func (s SequenceOp) validate() error {
	if s.Name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgNameRequired)
	}
	return ValidateIdentifier(s.Name)
}

// SequenceOptions are the tunables shared by create and alter.
type SequenceOptions struct {
	IncrementBy int64  `yaml:"increment_by"` // 0 means 1
	MinValue    *int64 `yaml:"min_value"`
	MaxValue    *int64 `yaml:"max_value"`
	Cycle       bool   `yaml:"cycle"`
}

// Increment returns the effective increment.
func (o SequenceOptions) Increment() int64 {
	if o.IncrementBy == 0 {
		return 1
	}
	return o.IncrementBy
}

func (o SequenceOptions) validate() error {
	if o.MinValue != nil && o.MaxValue != nil && *o.MinValue > *o.MaxValue {
		return alerr.New(alerr.ErrOperationInvalid, "min_value cannot be greater than max_value").
			With("min_value", *o.MinValue).
			With("max_value", *o.MaxValue)
	}
	return nil
}

// CreateSequence creates a sequence.
type CreateSequence struct {
	SequenceOp      `yaml:",inline"`
	StartValue      int64 `yaml:"start_value"` // 0 means 1
	SequenceOptions `yaml:",inline"`
}

func (op *CreateSequence) Type() OpType { return OpCreateSequence }

func (op *CreateSequence) Validate() error {
	if err := op.SequenceOp.validate(); err != nil {
		return err
	}
	return op.SequenceOptions.validate()
}

// Start returns the effective start value.
func (op *CreateSequence) Start() int64 {
	if op.StartValue == 0 {
		return 1
	}
	return op.StartValue
}

// DropSequence removes a sequence.
type DropSequence struct {
	SequenceOp `yaml:",inline"`
}

func (op *DropSequence) Type() OpType    { return OpDropSequence }
func (op *DropSequence) Validate() error { return op.SequenceOp.validate() }

// RenameSequence renames a sequence.
type RenameSequence struct {
	SequenceOp `yaml:",inline"`
	NewName    string `yaml:"new_name"`
}

func (op *RenameSequence) Type() OpType { return OpRenameSequence }

func (op *RenameSequence) Validate() error {
	if err := op.SequenceOp.validate(); err != nil {
		return err
	}
	return validateNewName(op.NewName)
}

// AlterSequence changes a sequence's options.
type AlterSequence struct {
	SequenceOp      `yaml:",inline"`
	SequenceOptions `yaml:",inline"`
}

func (op *AlterSequence) Type() OpType { return OpAlterSequence }

func (op *AlterSequence) Validate() error {
	if err := op.SequenceOp.validate(); err != nil {
		return err
	}
	return op.SequenceOptions.validate()
}

// RestartSequence resets a sequence to StartValue.
type RestartSequence struct {
	SequenceOp `yaml:",inline"`
	StartValue int64 `yaml:"start_value"`
}

func (op *RestartSequence) Type() OpType    { return OpRestartSequence }
func (op *RestartSequence) Validate() error { return op.SequenceOp.validate() }

// -----------------------------------------------------------------------------
// Data
// -----------------------------------------------------------------------------

// InsertData inserts seed rows. KeyColumns identify a row for the duplicate
// check; when empty the producer falls back to the model's primary key, then
// to all columns.
type InsertData struct {
	TableRef   `yaml:",inline"`
	Columns    []string `yaml:"columns"`
	Values     [][]any  `yaml:"values"`
	KeyColumns []string `yaml:"key_columns"`
}

func (op *InsertData) Type() OpType { return OpInsertData }

func (op *InsertData) Validate() error {
	if err := op.TableRef.validate(); err != nil {
		return err
	}
	if err := validateNames(op.Columns); err != nil {
		return err
	}
	if len(op.Values) == 0 {
		return alerr.New(alerr.ErrOperationInvalid, "at least one row is required").WithTable(op.TableName)
	}
	if err := op.CheckRowWidths(); err != nil {
		return err
	}
	for _, k := range op.KeyColumns {
		if !containsFold(op.Columns, k) {
			return alerr.New(alerr.ErrOperationInvalid, "key column is not among the inserted columns").
				WithTable(op.TableName).
				WithColumn(k)
		}
	}
	return nil
}

// CheckRowWidths fails when a row does not hold exactly one value per column.
func (op *InsertData) CheckRowWidths() error {
	for i, row := range op.Values {
		if len(row) != len(op.Columns) {
			return alerr.New(alerr.ErrOperationInvalid, "row width does not match column count").
				WithTable(op.TableName).
				With("row", i).
				With("got", len(row)).
				With("want", len(op.Columns))
		}
	}
	return nil
}

// NewOperation returns a zero-valued operation of the given kind, ready to be
// decoded into.
func NewOperation(kind OpType) (Operation, bool) {
	switch kind {
	case OpCreateTable:
		return &CreateTable{}, true
	case OpDropTable:
		return &DropTable{}, true
	case OpRenameTable:
		return &RenameTable{}, true
	case OpAlterTable:
		return &AlterTable{}, true
	case OpAddColumn:
		return &AddColumn{}, true
	case OpDropColumn:
		return &DropColumn{}, true
	case OpRenameColumn:
		return &RenameColumn{}, true
	case OpAlterColumn:
		return &AlterColumn{}, true
	case OpAddPrimaryKey:
		return &AddPrimaryKey{}, true
	case OpDropPrimaryKey:
		return &DropPrimaryKey{}, true
	case OpAddForeignKey:
		return &AddForeignKey{}, true
	case OpDropForeignKey:
		return &DropForeignKey{}, true
	case OpAddUniqueConstraint:
		return &AddUniqueConstraint{}, true
	case OpDropUniqueConstraint:
		return &DropUniqueConstraint{}, true
	case OpAddCheckConstraint:
		return &AddCheckConstraint{}, true
	case OpDropCheckConstraint:
		return &DropCheckConstraint{}, true
	case OpCreateIndex:
		return &CreateIndex{}, true
	case OpDropIndex:
		return &DropIndex{}, true
	case OpRenameIndex:
		return &RenameIndex{}, true
	case OpCreateSequence:
		return &CreateSequence{}, true
	case OpDropSequence:
		return &DropSequence{}, true
	case OpRenameSequence:
		return &RenameSequence{}, true
	case OpAlterSequence:
		return &AlterSequence{}, true
	case OpRestartSequence:
		return &RestartSequence{}, true
	case OpInsertData:
		return &InsertData{}, true
	}
	return nil, false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
