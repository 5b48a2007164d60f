package ast

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hlop3z/oraddl/internal/alerr"
)

// Validation messages shared by the definitions below and operation.go.
const (
	msgTableNameRequired  = "table name is required"
	msgColumnNameRequired = "column name is required"
	msgNameRequired       = "object name is required"
	msgNewNameRequired    = "new name is required"
	msgTableNeedsColumn   = "table must have at least one column"
	msgNeedsColumns       = "at least one column is required"
	msgFKNeedsPrincipal   = "foreign key must reference a principal table"
	msgFKColumnCountMatch = "foreign key column count must match principal column count"
)

// validIdentifierPattern matches Oracle non-quoted identifier shapes.
// Case is free: names are normalized to upper case when the script is built.
var validIdentifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]*$`)

// MaxIdentifierLength is the Oracle 12.2+ identifier limit in bytes.
const MaxIdentifierLength = 128

// ValidateIdentifier checks that a name is a usable Oracle identifier.
func ValidateIdentifier(name string) error {
	if !validIdentifierPattern.MatchString(name) {
		return alerr.New(alerr.ErrOperationInvalid,
			fmt.Sprintf("invalid identifier %q; must match [A-Za-z][A-Za-z0-9_$#]*", name))
	}
	if len(name) > MaxIdentifierLength {
		return alerr.New(alerr.ErrOperationInvalid, "identifier is too long").
			With("name", name).
			With("max", MaxIdentifierLength)
	}
	return nil
}

func validateNames(names []string) error {
	if len(names) == 0 {
		return alerr.New(alerr.ErrOperationInvalid, msgNeedsColumns)
	}
	for _, n := range names {
		if err := ValidateIdentifier(n); err != nil {
			return err
		}
	}
	return nil
}

// ValidFKActions is the set of ON DELETE actions Oracle accepts.
var ValidFKActions = map[string]bool{
	"":          true,
	"CASCADE":   true,
	"SET NULL":  true,
	"NO ACTION": true,
}

// NormalizeFKAction upper-cases and validates an ON DELETE action.
func NormalizeFKAction(action string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(action))
	if !ValidFKActions[upper] {
		return "", alerr.New(alerr.ErrOperationInvalid,
			fmt.Sprintf("invalid foreign key action %q; must be one of: CASCADE, SET NULL, NO ACTION", action))
	}
	return upper, nil
}

// -----------------------------------------------------------------------------
// ColumnDef
// -----------------------------------------------------------------------------

// ColumnDef describes a column as the generator needs it.
type ColumnDef struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`     // Oracle store type, e.g. NUMBER(10), NVARCHAR2(200)
	Nullable     bool   `yaml:"nullable"` // default is NOT NULL
	Default      string `yaml:"default"`  // raw SQL expression
	Identity     bool   `yaml:"identity"`
	IsRowVersion bool   `yaml:"row_version"`
	Comment      string `yaml:"comment"`
}

// RowVersionType is the store type used for row-version columns without an explicit type.
const RowVersionType = "RAW(8)"

// StoreType returns the column's store type, falling back to RowVersionType
// for row-version columns.
func (c *ColumnDef) StoreType() string {
	if c.Type == "" && c.IsRowVersion {
		return RowVersionType
	}
	return c.Type
}

// Validate checks that the column definition is well-formed.
func (c *ColumnDef) Validate() error {
	if c.Name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgColumnNameRequired)
	}
	if err := ValidateIdentifier(c.Name); err != nil {
		return err
	}
	if c.StoreType() == "" {
		return alerr.New(alerr.ErrOperationInvalid, "column type is required").
			WithColumn(c.Name)
	}
	if c.Identity && c.Default != "" {
		return alerr.New(alerr.ErrOperationInvalid, "identity column cannot have a default").
			WithColumn(c.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Inline constraint definitions (used by CreateTable)
// -----------------------------------------------------------------------------

// KeyDef is a named column list: primary keys and unique constraints.
type KeyDef struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

// Validate checks that the key definition is well-formed.
func (k *KeyDef) Validate() error {
	if k.Name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgNameRequired)
	}
	return validateNames(k.Columns)
}

// ForeignKeyDef describes a foreign key constraint.
type ForeignKeyDef struct {
	Name             string   `yaml:"name"`
	Columns          []string `yaml:"columns"`
	PrincipalTable   string   `yaml:"principal_table"`
	PrincipalColumns []string `yaml:"principal_columns"`
	OnDelete         string   `yaml:"on_delete"`
}

// Validate checks that the foreign key definition is well-formed.
func (fk *ForeignKeyDef) Validate() error {
	if fk.Name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgNameRequired)
	}
	if err := validateNames(fk.Columns); err != nil {
		return err
	}
	if fk.PrincipalTable == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgFKNeedsPrincipal).
			With("constraint", fk.Name)
	}
	if err := validateNames(fk.PrincipalColumns); err != nil {
		return err
	}
	if len(fk.Columns) != len(fk.PrincipalColumns) {
		return alerr.New(alerr.ErrOperationInvalid, msgFKColumnCountMatch).
			With("columns", len(fk.Columns)).
			With("principal_columns", len(fk.PrincipalColumns))
	}
	_, err := NormalizeFKAction(fk.OnDelete)
	return err
}

// CheckDef describes a CHECK constraint.
type CheckDef struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

// Validate checks that the check constraint is well-formed.
func (c *CheckDef) Validate() error {
	if c.Name == "" {
		return alerr.New(alerr.ErrOperationInvalid, msgNameRequired)
	}
	if strings.TrimSpace(c.Expression) == "" {
		return alerr.New(alerr.ErrOperationInvalid, "check expression is required").
			With("constraint", c.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Model - optional target model forwarded to the producer
// -----------------------------------------------------------------------------

// TableDef is the model's view of a table.
type TableDef struct {
	Name       string       `yaml:"name"`
	Columns    []*ColumnDef `yaml:"columns"`
	PrimaryKey []string     `yaml:"primary_key"`
}

// GetColumn returns the column with the given name (case-insensitive), or nil.
func (t *TableDef) GetColumn(name string) *ColumnDef {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Model describes the target schema after the batch runs. The generator
// never reads it; the producer uses it to pick literal forms for seed data.
type Model struct {
	Tables []*TableDef `yaml:"tables"`
}

// Table returns the table with the given name (case-insensitive), or nil.
// A nil model has no tables.
func (m *Model) Table(name string) *TableDef {
	if m == nil {
		return nil
	}
	for _, t := range m.Tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// ColumnType returns the store type of table.column if the model knows it.
func (m *Model) ColumnType(table, column string) (string, bool) {
	t := m.Table(table)
	if t == nil {
		return "", false
	}
	c := t.GetColumn(column)
	if c == nil || c.StoreType() == "" {
		return "", false
	}
	return c.StoreType(), true
}
