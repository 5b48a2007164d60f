package ast

import (
	"testing"

	"github.com/hlop3z/oraddl/internal/alerr"
)

// -----------------------------------------------------------------------------
// OpType Tests
// -----------------------------------------------------------------------------

func TestOpTypeString(t *testing.T) {
	tests := []struct {
		op   OpType
		want string
	}{
		{OpCreateTable, "CreateTable"},
		{OpAlterTable, "AlterTable"},
		{OpAddUniqueConstraint, "AddUniqueConstraint"},
		{OpRestartSequence, "RestartSequence"},
		{OpInsertData, "InsertData"},
		{OpType(99), "Unknown"},
		{OpType(-1), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.op.String(); got != tt.want {
				t.Errorf("OpType.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpTypeKey(t *testing.T) {
	tests := []struct {
		op   OpType
		want string
	}{
		{OpCreateTable, "create_table"},
		{OpDropCheckConstraint, "drop_check_constraint"},
		{OpInsertData, "insert_data"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.op.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseOpTypeRoundTrip(t *testing.T) {
	all := AllOpTypes()
	if len(all) != 25 {
		t.Fatalf("len(AllOpTypes()) = %d, want 25", len(all))
	}
	for _, op := range all {
		byName, ok := ParseOpType(op.String())
		if !ok || byName != op {
			t.Errorf("ParseOpType(%q) = %v, %v", op.String(), byName, ok)
		}
		byKey, ok := ParseOpType(op.Key())
		if !ok || byKey != op {
			t.Errorf("ParseOpType(%q) = %v, %v", op.Key(), byKey, ok)
		}
	}
	if op, ok := ParseOpType("addUniqueConstraint"); !ok || op != OpAddUniqueConstraint {
		t.Errorf("ParseOpType(addUniqueConstraint) = %v, %v", op, ok)
	}
	if _, ok := ParseOpType("truncate_table"); ok {
		t.Error("ParseOpType should reject unknown kinds")
	}
}

func TestNewOperationCoversEveryKind(t *testing.T) {
	for _, kind := range AllOpTypes() {
		op, ok := NewOperation(kind)
		if !ok {
			t.Errorf("NewOperation(%v) not registered", kind)
			continue
		}
		if op.Type() != kind {
			t.Errorf("NewOperation(%v).Type() = %v", kind, op.Type())
		}
	}
}

// -----------------------------------------------------------------------------
// Table() Tests
// -----------------------------------------------------------------------------

func TestOperationTable(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want string
	}{
		{"create table", &CreateTable{TableOp: TableOp{Name: "orders"}}, "orders"},
		{"add column", &AddColumn{TableRef: TableRef{TableName: "orders"}}, "orders"},
		{"drop column", &DropColumn{NamedRef: NamedRef{TableRef{"orders"}, "note"}}, "orders"},
		{"foreign key", &AddForeignKey{TableRef: TableRef{"lines"}}, "lines"},
		{"sequence", &CreateSequence{SequenceOp: SequenceOp{Name: "seq"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.Table(); got != tt.want {
				t.Errorf("Table() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Validate Tests
// -----------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	minV, maxV := int64(10), int64(1)

	tests := []struct {
		name    string
		op      Operation
		wantErr bool
	}{
		{
			name: "valid create table",
			op: &CreateTable{
				TableOp:    TableOp{Name: "orders"},
				Columns:    []*ColumnDef{{Name: "id", Type: "NUMBER(10)"}, {Name: "ver", IsRowVersion: true}},
				PrimaryKey: &KeyDef{Name: "pk_orders", Columns: []string{"id"}},
			},
		},
		{
			name:    "create table without columns",
			op:      &CreateTable{TableOp: TableOp{Name: "orders"}},
			wantErr: true,
		},
		{
			name:    "create table with untyped column",
			op:      &CreateTable{TableOp: TableOp{Name: "orders"}, Columns: []*ColumnDef{{Name: "id"}}},
			wantErr: true,
		},
		{
			name:    "invalid identifier",
			op:      &DropTable{TableOp: TableOp{Name: "1orders"}},
			wantErr: true,
		},
		{
			name:    "rename without new name",
			op:      &RenameTable{TableOp: TableOp{Name: "orders"}},
			wantErr: true,
		},
		{
			name: "identity with default",
			op: &AddColumn{
				TableRef: TableRef{"orders"},
				Column:   ColumnDef{Name: "id", Type: "NUMBER", Identity: true, Default: "1"},
			},
			wantErr: true,
		},
		{
			name: "foreign key column mismatch",
			op: &AddForeignKey{
				TableRef: TableRef{"lines"},
				ForeignKeyDef: ForeignKeyDef{
					Name: "fk", Columns: []string{"a", "b"},
					PrincipalTable: "orders", PrincipalColumns: []string{"id"},
				},
			},
			wantErr: true,
		},
		{
			name: "foreign key bad action",
			op: &AddForeignKey{
				TableRef: TableRef{"lines"},
				ForeignKeyDef: ForeignKeyDef{
					Name: "fk", Columns: []string{"order_id"},
					PrincipalTable: "orders", PrincipalColumns: []string{"id"},
					OnDelete: "SET DEFAULT",
				},
			},
			wantErr: true,
		},
		{
			name:    "check without expression",
			op:      &AddCheckConstraint{TableRef: TableRef{"orders"}, CheckDef: CheckDef{Name: "ck"}},
			wantErr: true,
		},
		{
			name: "drop index without table",
			op:   &DropIndex{NamedRef: NamedRef{Name: "ix_orders"}},
		},
		{
			name: "sequence bounds inverted",
			op: &CreateSequence{
				SequenceOp:      SequenceOp{Name: "seq"},
				SequenceOptions: SequenceOptions{MinValue: &minV, MaxValue: &maxV},
			},
			wantErr: true,
		},
		{
			name: "insert row width mismatch",
			op: &InsertData{
				TableRef: TableRef{"orders"},
				Columns:  []string{"id", "name"},
				Values:   [][]any{{1}},
			},
			wantErr: true,
		},
		{
			name: "insert unknown key column",
			op: &InsertData{
				TableRef:   TableRef{"orders"},
				Columns:    []string{"id"},
				Values:     [][]any{{1}},
				KeyColumns: []string{"code"},
			},
			wantErr: true,
		},
		{
			name: "insert key column matched case-insensitively",
			op: &InsertData{
				TableRef:   TableRef{"orders"},
				Columns:    []string{"ID"},
				Values:     [][]any{{1}},
				KeyColumns: []string{"id"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !alerr.Is(err, alerr.ErrOperationInvalid) {
				t.Errorf("error code = %v, want %v", alerr.GetErrorCode(err), alerr.ErrOperationInvalid)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Defaults and Model Tests
// -----------------------------------------------------------------------------

func TestSequenceDefaults(t *testing.T) {
	op := &CreateSequence{SequenceOp: SequenceOp{Name: "seq"}}
	if op.Start() != 1 {
		t.Errorf("Start() = %d, want 1", op.Start())
	}
	if op.Increment() != 1 {
		t.Errorf("Increment() = %d, want 1", op.Increment())
	}
}

func TestColumnStoreType(t *testing.T) {
	rv := &ColumnDef{Name: "ver", IsRowVersion: true}
	if rv.StoreType() != RowVersionType {
		t.Errorf("StoreType() = %q, want %q", rv.StoreType(), RowVersionType)
	}
	typed := &ColumnDef{Name: "ver", Type: "RAW(16)", IsRowVersion: true}
	if typed.StoreType() != "RAW(16)" {
		t.Errorf("StoreType() = %q, want RAW(16)", typed.StoreType())
	}
}

func TestModelLookup(t *testing.T) {
	m := &Model{Tables: []*TableDef{{
		Name:    "ORDERS",
		Columns: []*ColumnDef{{Name: "TITLE", Type: "NVARCHAR2(100)"}},
	}}}

	if typ, ok := m.ColumnType("orders", "title"); !ok || typ != "NVARCHAR2(100)" {
		t.Errorf("ColumnType() = %q, %v", typ, ok)
	}
	if _, ok := m.ColumnType("orders", "missing"); ok {
		t.Error("ColumnType() should miss unknown columns")
	}

	var nilModel *Model
	if nilModel.Table("orders") != nil {
		t.Error("nil model should have no tables")
	}
}

func TestCreateTableRowVersionColumns(t *testing.T) {
	op := &CreateTable{Columns: []*ColumnDef{
		{Name: "id", Type: "NUMBER"},
		{Name: "ver", IsRowVersion: true},
	}}
	cols := op.RowVersionColumns()
	if len(cols) != 1 || cols[0].Name != "ver" {
		t.Errorf("RowVersionColumns() = %v", cols)
	}
}
