package idempotent

import (
	"errors"
	"strings"
	"testing"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/ast"
)

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func generate(t *testing.T, opts Options, ops ...ast.Operation) *Result {
	t.Helper()
	res, err := NewOracle(opts).Generate(ops, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return res
}

func only(t *testing.T, ops ...ast.Operation) string {
	t.Helper()
	res := generate(t, Options{Strict: true}, ops...)
	if len(res.Commands) != 1 {
		t.Fatalf("Generate() returned %d commands, want 1:\n%s", len(res.Commands), strings.Join(res.Texts(), "\n---\n"))
	}
	return res.Commands[0].Text
}

func int64p(v int64) *int64 { return &v }

// -----------------------------------------------------------------------------
// Exact scripts
// -----------------------------------------------------------------------------

func TestGenerateCreateTable(t *testing.T) {
	got := only(t, &ast.CreateTable{
		TableOp: ast.TableOp{Name: "t"},
		Columns: []*ast.ColumnDef{{Name: "c1", Type: "NUMBER(10)", Nullable: true}},
	})

	want := lines(
		`DECLARE`,
		`    i NUMBER;`,
		`BEGIN`,
		`    -- Creating table T`,
		`    SELECT COUNT(*) INTO i FROM user_objects`,
		`    WHERE object_name = 'T';`,
		`    IF I = 0 THEN`,
		`        BEGIN`,
		`            EXECUTE IMMEDIATE 'CREATE TABLE "T" (`,
		`    "C1" NUMBER(10)`,
		`)';`,
		`        END;`,
		`    END IF;`,
		`END;`,
	)
	if got != want {
		t.Errorf("script =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateDropTable(t *testing.T) {
	got := only(t, &ast.DropTable{TableOp: ast.TableOp{Name: "t"}})

	want := lines(
		`DECLARE`,
		`    i NUMBER;`,
		`BEGIN`,
		`    -- Deleting table T`,
		`    SELECT COUNT(*) INTO i FROM user_objects`,
		`    WHERE object_name = 'T';`,
		`    IF I = 1 THEN`,
		`        EXECUTE IMMEDIATE 'DROP TABLE "T"';`,
		`    END IF;`,
		`END;`,
	)
	if got != want {
		t.Errorf("script =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateAddRowVersionColumn(t *testing.T) {
	got := only(t, &ast.AddColumn{
		TableRef: ast.TableRef{TableName: "t"},
		Column:   ast.ColumnDef{Name: "rv", IsRowVersion: true},
	})

	want := lines(
		`DECLARE`,
		`    i NUMBER;`,
		`BEGIN`,
		`    -- Creating column T.RV`,
		`    SELECT COUNT(*) INTO i FROM user_tab_columns`,
		`    WHERE table_name = 'T'`,
		`    AND column_name = 'RV';`,
		`    IF I = 0 THEN`,
		`        EXECUTE IMMEDIATE 'ALTER TABLE "T" ADD "RV" RAW(8) DEFAULT ''0000000000000000'' NOT NULL';`,
		`        EXECUTE IMMEDIATE 'CREATE OR REPLACE TRIGGER "ROWVERSION_T"`,
		`        BEFORE INSERT OR UPDATE ON "T"`,
		`        FOR EACH ROW`,
		`        BEGIN`,
		`            :NEW."RV" := UTL_RAW.CAST_FROM_BINARY_INTEGER(UTL_RAW.CAST_TO_BINARY_INTEGER(NVL(:OLD."RV", ''00000000'')) + 1); END;';`,
		`    END IF;`,
		`END;`,
	)
	if got != want {
		t.Errorf("script =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateDropRowVersionColumn(t *testing.T) {
	got := only(t, &ast.DropColumn{
		NamedRef:     ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "rv"},
		IsRowVersion: true,
	})

	want := lines(
		`BEGIN`,
		`    DECLARE`,
		`        i NUMBER;`,
		`    BEGIN`,
		`        -- Deleting column T.RV`,
		`        SELECT COUNT(*) INTO i FROM user_tab_columns`,
		`        WHERE table_name = 'T'`,
		`        AND column_name = 'RV';`,
		`        IF I = 1 THEN`,
		`            EXECUTE IMMEDIATE 'ALTER TABLE "T" DROP COLUMN "RV"';`,
		`        END IF;`,
		`    END;`,
		`    DECLARE`,
		`        i NUMBER;`,
		`    BEGIN`,
		`        -- Deleting trigger ROWVERSION_T`,
		`        SELECT COUNT(*) INTO i FROM user_triggers`,
		`        WHERE trigger_name = 'ROWVERSION_T'`,
		`        AND table_name = 'T';`,
		`        IF I = 1 THEN`,
		`            EXECUTE IMMEDIATE 'DROP TRIGGER "ROWVERSION_T"';`,
		`        END IF;`,
		`    END;`,
		`END;`,
	)
	if got != want {
		t.Errorf("script =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateDropPlainColumnLeavesTrigger(t *testing.T) {
	got := only(t, &ast.DropColumn{
		NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "c2"},
	})
	if strings.Contains(got, "TRIGGER") {
		t.Errorf("dropping a plain column touches the trigger:\n%s", got)
	}
	if !strings.HasPrefix(got, "DECLARE") {
		t.Errorf("script should be a single wrapped block:\n%s", got)
	}
}

func TestGenerateAlterTableComment(t *testing.T) {
	got := only(t, &ast.AlterTable{TableOp: ast.TableOp{Name: "t"}, Comment: "orders"})

	want := lines(
		`BEGIN`,
		`    EXECUTE IMMEDIATE 'COMMENT ON TABLE "T" IS ''orders''';`,
		`END;`,
	)
	if got != want {
		t.Errorf("script =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateAlterTableUnchanged(t *testing.T) {
	got := only(t, &ast.AlterTable{TableOp: ast.TableOp{Name: "t"}, Comment: "x", OldComment: "x"})

	want := lines(`BEGIN`, `    NULL;`, `END;`)
	if got != want {
		t.Errorf("script =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateAlterSequence(t *testing.T) {
	got := only(t, &ast.AlterSequence{
		SequenceOp:      ast.SequenceOp{Name: "s"},
		SequenceOptions: ast.SequenceOptions{IncrementBy: 2},
	})

	want := lines(
		`BEGIN`,
		`    EXECUTE IMMEDIATE 'ALTER SEQUENCE "S" INCREMENT BY 2 NOMINVALUE NOMAXVALUE NOCYCLE';`,
		`END;`,
	)
	if got != want {
		t.Errorf("script =\n%s\nwant\n%s", got, want)
	}
}

// -----------------------------------------------------------------------------
// Guards per kind
// -----------------------------------------------------------------------------

func TestGenerateGuards(t *testing.T) {
	tests := []struct {
		name string
		op   ast.Operation
		want []string
	}{
		{
			name: "rename table",
			op:   &ast.RenameTable{TableOp: ast.TableOp{Name: "t"}, NewName: "t2"},
			want: []string{"-- Renaming table T -> T2", "FROM user_objects", "IF I = 1 THEN",
				`EXECUTE IMMEDIATE 'ALTER TABLE "T" RENAME TO "T2"';`},
		},
		{
			name: "add column",
			op: &ast.AddColumn{TableRef: ast.TableRef{TableName: "t"},
				Column: ast.ColumnDef{Name: "c", Type: "NVARCHAR2(20)", Default: "'x'", Nullable: true}},
			want: []string{"FROM user_tab_columns", "AND column_name = 'C';", "IF I = 0 THEN",
				`EXECUTE IMMEDIATE 'ALTER TABLE "T" ADD "C" NVARCHAR2(20) DEFAULT ''x''';`},
		},
		{
			name: "rename column",
			op: &ast.RenameColumn{NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "a"},
				NewName: "b"},
			want: []string{"FROM user_tab_columns", "IF I = 1 THEN",
				`EXECUTE IMMEDIATE 'ALTER TABLE "T" RENAME COLUMN "A" TO "B"';`},
		},
		{
			name: "add primary key",
			op: &ast.AddPrimaryKey{NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "pk_t"},
				Columns: []string{"id"}},
			want: []string{"WHERE constraint_name = 'PK_T' AND constraint_type = 'P';", "IF I = 0 THEN",
				`EXECUTE IMMEDIATE 'ALTER TABLE "T" ADD CONSTRAINT "PK_T" PRIMARY KEY ("ID")';`},
		},
		{
			name: "drop primary key",
			op:   &ast.DropPrimaryKey{NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "pk_t"}},
			want: []string{"constraint_type = 'P';", "IF I = 1 THEN",
				`EXECUTE IMMEDIATE 'ALTER TABLE "T" DROP CONSTRAINT "PK_T"';`},
		},
		{
			name: "add foreign key",
			op: &ast.AddForeignKey{TableRef: ast.TableRef{TableName: "orders"}, ForeignKeyDef: ast.ForeignKeyDef{
				Name: "fk_orders_users", Columns: []string{"user_id"},
				PrincipalTable: "users", PrincipalColumns: []string{"id"}, OnDelete: "cascade"}},
			want: []string{"WHERE constraint_name = 'FK_ORDERS_USERS' AND constraint_type = 'R';", "IF I = 0 THEN",
				`FOREIGN KEY ("USER_ID") REFERENCES "USERS" ("ID") ON DELETE CASCADE';`},
		},
		{
			name: "drop foreign key",
			op:   &ast.DropForeignKey{NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "fk"}},
			want: []string{"constraint_type = 'R';", "IF I = 1 THEN"},
		},
		{
			name: "add unique constraint",
			op: &ast.AddUniqueConstraint{NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "uq"},
				Columns: []string{"a", "b"}},
			want: []string{"constraint_type = 'U';", "IF I = 0 THEN", `UNIQUE ("A", "B")';`},
		},
		{
			name: "drop unique constraint",
			op:   &ast.DropUniqueConstraint{NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "uq"}},
			want: []string{"constraint_type = 'U';", "IF I = 1 THEN"},
		},
		{
			name: "add check constraint",
			op: &ast.AddCheckConstraint{TableRef: ast.TableRef{TableName: "t"},
				CheckDef: ast.CheckDef{Name: "ck", Expression: "status IN ('a', 'b')"}},
			want: []string{"constraint_type = 'C';", "IF I = 0 THEN", `CHECK (status IN (''a'', ''b''))';`},
		},
		{
			name: "drop check constraint",
			op:   &ast.DropCheckConstraint{NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "ck"}},
			want: []string{"constraint_type = 'C';", "IF I = 1 THEN"},
		},
		{
			name: "create index",
			op: &ast.CreateIndex{NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "t"}, Name: "ix"},
				Columns: []string{"a"}, Unique: true},
			want: []string{"FROM user_indexes", "WHERE index_name = 'IX';", "IF I = 0 THEN",
				`EXECUTE IMMEDIATE 'CREATE UNIQUE INDEX "IX" ON "T" ("A")';`},
		},
		{
			name: "drop index",
			op:   &ast.DropIndex{NamedRef: ast.NamedRef{Name: "ix"}},
			want: []string{"FROM user_indexes", "IF I = 1 THEN", `EXECUTE IMMEDIATE 'DROP INDEX "IX"';`},
		},
		{
			name: "rename index",
			op:   &ast.RenameIndex{NamedRef: ast.NamedRef{Name: "ix"}, NewName: "ix2"},
			want: []string{"-- Renaming index IX -> IX2", "IF I = 1 THEN",
				`EXECUTE IMMEDIATE 'ALTER INDEX "IX" RENAME TO "IX2"';`},
		},
		{
			name: "create sequence",
			op: &ast.CreateSequence{SequenceOp: ast.SequenceOp{Name: "s"}, StartValue: 10,
				SequenceOptions: ast.SequenceOptions{MinValue: int64p(1), MaxValue: int64p(100), Cycle: true}},
			want: []string{"FROM user_sequences", "WHERE sequence_name = 'S';", "IF I = 0 THEN",
				`EXECUTE IMMEDIATE 'CREATE SEQUENCE "S" START WITH 10 INCREMENT BY 1 MINVALUE 1 MAXVALUE 100 CYCLE';`},
		},
		{
			name: "drop sequence",
			op:   &ast.DropSequence{SequenceOp: ast.SequenceOp{Name: "s"}},
			want: []string{"FROM user_sequences", "IF I = 1 THEN", `EXECUTE IMMEDIATE 'DROP SEQUENCE "S"';`},
		},
		{
			name: "rename sequence",
			op:   &ast.RenameSequence{SequenceOp: ast.SequenceOp{Name: "s"}, NewName: "s2"},
			want: []string{"FROM user_sequences", "IF I = 1 THEN", `EXECUTE IMMEDIATE 'RENAME "S" TO "S2"';`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := only(t, tt.op)
			if !strings.HasPrefix(got, "DECLARE\n    i NUMBER;\nBEGIN\n") {
				t.Errorf("script is not wrapped:\n%s", got)
			}
			if !strings.HasSuffix(got, "    END IF;\nEND;") {
				t.Errorf("script does not close the guard:\n%s", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("script missing %q:\n%s", w, got)
				}
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Comments and nested quoting
// -----------------------------------------------------------------------------

func TestGenerateCreateTableCommentsAndTrigger(t *testing.T) {
	got := only(t, &ast.CreateTable{
		TableOp: ast.TableOp{Name: "orders"},
		Columns: []*ast.ColumnDef{
			{Name: "id", Type: "NUMBER(10)", Identity: true, Comment: "surrogate key"},
			{Name: "version", IsRowVersion: true},
		},
		PrimaryKey: &ast.KeyDef{Name: "pk_orders", Columns: []string{"id"}},
		Comment:    "customer's orders",
	})

	for _, w := range []string{
		`"ID" NUMBER(10) GENERATED BY DEFAULT ON NULL AS IDENTITY NOT NULL`,
		`"VERSION" RAW(8) DEFAULT ''0000000000000000'' NOT NULL`,
		`CONSTRAINT "PK_ORDERS" PRIMARY KEY ("ID")`,
		`EXECUTE IMMEDIATE 'COMMENT ON TABLE "ORDERS" IS ''customer''''s orders''';`,
		`EXECUTE IMMEDIATE 'COMMENT ON COLUMN "ORDERS"."ID" IS ''surrogate key''';`,
		`EXECUTE IMMEDIATE 'CREATE OR REPLACE TRIGGER "ROWVERSION_ORDERS"`,
		`NVL(:OLD."VERSION", ''00000000'')) + 1); END;';`,
	} {
		if !strings.Contains(got, w) {
			t.Errorf("script missing %q:\n%s", w, got)
		}
	}
	if strings.Contains(got, "N'") {
		t.Errorf("comment kept the national prefix:\n%s", got)
	}
	if !strings.HasSuffix(got, "    END IF;\nEND;") {
		t.Errorf("script does not end with the guard:\n%s", got)
	}
}

func TestGenerateAddColumnWithComment(t *testing.T) {
	got := only(t, &ast.AddColumn{
		TableRef: ast.TableRef{TableName: "t"},
		Column:   ast.ColumnDef{Name: "c", Type: "NUMBER", Nullable: true, Comment: "it's"},
	})

	want := lines(
		`    IF I = 0 THEN`,
		`        EXECUTE IMMEDIATE 'ALTER TABLE "T" ADD "C" NUMBER';`,
		`        EXECUTE IMMEDIATE 'COMMENT ON COLUMN "T"."C" IS ''it''''s''';`,
		`    END IF;`,
	)
	if !strings.Contains(got, want) {
		t.Errorf("script =\n%s\nwant fragment\n%s", got, want)
	}
}

func TestGenerateAlterColumn(t *testing.T) {
	got := only(t, &ast.AlterColumn{
		TableRef: ast.TableRef{TableName: "t"},
		Column:   ast.ColumnDef{Name: "c", Type: "NVARCHAR2(50)", Comment: "new"},
		Old:      &ast.ColumnDef{Name: "c", Type: "NVARCHAR2(20)", Nullable: true, Default: "'x'", Comment: "old"},
	})

	for _, w := range []string{
		"BEGIN\n    DECLARE\n        l_nullable user_tab_columns.nullable%TYPE;",
		"WHERE table_name = 'T'",
		"AND column_name = 'C';",
		"IF l_nullable = 'Y' THEN",
		`EXECUTE IMMEDIATE 'ALTER TABLE "T" MODIFY "C" NVARCHAR2(50) DEFAULT NULL NOT NULL';`,
		`EXECUTE IMMEDIATE 'ALTER TABLE "T" MODIFY "C" NVARCHAR2(50) DEFAULT NULL';`,
		`EXECUTE IMMEDIATE 'COMMENT ON COLUMN "T"."C" IS ''new''';`,
	} {
		if !strings.Contains(got, w) {
			t.Errorf("script missing %q:\n%s", w, got)
		}
	}
	if !strings.HasSuffix(got, "\nEND;") {
		t.Errorf("script does not end the block:\n%s", got)
	}
}

func TestGenerateInsertData(t *testing.T) {
	model := &ast.Model{Tables: []*ast.TableDef{{
		Name:       "statuses",
		PrimaryKey: []string{"id"},
		Columns: []*ast.ColumnDef{
			{Name: "id", Type: "NUMBER(10)"},
			{Name: "code", Type: "VARCHAR2(10)"},
			{Name: "label", Type: "NVARCHAR2(50)"},
		},
	}}}
	op := &ast.InsertData{
		TableRef: ast.TableRef{TableName: "statuses"},
		Columns:  []string{"id", "code", "label"},
		Values:   [][]any{{1, "new", "New"}, {2, "done", "Don't"}},
	}

	res, err := NewOracle(Options{}).Generate([]ast.Operation{op}, model)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	got := res.Commands[0].Text
	for _, w := range []string{
		`EXECUTE IMMEDIATE 'MERGE INTO "STATUSES" t`,
		`SELECT 1 AS "ID", ''new'' AS "CODE", N''New'' AS "LABEL" FROM DUAL UNION ALL`,
		`SELECT 2 AS "ID", ''done'' AS "CODE", N''Don''''t'' AS "LABEL" FROM DUAL`,
		`ON ((t."ID" = s."ID" OR (t."ID" IS NULL AND s."ID" IS NULL)))`,
		`WHEN NOT MATCHED THEN`,
		`INSERT ("ID", "CODE", "LABEL") VALUES (s."ID", s."CODE", s."LABEL")';`,
	} {
		if !strings.Contains(got, w) {
			t.Errorf("script missing %q:\n%s", w, got)
		}
	}
}

func TestGenerateInsertDataNullKey(t *testing.T) {
	got := only(t, &ast.InsertData{
		TableRef: ast.TableRef{TableName: "notes"},
		Columns:  []string{"code", "note"},
		Values:   [][]any{{"a", nil}},
	})
	for _, w := range []string{
		`NULL AS "NOTE" FROM DUAL`,
		`(t."NOTE" = s."NOTE" OR (t."NOTE" IS NULL AND s."NOTE" IS NULL))`,
		`(t."CODE" = s."CODE" OR (t."CODE" IS NULL AND s."CODE" IS NULL))`,
	} {
		if !strings.Contains(got, w) {
			t.Errorf("script missing %q:\n%s", w, got)
		}
	}
	if strings.Contains(got, `ON (t."CODE" = s."CODE" AND`) {
		t.Errorf("key match is not NULL-safe:\n%s", got)
	}
}

func TestGenerateInsertDataShortRow(t *testing.T) {
	_, err := NewOracle(Options{}).Generate([]ast.Operation{&ast.InsertData{
		TableRef: ast.TableRef{TableName: "t"},
		Columns:  []string{"a", "b"},
		Values:   [][]any{{1}},
	}}, nil)
	if !alerr.Is(err, alerr.ErrOperationInvalid) {
		t.Fatalf("error = %v, want %s", err, alerr.ErrOperationInvalid)
	}
}

func TestGenerateCaseNormalization(t *testing.T) {
	got := only(t, &ast.CreateIndex{
		NamedRef: ast.NamedRef{TableRef: ast.TableRef{TableName: "Orders"}, Name: "ix_orders_date"},
		Columns:  []string{"created_at"},
	})
	if !strings.Contains(got, "WHERE index_name = 'IX_ORDERS_DATE';") {
		t.Errorf("catalog predicate not upper-cased:\n%s", got)
	}
}

func TestCatalogNameEscapesQuotes(t *testing.T) {
	if got := catalogName("o'x"); got != "O''X" {
		t.Errorf("catalogName() = %q, want %q", got, "O''X")
	}
}

// -----------------------------------------------------------------------------
// Command list and errors
// -----------------------------------------------------------------------------

func allKinds() []ast.Operation {
	ref := func(table, name string) ast.NamedRef {
		return ast.NamedRef{TableRef: ast.TableRef{TableName: table}, Name: name}
	}
	return []ast.Operation{
		&ast.CreateTable{TableOp: ast.TableOp{Name: "t"}, Columns: []*ast.ColumnDef{{Name: "id", Type: "NUMBER"}}, Comment: "c"},
		&ast.RenameTable{TableOp: ast.TableOp{Name: "t"}, NewName: "t2"},
		&ast.AlterTable{TableOp: ast.TableOp{Name: "t2"}, Comment: "c2"},
		&ast.AddColumn{TableRef: ast.TableRef{TableName: "t2"}, Column: ast.ColumnDef{Name: "rv", IsRowVersion: true, Comment: "v"}},
		&ast.RenameColumn{NamedRef: ref("t2", "id"), NewName: "pk"},
		&ast.AlterColumn{TableRef: ast.TableRef{TableName: "t2"}, Column: ast.ColumnDef{Name: "pk", Type: "NUMBER(12)"}},
		&ast.AddPrimaryKey{NamedRef: ref("t2", "pk_t2"), Columns: []string{"pk"}},
		&ast.AddUniqueConstraint{NamedRef: ref("t2", "uq_t2"), Columns: []string{"rv"}},
		&ast.AddCheckConstraint{TableRef: ast.TableRef{TableName: "t2"}, CheckDef: ast.CheckDef{Name: "ck_t2", Expression: "pk > 0"}},
		&ast.AddForeignKey{TableRef: ast.TableRef{TableName: "t2"}, ForeignKeyDef: ast.ForeignKeyDef{
			Name: "fk_t2", Columns: []string{"pk"}, PrincipalTable: "t2", PrincipalColumns: []string{"pk"}}},
		&ast.CreateIndex{NamedRef: ref("t2", "ix_t2"), Columns: []string{"pk", "rv"}},
		&ast.RenameIndex{NamedRef: ref("t2", "ix_t2"), NewName: "ix_t2b"},
		&ast.DropIndex{NamedRef: ref("t2", "ix_t2b")},
		&ast.InsertData{TableRef: ast.TableRef{TableName: "t2"}, Columns: []string{"pk"}, Values: [][]any{{1}}},
		&ast.DropForeignKey{NamedRef: ref("t2", "fk_t2")},
		&ast.DropCheckConstraint{NamedRef: ref("t2", "ck_t2")},
		&ast.DropUniqueConstraint{NamedRef: ref("t2", "uq_t2")},
		&ast.DropPrimaryKey{NamedRef: ref("t2", "pk_t2")},
		&ast.DropColumn{NamedRef: ref("t2", "rv"), IsRowVersion: true},
		&ast.CreateSequence{SequenceOp: ast.SequenceOp{Name: "s"}},
		&ast.AlterSequence{SequenceOp: ast.SequenceOp{Name: "s"}, SequenceOptions: ast.SequenceOptions{IncrementBy: 5}},
		&ast.RenameSequence{SequenceOp: ast.SequenceOp{Name: "s"}, NewName: "s2"},
		&ast.DropSequence{SequenceOp: ast.SequenceOp{Name: "s2"}},
		&ast.DropTable{TableOp: ast.TableOp{Name: "t2"}},
	}
}

func TestGenerateEveryKind(t *testing.T) {
	ops := allKinds()
	res := generate(t, Options{Strict: true}, ops...)

	if len(res.Commands) < len(ops) {
		t.Fatalf("Generate() returned %d commands for %d operations", len(res.Commands), len(ops))
	}
	seen := make(map[int]bool)
	last := -1
	for _, c := range res.Commands {
		if c.Op < last {
			t.Errorf("command for operation %d follows operation %d", c.Op, last)
		}
		last = c.Op
		seen[c.Op] = true
		if c.Kind != ops[c.Op].Type().String() {
			t.Errorf("command kind = %q, want %q", c.Kind, ops[c.Op].Type().String())
		}
		if strings.TrimSpace(c.Text) == "" {
			t.Errorf("blank command for operation %d", c.Op)
		}
	}
	for i := range ops {
		if !seen[i] {
			t.Errorf("operation %d (%s) produced no command", i, ops[i].Type())
		}
	}
}

func TestGenerateHandlesEveryKind(t *testing.T) {
	for _, kind := range ast.AllOpTypes() {
		if _, ok := handlers[kind]; !ok {
			t.Errorf("no handler for %s", kind)
		}
	}
}

func TestGenerateNilInput(t *testing.T) {
	_, err := NewOracle(Options{}).Generate(nil, nil)
	if !alerr.Is(err, alerr.ErrInvalidInput) {
		t.Errorf("Generate(nil) error = %v, want %s", err, alerr.ErrInvalidInput)
	}

	ops := []ast.Operation{&ast.DropTable{TableOp: ast.TableOp{Name: "t"}}, nil}
	_, err = NewOracle(Options{}).Generate(ops, nil)
	if !alerr.Is(err, alerr.ErrInvalidInput) {
		t.Fatalf("Generate() error = %v, want %s", err, alerr.ErrInvalidInput)
	}
	var ae *alerr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("error %T is not an *alerr.Error", err)
	}
	if ae.GetContext()["index"] != 1 {
		t.Errorf("error context = %v, want index 1", ae.GetContext())
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	res := generate(t, Options{})
	if len(res.Commands) != 0 {
		t.Errorf("Generate([]) returned %d commands, want 0", len(res.Commands))
	}
}

type unknownOp struct{}

func (unknownOp) Type() ast.OpType { return ast.OpType(99) }
func (unknownOp) Table() string    { return "" }
func (unknownOp) Validate() error  { return nil }

func TestGenerateUnknownKind(t *testing.T) {
	_, err := NewOracle(Options{}).Generate([]ast.Operation{unknownOp{}}, nil)
	if !alerr.Is(err, alerr.ErrUnsupportedOperation) {
		t.Errorf("Generate() error = %v, want %s", err, alerr.ErrUnsupportedOperation)
	}
}

func TestGenerateRestartSequence(t *testing.T) {
	restart := &ast.RestartSequence{SequenceOp: ast.SequenceOp{Name: "s"}, StartValue: 1}
	drop := &ast.DropSequence{SequenceOp: ast.SequenceOp{Name: "s"}}

	t.Run("rejected", func(t *testing.T) {
		res, err := NewOracle(Options{}).Generate([]ast.Operation{drop, restart}, nil)
		if res != nil {
			t.Errorf("Generate() returned a result alongside an error")
		}
		if !alerr.Is(err, alerr.ErrUnsupportedOperation) {
			t.Fatalf("Generate() error = %v, want %s", err, alerr.ErrUnsupportedOperation)
		}
		if !strings.Contains(err.Error(), "restart of sequence") {
			t.Errorf("error = %q, want dialect limitation", err.Error())
		}
	})

	t.Run("skipped", func(t *testing.T) {
		res := generate(t, Options{SkipUnsupported: true}, restart, drop)
		if len(res.Skipped) != 1 || res.Skipped[0].Index != 0 || res.Skipped[0].Kind != ast.OpRestartSequence {
			t.Fatalf("Skipped = %+v, want restart at index 0", res.Skipped)
		}
		if len(res.Commands) != 1 {
			t.Fatalf("Generate() returned %d commands, want 1", len(res.Commands))
		}
		text := res.Commands[0].Text
		if !strings.HasPrefix(text, "DECLARE") || strings.Contains(text, "RESTART") {
			t.Errorf("partial restart text leaked into the script:\n%s", text)
		}
	})
}

func TestNewNilEmitter(t *testing.T) {
	if New(nil, Options{}) != nil {
		t.Error("New(nil) should return nil")
	}
}
