package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/ast"
)

// rowVersionSeed is the initial value of a NOT NULL row-version column.
const rowVersionSeed = "0000000000000000"

// oracle implements the Emitter interface for Oracle 12.2+.
type oracle struct{}

// Oracle returns the Oracle producer.
func Oracle() Emitter {
	return &oracle{}
}

func (d *oracle) Name() string {
	return "oracle"
}

// statement writes a one-fragment statement.
func (d *oracle) statement(s Sink, sql string, terminate bool) {
	s.Append(sql)
	endStatement(s, terminate)
}

// -----------------------------------------------------------------------------
// Tables
// -----------------------------------------------------------------------------

func (d *oracle) CreateTable(op *ast.CreateTable, _ *ast.Model, s Sink, terminate bool) error {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(QuoteIdent(op.Name))
	b.WriteString(" (\n")

	var parts []string
	for _, col := range op.Columns {
		parts = append(parts, d.columnDefSQL(col))
	}
	if op.PrimaryKey != nil {
		parts = append(parts, "CONSTRAINT "+QuoteIdent(op.PrimaryKey.Name)+
			" PRIMARY KEY ("+QuoteIdents(op.PrimaryKey.Columns)+")")
	}
	for _, uq := range op.UniqueConstraints {
		parts = append(parts, "CONSTRAINT "+QuoteIdent(uq.Name)+" UNIQUE ("+QuoteIdents(uq.Columns)+")")
	}
	for _, ck := range op.CheckConstraints {
		parts = append(parts, "CONSTRAINT "+QuoteIdent(ck.Name)+" CHECK ("+ck.Expression+")")
	}
	for _, fk := range op.ForeignKeys {
		parts = append(parts, d.foreignKeyConstraintSQL(fk))
	}
	for i, p := range parts {
		b.WriteString("    ")
		b.WriteString(p)
		if i < len(parts)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")

	s.AppendLine("BEGIN")
	s.Indent(func() {
		s.AppendLine("EXECUTE IMMEDIATE " + Literal(b.String()) + ";")
	})
	s.AppendLine("END;")

	// Follow-up statements: comments then row-version triggers.
	var follow []func()
	if op.Comment != "" {
		follow = append(follow, func() { d.commentStatement(s, CommentOnTable, QuoteIdent(op.Name), op.Comment) })
	}
	for _, col := range op.Columns {
		if col.Comment != "" {
			target := QualifiedColumn(op.Name, col.Name)
			text := col.Comment
			follow = append(follow, func() { d.commentStatement(s, CommentOnColumn, target, text) })
		}
	}
	for _, col := range op.RowVersionColumns() {
		column := col.Name
		follow = append(follow, func() { d.emitTrigger(op.Name, column, s) })
	}

	for _, f := range follow {
		s.EndCommand()
		f()
	}
	if terminate {
		s.EndCommand()
	}
	return nil
}

func (d *oracle) DropTable(op *ast.DropTable, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "DROP TABLE "+QuoteIdent(op.Name), terminate)
	return nil
}

func (d *oracle) RenameTable(op *ast.RenameTable, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "ALTER TABLE "+QuoteIdent(op.Name)+" RENAME TO "+QuoteIdent(op.NewName), terminate)
	return nil
}

func (d *oracle) AlterTable(op *ast.AlterTable, _ *ast.Model, s Sink, terminate bool) error {
	if op.Comment == op.OldComment {
		return nil
	}
	d.commentStatement(s, CommentOnTable, QuoteIdent(op.Name), op.Comment)
	if terminate {
		s.EndCommand()
	}
	return nil
}

// -----------------------------------------------------------------------------
// Columns
// -----------------------------------------------------------------------------

func (d *oracle) AddColumn(op *ast.AddColumn, _ *ast.Model, s Sink, terminate bool) error {
	s.Append("ALTER TABLE " + QuoteIdent(op.TableName) + " ADD " + d.columnDefSQL(&op.Column))
	if op.Column.Comment == "" {
		endStatement(s, terminate)
		return nil
	}
	s.AppendLine(Terminator)
	s.EndCommand()
	d.commentStatement(s, CommentOnColumn, QualifiedColumn(op.TableName, op.Column.Name), op.Column.Comment)
	if terminate {
		s.EndCommand()
	}
	return nil
}

func (d *oracle) DropColumn(op *ast.DropColumn, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "ALTER TABLE "+QuoteIdent(op.TableName)+" DROP COLUMN "+QuoteIdent(op.Name), terminate)
	return nil
}

func (d *oracle) RenameColumn(op *ast.RenameColumn, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "ALTER TABLE "+QuoteIdent(op.TableName)+" RENAME COLUMN "+
		QuoteIdent(op.Name)+" TO "+QuoteIdent(op.NewName), terminate)
	return nil
}

// AlterColumn reads the current nullability from the catalog first: Oracle
// rejects MODIFY ... NULL on a nullable column and MODIFY ... NOT NULL on a
// NOT NULL one.
func (d *oracle) AlterColumn(op *ast.AlterColumn, _ *ast.Model, s Sink, terminate bool) error {
	col := &op.Column
	table := QuoteIdent(op.TableName)

	modify := "ALTER TABLE " + table + " MODIFY " + QuoteIdent(col.Name) + " " + col.StoreType()
	switch {
	case col.Default != "":
		modify += " DEFAULT " + col.Default
	case op.Old != nil && op.Old.Default != "":
		modify += " DEFAULT NULL"
	}

	flip, nullability := "Y", " NOT NULL"
	if col.Nullable {
		flip, nullability = "N", " NULL"
	}

	s.AppendLine("DECLARE")
	s.Indent(func() {
		s.AppendLine("l_nullable user_tab_columns.nullable%TYPE;")
	})
	s.AppendLine("BEGIN")
	s.Indent(func() {
		s.AppendLine("SELECT nullable INTO l_nullable")
		s.AppendLine("FROM user_tab_columns")
		s.AppendLine("WHERE table_name = " + Literal(NormalizeName(op.TableName)))
		s.AppendLine("AND column_name = " + Literal(NormalizeName(col.Name)) + ";")
		s.AppendLine("IF l_nullable = '" + flip + "' THEN")
		s.Indent(func() {
			s.AppendLine("EXECUTE IMMEDIATE " + Literal(modify+nullability) + ";")
		})
		s.AppendLine("ELSE")
		s.Indent(func() {
			s.AppendLine("EXECUTE IMMEDIATE " + Literal(modify) + ";")
		})
		s.AppendLine("END IF;")
	})
	s.AppendLine("END;")

	changed := col.Comment != ""
	if op.Old != nil {
		changed = col.Comment != op.Old.Comment
	}
	if changed {
		s.EndCommand()
		d.commentStatement(s, CommentOnColumn, QualifiedColumn(op.TableName, col.Name), col.Comment)
	}
	if terminate {
		s.EndCommand()
	}
	return nil
}

// -----------------------------------------------------------------------------
// Keys and constraints
// -----------------------------------------------------------------------------

func (d *oracle) AddPrimaryKey(op *ast.AddPrimaryKey, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "ALTER TABLE "+QuoteIdent(op.TableName)+" ADD CONSTRAINT "+QuoteIdent(op.Name)+
		" PRIMARY KEY ("+QuoteIdents(op.Columns)+")", terminate)
	return nil
}

func (d *oracle) DropPrimaryKey(op *ast.DropPrimaryKey, _ *ast.Model, s Sink, terminate bool) error {
	d.dropConstraint(s, op.TableName, op.Name, terminate)
	return nil
}

func (d *oracle) AddForeignKey(op *ast.AddForeignKey, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "ALTER TABLE "+QuoteIdent(op.TableName)+" ADD "+d.foreignKeyConstraintSQL(&op.ForeignKeyDef), terminate)
	return nil
}

func (d *oracle) DropForeignKey(op *ast.DropForeignKey, _ *ast.Model, s Sink, terminate bool) error {
	d.dropConstraint(s, op.TableName, op.Name, terminate)
	return nil
}

func (d *oracle) AddUniqueConstraint(op *ast.AddUniqueConstraint, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "ALTER TABLE "+QuoteIdent(op.TableName)+" ADD CONSTRAINT "+QuoteIdent(op.Name)+
		" UNIQUE ("+QuoteIdents(op.Columns)+")", terminate)
	return nil
}

func (d *oracle) DropUniqueConstraint(op *ast.DropUniqueConstraint, _ *ast.Model, s Sink, terminate bool) error {
	d.dropConstraint(s, op.TableName, op.Name, terminate)
	return nil
}

func (d *oracle) AddCheckConstraint(op *ast.AddCheckConstraint, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "ALTER TABLE "+QuoteIdent(op.TableName)+" ADD CONSTRAINT "+QuoteIdent(op.Name)+
		" CHECK ("+op.Expression+")", terminate)
	return nil
}

func (d *oracle) DropCheckConstraint(op *ast.DropCheckConstraint, _ *ast.Model, s Sink, terminate bool) error {
	d.dropConstraint(s, op.TableName, op.Name, terminate)
	return nil
}

func (d *oracle) dropConstraint(s Sink, table, name string, terminate bool) {
	d.statement(s, "ALTER TABLE "+QuoteIdent(table)+" DROP CONSTRAINT "+QuoteIdent(name), terminate)
}

// -----------------------------------------------------------------------------
// Indexes
// -----------------------------------------------------------------------------

func (d *oracle) CreateIndex(op *ast.CreateIndex, _ *ast.Model, s Sink, terminate bool) error {
	kw := "CREATE INDEX "
	if op.Unique {
		kw = "CREATE UNIQUE INDEX "
	}
	d.statement(s, kw+QuoteIdent(op.Name)+" ON "+QuoteIdent(op.TableName)+" ("+QuoteIdents(op.Columns)+")", terminate)
	return nil
}

func (d *oracle) DropIndex(op *ast.DropIndex, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "DROP INDEX "+QuoteIdent(op.Name), terminate)
	return nil
}

func (d *oracle) RenameIndex(op *ast.RenameIndex, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "ALTER INDEX "+QuoteIdent(op.Name)+" RENAME TO "+QuoteIdent(op.NewName), terminate)
	return nil
}

// -----------------------------------------------------------------------------
// Sequences
// -----------------------------------------------------------------------------

func (d *oracle) CreateSequence(op *ast.CreateSequence, _ *ast.Model, s Sink, terminate bool) error {
	sql := "CREATE SEQUENCE " + QuoteIdent(op.Name) +
		" START WITH " + strconv.FormatInt(op.Start(), 10) +
		d.sequenceOptionsSQL(op.SequenceOptions)
	d.statement(s, sql, terminate)
	return nil
}

func (d *oracle) DropSequence(op *ast.DropSequence, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "DROP SEQUENCE "+QuoteIdent(op.Name), terminate)
	return nil
}

func (d *oracle) RenameSequence(op *ast.RenameSequence, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "RENAME "+QuoteIdent(op.Name)+" TO "+QuoteIdent(op.NewName), terminate)
	return nil
}

func (d *oracle) AlterSequence(op *ast.AlterSequence, _ *ast.Model, s Sink, terminate bool) error {
	d.statement(s, "ALTER SEQUENCE "+QuoteIdent(op.Name)+d.sequenceOptionsSQL(op.SequenceOptions), terminate)
	return nil
}

// RestartSequence always fails: before 18c Oracle has no statement that
// restarts a sequence at a given value.
func (d *oracle) RestartSequence(op *ast.RestartSequence, _ *ast.Model, _ Sink, _ bool) error {
	return alerr.New(alerr.ErrUnsupportedOperation, "Oracle doesn't support restart of sequence").
		WithOperation(ast.OpRestartSequence.String(), -1).
		With("sequence", op.Name).
		WithHelp("drop and re-create the sequence with the desired start value")
}

func (d *oracle) sequenceOptionsSQL(o ast.SequenceOptions) string {
	var b strings.Builder
	b.WriteString(" INCREMENT BY ")
	b.WriteString(strconv.FormatInt(o.Increment(), 10))
	if o.MinValue != nil {
		b.WriteString(" MINVALUE " + strconv.FormatInt(*o.MinValue, 10))
	} else {
		b.WriteString(" NOMINVALUE")
	}
	if o.MaxValue != nil {
		b.WriteString(" MAXVALUE " + strconv.FormatInt(*o.MaxValue, 10))
	} else {
		b.WriteString(" NOMAXVALUE")
	}
	if o.Cycle {
		b.WriteString(" CYCLE")
	} else {
		b.WriteString(" NOCYCLE")
	}
	return b.String()
}

// -----------------------------------------------------------------------------
// Data
// -----------------------------------------------------------------------------

// InsertData emits one MERGE for all rows, inserting only rows whose key
// columns match no existing row. NULL keys match NULL.
func (d *oracle) InsertData(op *ast.InsertData, m *ast.Model, s Sink, terminate bool) error {
	if err := op.CheckRowWidths(); err != nil {
		return err
	}
	keys := insertKeyColumns(op, m)

	rows := make([]string, len(op.Values))
	for i, row := range op.Values {
		var b strings.Builder
		b.WriteString("SELECT ")
		for j, col := range op.Columns {
			if j > 0 {
				b.WriteString(", ")
			}
			typ, known := m.ColumnType(op.TableName, col)
			v, err := FormatValue(row[j], typ, known)
			if err != nil {
				return alerr.Wrap(alerr.ErrOperationInvalid, err, "cannot render seed value").
					WithTable(op.TableName).
					WithColumn(col).
					With("row", i)
			}
			b.WriteString(v + " AS " + QuoteIdent(col))
		}
		b.WriteString(" FROM DUAL")
		if i < len(op.Values)-1 {
			b.WriteString(" UNION ALL")
		}
		rows[i] = b.String()
	}

	on := make([]string, len(keys))
	for i, k := range keys {
		on[i] = nullSafeEqual("t."+QuoteIdent(k), "s."+QuoteIdent(k))
	}
	values := make([]string, len(op.Columns))
	for i, c := range op.Columns {
		values[i] = "s." + QuoteIdent(c)
	}

	s.AppendLine("MERGE INTO " + QuoteIdent(op.TableName) + " t")
	s.AppendLine("USING (")
	s.Indent(func() {
		for _, r := range rows {
			s.AppendLine(r)
		}
	})
	s.AppendLine(") s")
	s.AppendLine("ON (" + strings.Join(on, " AND ") + ")")
	s.AppendLine("WHEN NOT MATCHED THEN")
	s.Append("INSERT (" + QuoteIdents(op.Columns) + ") VALUES (" + strings.Join(values, ", ") + ")")
	endStatement(s, terminate)
	return nil
}

// nullSafeEqual compares a and b treating two NULLs as equal.
func nullSafeEqual(a, b string) string {
	return "(" + a + " = " + b + " OR (" + a + " IS NULL AND " + b + " IS NULL))"
}

// insertKeyColumns picks the columns that identify a seed row: explicit key
// columns, else the model's primary key when every key column is inserted,
// else every inserted column.
func insertKeyColumns(op *ast.InsertData, m *ast.Model) []string {
	if len(op.KeyColumns) > 0 {
		return op.KeyColumns
	}
	if t := m.Table(op.TableName); t != nil && len(t.PrimaryKey) > 0 {
		all := true
		for _, pk := range t.PrimaryKey {
			if !containsFold(op.Columns, pk) {
				all = false
				break
			}
		}
		if all {
			return t.PrimaryKey
		}
	}
	return op.Columns
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Row versioning
// -----------------------------------------------------------------------------

func (d *oracle) RowVersionTriggerName(table string) string {
	return "ROWVERSION_" + NormalizeName(table)
}

func (d *oracle) RowVersionTrigger(table, column string, s Sink) {
	d.emitTrigger(table, column, s)
}

// emitTrigger writes the trigger with the token boundaries the rewriting
// sink matches on: the opener alone, and END separate from its terminator.
func (d *oracle) emitTrigger(table, column string, s Sink) {
	col := QuoteIdent(column)
	s.Append(TriggerOpener)
	s.AppendLine(QuoteIdent(d.RowVersionTriggerName(table)))
	s.AppendLine("BEFORE INSERT OR UPDATE ON " + QuoteIdent(table))
	s.AppendLine("FOR EACH ROW")
	s.AppendLine("BEGIN")
	s.Indent(func() {
		s.Append(":NEW." + col + " := UTL_RAW.CAST_FROM_BINARY_INTEGER(" +
			"UTL_RAW.CAST_TO_BINARY_INTEGER(NVL(:OLD." + col + ", '00000000')) + 1)")
		s.AppendLine(Terminator)
	})
	s.Append(TriggerCloser)
	s.AppendLine(Terminator)
	s.EndCommand()
}

func (d *oracle) DropRowVersionTrigger(table string, s Sink, terminate bool) {
	d.statement(s, "DROP TRIGGER "+QuoteIdent(d.RowVersionTriggerName(table)), terminate)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// commentStatement writes a terminated COMMENT ON statement. The opener and
// the text literal are separate fragments.
func (d *oracle) commentStatement(s Sink, opener, target, text string) {
	s.Append(opener)
	s.Append(target)
	s.Append(" IS ")
	s.Append(UnicodeLiteral(text))
	s.AppendLine(Terminator)
}

func (d *oracle) columnDefSQL(col *ast.ColumnDef) string {
	var b strings.Builder
	b.WriteString(QuoteIdent(col.Name))
	b.WriteString(" ")
	b.WriteString(col.StoreType())
	if col.Identity {
		b.WriteString(" GENERATED BY DEFAULT ON NULL AS IDENTITY")
	}
	switch {
	case col.Default != "":
		b.WriteString(" DEFAULT " + col.Default)
	case col.IsRowVersion && !col.Nullable:
		b.WriteString(" DEFAULT " + Literal(rowVersionSeed))
	}
	if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	return b.String()
}

func (d *oracle) foreignKeyConstraintSQL(fk *ast.ForeignKeyDef) string {
	sql := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		QuoteIdent(fk.Name),
		QuoteIdents(fk.Columns),
		QuoteIdent(fk.PrincipalTable),
		QuoteIdents(fk.PrincipalColumns))
	// NO ACTION is Oracle's implicit behavior and has no ON DELETE clause.
	if action, err := ast.NormalizeFKAction(fk.OnDelete); err == nil && action != "" && action != "NO ACTION" {
		sql += " ON DELETE " + action
	}
	return sql
}
