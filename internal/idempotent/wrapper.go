package idempotent

import (
	"strconv"

	"github.com/hlop3z/oraddl/internal/dialect"
	"github.com/hlop3z/oraddl/internal/sqlgen"
)

// counter is the scratch variable every wrapped block declares.
const counter = "i"

// wrap emits an anonymous PL/SQL block declaring the counter and running body.
// Without terminate the command stays open so another block can follow it.
func wrap(b *sqlgen.Builder, terminate bool, body func()) {
	b.AppendLine("DECLARE")
	b.Indent(func() {
		b.AppendLine(counter + " NUMBER;")
	})
	b.AppendLine("BEGIN")
	b.Indent(body)
	b.AppendLine("END;")
	if terminate {
		b.EndCommand()
	}
}

// -----------------------------------------------------------------------------
// Guards
// -----------------------------------------------------------------------------

// Guard polarity: the branch runs when the catalog count equals it.
const (
	absent  = 0
	present = 1
)

// guard is a catalog existence check.
type guard struct {
	// action describes the change for the script reader.
	action string
	// view is the catalog view counted.
	view string
	// where is the predicate, one line per condition.
	where []string
	// want is absent or present.
	want int
}

// emit writes the check and runs body inside the branch.
func (g guard) emit(b *sqlgen.Builder, body func()) {
	b.AppendLine("-- " + g.action)
	b.AppendLine("SELECT COUNT(*) INTO " + counter + " FROM " + g.view)
	for i, line := range g.where {
		if i == len(g.where)-1 {
			line += ";"
		}
		b.AppendLine(line)
	}
	b.AppendLine("IF I = " + strconv.Itoa(g.want) + " THEN")
	b.Indent(body)
	b.AppendLine("END IF;")
}

// renamed appends the new name to the action.
func (g guard) renamed(newName string) guard {
	g.action += " -> " + dialect.NormalizeName(newName)
	return g
}

// catalogName returns name as the catalog stores it, escaped for a literal.
func catalogName(name string) string {
	return dialect.EscapeQuotes(dialect.NormalizeName(name))
}

func eq(column, name string) string {
	return column + " = '" + catalogName(name) + "'"
}

func objectGuard(action, name string, want int) guard {
	return guard{
		action: action + " " + dialect.NormalizeName(name),
		view:   "user_objects",
		where:  []string{"WHERE " + eq("object_name", name)},
		want:   want,
	}
}

func columnGuard(action, table, column string, want int) guard {
	return guard{
		action: action + " " + dialect.NormalizeName(table) + "." + dialect.NormalizeName(column),
		view:   "user_tab_columns",
		where: []string{
			"WHERE " + eq("table_name", table),
			"AND " + eq("column_name", column),
		},
		want: want,
	}
}

func indexGuard(action, name string, want int) guard {
	return guard{
		action: action + " " + dialect.NormalizeName(name),
		view:   "user_indexes",
		where:  []string{"WHERE " + eq("index_name", name)},
		want:   want,
	}
}

// Constraint types in user_constraints.
const (
	primaryKeyType = "P"
	foreignKeyType = "R"
	uniqueType     = "U"
	checkType      = "C"
)

func constraintGuard(action, name, typ string, want int) guard {
	return guard{
		action: action + " " + dialect.NormalizeName(name),
		view:   "user_constraints",
		where:  []string{"WHERE " + eq("constraint_name", name) + " AND constraint_type = '" + typ + "'"},
		want:   want,
	}
}

func sequenceGuard(action, name string, want int) guard {
	return guard{
		action: action + " " + dialect.NormalizeName(name),
		view:   "user_sequences",
		where:  []string{"WHERE " + eq("sequence_name", name)},
		want:   want,
	}
}

func triggerGuard(action, trigger, table string, want int) guard {
	return guard{
		action: action + " " + trigger,
		view:   "user_triggers",
		where: []string{
			"WHERE " + eq("trigger_name", trigger),
			"AND " + eq("table_name", table),
		},
		want: want,
	}
}
