package idempotent

import (
	"fmt"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/ast"
	"github.com/hlop3z/oraddl/internal/sqlgen"
)

// handler emits the script text for one operation.
type handler func(r *run, op ast.Operation) error

// handlers maps every operation kind to its emission logic.
var handlers = map[ast.OpType]handler{
	// Tables
	ast.OpCreateTable: handle(createTable),
	ast.OpDropTable: handle(func(r *run, op *ast.DropTable) error {
		return r.guarded(objectGuard("Deleting table", op.Name, present), false, func(t bool) error {
			return r.e.DropTable(op, r.m, r.b, t)
		})
	}),
	ast.OpRenameTable: handle(func(r *run, op *ast.RenameTable) error {
		g := objectGuard("Renaming table", op.Name, present).renamed(op.NewName)
		return r.guarded(g, true, func(t bool) error {
			return r.e.RenameTable(op, r.m, r.b, t)
		})
	}),
	ast.OpAlterTable: handle(func(r *run, op *ast.AlterTable) error {
		return r.passthroughBlock(func() error {
			return r.e.AlterTable(op, r.m, r.b, true)
		})
	}),

	// Columns
	ast.OpAddColumn:  handle(addColumn),
	ast.OpDropColumn: handle(dropColumn),
	ast.OpRenameColumn: handle(func(r *run, op *ast.RenameColumn) error {
		g := columnGuard("Renaming column", op.TableName, op.Name, present).renamed(op.NewName)
		return r.guarded(g, true, func(t bool) error {
			return r.e.RenameColumn(op, r.m, r.b, t)
		})
	}),
	ast.OpAlterColumn: handle(func(r *run, op *ast.AlterColumn) error {
		return r.passthroughBlock(func() error {
			return r.e.AlterColumn(op, r.m, r.b, true)
		})
	}),

	// Keys and constraints
	ast.OpAddPrimaryKey: handle(func(r *run, op *ast.AddPrimaryKey) error {
		return r.guarded(constraintGuard("Creating primary key", op.Name, primaryKeyType, absent), false, func(t bool) error {
			return r.e.AddPrimaryKey(op, r.m, r.b, t)
		})
	}),
	ast.OpDropPrimaryKey: handle(func(r *run, op *ast.DropPrimaryKey) error {
		return r.guarded(constraintGuard("Deleting primary key", op.Name, primaryKeyType, present), false, func(t bool) error {
			return r.e.DropPrimaryKey(op, r.m, r.b, t)
		})
	}),
	ast.OpAddForeignKey: handle(func(r *run, op *ast.AddForeignKey) error {
		return r.guarded(constraintGuard("Creating foreign key", op.Name, foreignKeyType, absent), false, func(t bool) error {
			return r.e.AddForeignKey(op, r.m, r.b, t)
		})
	}),
	ast.OpDropForeignKey: handle(func(r *run, op *ast.DropForeignKey) error {
		return r.guarded(constraintGuard("Deleting foreign key", op.Name, foreignKeyType, present), false, func(t bool) error {
			return r.e.DropForeignKey(op, r.m, r.b, t)
		})
	}),
	ast.OpAddUniqueConstraint: handle(func(r *run, op *ast.AddUniqueConstraint) error {
		return r.guarded(constraintGuard("Creating unique constraint", op.Name, uniqueType, absent), true, func(t bool) error {
			return r.e.AddUniqueConstraint(op, r.m, r.b, t)
		})
	}),
	ast.OpDropUniqueConstraint: handle(func(r *run, op *ast.DropUniqueConstraint) error {
		return r.guarded(constraintGuard("Deleting unique constraint", op.Name, uniqueType, present), true, func(t bool) error {
			return r.e.DropUniqueConstraint(op, r.m, r.b, t)
		})
	}),
	ast.OpAddCheckConstraint: handle(func(r *run, op *ast.AddCheckConstraint) error {
		return r.guarded(constraintGuard("Creating check constraint", op.Name, checkType, absent), false, func(t bool) error {
			return r.e.AddCheckConstraint(op, r.m, r.b, t)
		})
	}),
	ast.OpDropCheckConstraint: handle(func(r *run, op *ast.DropCheckConstraint) error {
		return r.guarded(constraintGuard("Deleting check constraint", op.Name, checkType, present), false, func(t bool) error {
			return r.e.DropCheckConstraint(op, r.m, r.b, t)
		})
	}),

	// Indexes
	ast.OpCreateIndex: handle(func(r *run, op *ast.CreateIndex) error {
		return r.guarded(indexGuard("Creating index", op.Name, absent), false, func(t bool) error {
			return r.e.CreateIndex(op, r.m, r.b, t)
		})
	}),
	ast.OpDropIndex: handle(func(r *run, op *ast.DropIndex) error {
		return r.guarded(indexGuard("Deleting index", op.Name, present), false, func(t bool) error {
			return r.e.DropIndex(op, r.m, r.b, t)
		})
	}),
	ast.OpRenameIndex: handle(func(r *run, op *ast.RenameIndex) error {
		g := indexGuard("Renaming index", op.Name, present).renamed(op.NewName)
		return r.guarded(g, true, func(t bool) error {
			return r.e.RenameIndex(op, r.m, r.b, t)
		})
	}),

	// Sequences
	ast.OpCreateSequence: handle(func(r *run, op *ast.CreateSequence) error {
		return r.guarded(sequenceGuard("Creating sequence", op.Name, absent), true, func(t bool) error {
			return r.e.CreateSequence(op, r.m, r.b, t)
		})
	}),
	ast.OpDropSequence: handle(func(r *run, op *ast.DropSequence) error {
		return r.guarded(sequenceGuard("Deleting sequence", op.Name, present), true, func(t bool) error {
			return r.e.DropSequence(op, r.m, r.b, t)
		})
	}),
	ast.OpRenameSequence: handle(func(r *run, op *ast.RenameSequence) error {
		g := sequenceGuard("Renaming sequence", op.Name, present).renamed(op.NewName)
		return r.guarded(g, true, func(t bool) error {
			return r.e.RenameSequence(op, r.m, r.b, t)
		})
	}),
	ast.OpAlterSequence: handle(func(r *run, op *ast.AlterSequence) error {
		return r.passthroughExec(func() error {
			return r.e.AlterSequence(op, r.m, r.b, true)
		})
	}),
	ast.OpRestartSequence: handle(func(r *run, op *ast.RestartSequence) error {
		return r.passthroughExec(func() error {
			return r.e.RestartSequence(op, r.m, r.b, true)
		})
	}),

	// Data
	ast.OpInsertData: handle(func(r *run, op *ast.InsertData) error {
		return r.passthroughExec(func() error {
			return r.e.InsertData(op, r.m, r.b, true)
		})
	}),
}

// handle adapts a typed handler to the dispatch table.
func handle[T ast.Operation](fn func(r *run, op T) error) handler {
	return func(r *run, op ast.Operation) error {
		typed, ok := op.(T)
		if !ok {
			return alerr.New(alerr.EInternalError, fmt.Sprintf("unexpected operation type %T", op))
		}
		return fn(r, typed)
	}
}

// -----------------------------------------------------------------------------
// Shapes
// -----------------------------------------------------------------------------

// guarded wraps the producer's statement in a guarded dynamic execution.
// terminate is passed to the producer; the surrounding scope ignores the
// statement end either way.
func (r *run) guarded(g guard, terminate bool, emit func(terminate bool) error) error {
	var err error
	wrap(r.b, true, func() {
		g.emit(r.b, func() {
			err = r.execute(sqlgen.Mode{}, terminate, emit)
		})
	})
	return err
}

// execute writes EXECUTE IMMEDIATE '<producer text>'; with extra scope flags.
func (r *run) execute(extra sqlgen.Mode, terminate bool, emit func(terminate bool) error) error {
	var err error
	r.b.Append("EXECUTE IMMEDIATE '")
	mode := sqlgen.Mode{EscapeQuotes: true, IgnoreEndOfStatement: true}
	r.b.Within(mode, func() {
		r.b.Within(extra, func() {
			err = emit(terminate)
		})
	})
	r.b.AppendLine("';")
	return err
}

// passthroughBlock runs producer text that is already a re-runnable PL/SQL
// block or comment inside an unguarded BEGIN ... END;.
func (r *run) passthroughBlock(emit func() error) error {
	var err error
	r.b.AppendLine("BEGIN")
	r.b.Indent(func() {
		before := r.b.Written()
		r.b.Within(sqlgen.Mode{AlterTable: true, IgnoreEndOfStatement: true}, func() {
			err = emit()
		})
		if r.b.Written() == before {
			r.b.AppendLine("NULL;")
		}
	})
	r.b.AppendLine("END;")
	r.b.EndCommand()
	return err
}

// passthroughExec runs a naturally re-runnable statement as dynamic SQL
// inside an unguarded BEGIN ... END;.
func (r *run) passthroughExec(emit func() error) error {
	var err error
	r.b.AppendLine("BEGIN")
	r.b.Indent(func() {
		err = r.execute(sqlgen.Mode{}, true, func(bool) error { return emit() })
	})
	r.b.AppendLine("END;")
	r.b.EndCommand()
	return err
}

// -----------------------------------------------------------------------------
// Tables and columns
// -----------------------------------------------------------------------------

// createTable lets the producer emit its own PL/SQL: the table block, then
// comments and row-version triggers, which the builder nests.
func createTable(r *run, op *ast.CreateTable) error {
	var err error
	wrap(r.b, true, func() {
		objectGuard("Creating table", op.Name, absent).emit(r.b, func() {
			r.b.Within(sqlgen.Mode{CreateTable: true, IgnoreEndOfStatement: true}, func() {
				err = r.e.CreateTable(op, r.m, r.b, true)
			})
		})
	})
	return err
}

// addColumn adds the column and, for row-version columns, its trigger in the
// same branch.
func addColumn(r *run, op *ast.AddColumn) error {
	var err error
	g := columnGuard("Creating column", op.TableName, op.Column.Name, absent)
	wrap(r.b, true, func() {
		g.emit(r.b, func() {
			err = r.execute(sqlgen.Mode{AddColumn: true}, false, func(t bool) error {
				return r.e.AddColumn(op, r.m, r.b, t)
			})
			if err != nil || !op.Column.IsRowVersion {
				return
			}
			r.b.Within(sqlgen.Mode{AddColumn: true, IgnoreEndOfStatement: true}, func() {
				r.e.RowVersionTrigger(op.TableName, op.Column.Name, r.b)
			})
		})
	})
	return err
}

// dropColumn drops the column; row-version columns also drop the trigger in
// a second, independently guarded block of the same command.
func dropColumn(r *run, op *ast.DropColumn) error {
	drop := func() error {
		var err error
		wrap(r.b, !op.IsRowVersion, func() {
			columnGuard("Deleting column", op.TableName, op.Name, present).emit(r.b, func() {
				err = r.execute(sqlgen.Mode{}, false, func(t bool) error {
					return r.e.DropColumn(op, r.m, r.b, t)
				})
			})
		})
		return err
	}
	if !op.IsRowVersion {
		return drop()
	}

	var err error
	trigger := r.e.RowVersionTriggerName(op.TableName)
	r.b.AppendLine("BEGIN")
	r.b.Indent(func() {
		if err = drop(); err != nil {
			return
		}
		wrap(r.b, false, func() {
			triggerGuard("Deleting trigger", trigger, op.TableName, present).emit(r.b, func() {
				err = r.execute(sqlgen.Mode{}, false, func(t bool) error {
					r.e.DropRowVersionTrigger(op.TableName, r.b, t)
					return nil
				})
			})
		})
	})
	r.b.AppendLine("END;")
	r.b.EndCommand()
	return err
}
