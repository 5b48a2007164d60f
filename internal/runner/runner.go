// Package runner executes generated commands against a database.
package runner

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/sqlgen"
)

// Runner executes command lists in order, one statement per command.
type Runner struct {
	db *sql.DB

	// OnCommand, when set, is called before each command is executed.
	OnCommand func(index int, cmd sqlgen.Command)
	// OnResult, when set, is called after each command with its outcome.
	OnResult func(index int, cmd sqlgen.Command, err error)
}

// Result summarizes a run.
type Result struct {
	Executed int
	Duration time.Duration
}

// NewRunner creates a new runner.
// Returns nil if db is nil.
func NewRunner(db *sql.DB) *Runner {
	if db == nil {
		return nil
	}
	return &Runner{db: db}
}

// Run executes cmds in order and stops at the first failure. The returned
// Result counts the commands that completed before the failure.
func (r *Runner) Run(ctx context.Context, cmds []sqlgen.Command) (Result, error) {
	start := time.Now()
	var res Result

	for i, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, alerr.Wrap(alerr.ErrSQLExecution, err, "run cancelled").
				With("command", i+1)
		}

		if r.OnCommand != nil {
			r.OnCommand(i, cmd)
		}
		cmdStart := time.Now()
		_, err := r.db.ExecContext(ctx, cmd.Text)
		if r.OnResult != nil {
			r.OnResult(i, cmd, err)
		}
		if err != nil {
			slog.Warn("command failed", "command", i+1, "kind", cmd.Kind, "error", err)
			res.Duration = time.Since(start)
			return res, alerr.WrapSQL(err, "execute command", cmd.Text).
				With("command", i+1).
				WithOperation(cmd.Kind, cmd.Op)
		}
		slog.Debug("command executed", "command", i+1, "kind", cmd.Kind, "elapsed", time.Since(cmdStart))
		res.Executed++
	}

	res.Duration = time.Since(start)
	slog.Info("run complete", "commands", res.Executed, "elapsed", res.Duration)
	return res, nil
}

// RunDryRun returns the statements that would be executed without running them.
func (r *Runner) RunDryRun(ctx context.Context, cmds []sqlgen.Command) ([]string, error) {
	return DryRun(ctx, cmds)
}

// DryRun returns the statements of cmds in execution order. It needs no
// database connection.
func DryRun(ctx context.Context, cmds []sqlgen.Command) ([]string, error) {
	texts := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		texts = append(texts, cmd.Text)
	}
	return texts, nil
}

// Ping checks that the database is reachable.
func (r *Runner) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return alerr.Wrap(alerr.ErrSQLConnection, err, "failed to connect to database")
	}
	return nil
}
