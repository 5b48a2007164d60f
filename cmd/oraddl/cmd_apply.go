package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/cli"
	"github.com/hlop3z/oraddl/internal/journal"
	"github.com/hlop3z/oraddl/internal/runner"
	"github.com/hlop3z/oraddl/internal/script"
	"github.com/hlop3z/oraddl/internal/sqlgen"
	"github.com/hlop3z/oraddl/internal/ui"
)

// driverName is the database/sql driver registered by go-ora.
const driverName = "oracle"

// applyCmd executes a script against Oracle.
func applyCmd() *cobra.Command {
	var (
		scriptPath string
		dryRun     bool
		yes        bool
		noVerify   bool
	)

	cmd := &cobra.Command{
		Use:   "apply [plans...]",
		Short: "Execute the idempotent script against Oracle",
		Long: `Execute the idempotent script against Oracle.

Commands run in order and the first failure stops the run. Because every
command checks the data dictionary first, a failed apply can simply be
repeated after the cause is fixed. Each apply is recorded in the journal.`,
		Example: `  # Generate from ./plans and apply
  oraddl apply -d oracle://app:secret@db:1521/ORCLPDB1

  # Apply a reviewed script, checking it against its lockfile
  oraddl apply --script build/idempotent.sql --yes

  # Show what would run
  oraddl apply --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			var b *build
			if scriptPath != "" {
				if len(args) > 0 {
					return alerr.New(alerr.ErrInvalidInput, "plan files cannot be combined with --script")
				}
				b, err = buildFromScript(scriptPath, !noVerify)
			} else {
				b, err = buildFromPlans(cmd.Context(), cfg, args)
			}
			if err != nil {
				return err
			}

			for _, msg := range append(b.skippedWarnings(), b.PlanWarnings...) {
				fmt.Fprint(cmd.ErrOrStderr(), cli.FormatWarning(msg))
			}

			if dryRun {
				return runDryRun(cmd.Context(), cmd.OutOrStdout(), cfg, b)
			}
			if len(b.Commands) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Dim(MsgNoCommands))
				return nil
			}
			if cfg.DatabaseURL == "" {
				return alerr.New(alerr.ErrConfig, "no database URL configured").
					WithHelp("set database_url in " + DefaultConfigFile + ", ORADDL_DATABASE_URL or DATABASE_URL, or pass --database-url")
			}

			target := MaskDatabaseURL(cfg.DatabaseURL)
			if !yes && ui.IsTerminal(os.Stdin) {
				prompt := fmt.Sprintf(PromptApply, ui.FormatCount(len(b.Commands), "command", "commands"), target)
				if !ui.Confirm(os.Stdin, cmd.ErrOrStderr(), prompt, false) {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Dim(MsgApplyCancelled))
					return nil
				}
			}

			db, err := sql.Open(driverName, cfg.DatabaseURL)
			if err != nil {
				return alerr.Wrap(alerr.ErrSQLConnection, err, "failed to open database").
					With("target", target)
			}
			defer db.Close()

			return runApply(cmd.Context(), cmd.OutOrStdout(), cfg, db, target, b)
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", FlagDescScript)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, FlagDescDryRun)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, FlagDescYes)
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, FlagDescNoVerify)
	return cmd
}

// runDryRun prints the script and records the dry run.
func runDryRun(ctx context.Context, w io.Writer, cfg *Config, b *build) error {
	texts, err := runner.DryRun(ctx, b.Commands)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, script.Render(texts)); err != nil {
		return err
	}

	record(ctx, cfg, &journal.Entry{
		Root:     b.Chain.Root,
		Script:   b.Name,
		Target:   MaskDatabaseURL(cfg.DatabaseURL),
		Revision: b.Revision,
		Commands: len(b.Commands),
		Status:   journal.StatusDryRun,
	})
	return nil
}

// runApply executes b on db with per-command progress and records the
// outcome in the journal.
func runApply(ctx context.Context, w io.Writer, cfg *Config, db *sql.DB, target string, b *build) error {
	r := runner.NewRunner(db)

	spinner := cli.NewSpinner("Connecting to " + target)
	spinner.Start()
	if err := r.Ping(ctx); err != nil {
		spinner.StopWithError("connection failed")
		var ae *alerr.Error
		if errors.As(err, &ae) {
			return ae.With("target", target)
		}
		return err
	}
	spinner.StopWithSuccess("Connected to " + target)

	progress := cli.NewCommandProgress(os.Stderr, b.commandLabels())
	r.OnCommand = func(index int, _ sqlgen.Command) { progress.Start(index) }
	r.OnResult = func(_ int, _ sqlgen.Command, err error) {
		if err != nil {
			progress.Failed(err)
		} else {
			progress.Complete()
		}
	}

	res, runErr := r.Run(ctx, b.Commands)
	progress.Summary()

	entry := &journal.Entry{
		Root:     b.Chain.Root,
		Script:   b.Name,
		Target:   target,
		Revision: b.Revision,
		Commands: len(b.Commands),
		Executed: res.Executed,
		Status:   journal.StatusApplied,
		Duration: res.Duration,
	}
	if runErr != nil {
		entry.Status = journal.StatusFailed
		entry.Error = runErr.Error()
	}
	record(ctx, cfg, entry)

	if runErr != nil {
		return runErr
	}

	if cli.Default().IsJSON() {
		return cli.WriteJSON(w, map[string]any{
			"root":        b.Chain.Root,
			"target":      target,
			"commands":    res.Executed,
			"duration_ms": res.Duration.Milliseconds(),
		})
	}
	content := ui.FormatKeyValue("Target", target) + "\n" +
		ui.FormatKeyValue("Commands", ui.FormatCount(res.Executed, "command", "commands")) + "\n" +
		ui.FormatKeyValue("Root", b.Chain.ShortRoot()) + "\n" +
		ui.FormatKeyValue("Duration", ui.FormatDuration(res.Duration))
	fmt.Fprintln(w, ui.RenderSuccessPanel(TitleScriptApplied, content))
	return nil
}

// record stores e in the journal. Journal failures are logged, not returned.
func record(ctx context.Context, cfg *Config, e *journal.Entry) {
	j, err := journal.Open(cfg.JournalDir)
	if err != nil {
		slog.Warn("journal unavailable", "error", err)
		return
	}
	defer j.Close()

	if e.AppliedAt.IsZero() {
		e.AppliedAt = time.Now()
	}
	if err := j.Record(ctx, e); err != nil {
		slog.Warn("failed to record apply", "error", err)
	}
}
