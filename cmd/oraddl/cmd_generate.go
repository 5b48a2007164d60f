package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hlop3z/oraddl/internal/chain"
	"github.com/hlop3z/oraddl/internal/cli"
	"github.com/hlop3z/oraddl/internal/script"
	"github.com/hlop3z/oraddl/internal/ui"
)

// generateCmd writes the idempotent script and its lockfile.
func generateCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "generate [plans...]",
		Short: "Generate the idempotent script from plan files",
		Long: `Generate the idempotent script from plan files.

Plan files (.yaml, .yml, .json, .js) are loaded in name order and their
operations compiled into PL/SQL blocks. The script is written together with a
lockfile holding the checksum of every command.`,
		Example: `  # Generate from ./plans into ./build/idempotent.sql
  oraddl generate

  # Generate specific files to stdout
  oraddl generate plans/001_users.yaml plans/002_orders.js -o -

  # Regenerate on every plan change
  oraddl generate --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			if !watch {
				return runGenerate(cmd.Context(), cmd.OutOrStdout(), cfg, args)
			}

			dirs := args
			if len(dirs) == 0 {
				dirs = []string{cfg.PlansDir}
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Info(fmt.Sprintf(MsgWatching, strings.Join(dirs, ", "))))
			return watchPlans(cmd.Context(), dirs, func() {
				if err := runGenerate(cmd.Context(), cmd.OutOrStdout(), cfg, args); err != nil {
					fmt.Fprint(cmd.ErrOrStderr(), cli.FormatError(err))
				}
			})
		},
	}

	cmd.Flags().StringP("output", "o", DefaultOutput, "Script path, or - for stdout")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate when plan files change")
	return cmd
}

// runGenerate builds the script and writes it with its lockfile.
func runGenerate(ctx context.Context, w io.Writer, cfg *Config, args []string) error {
	b, err := buildFromPlans(ctx, cfg, args)
	if err != nil {
		return err
	}

	if cfg.Output == StdoutPath {
		_, err := io.WriteString(w, script.Render(b.Texts()))
		for _, msg := range b.skippedWarnings() {
			fmt.Fprint(os.Stderr, cli.FormatWarning(msg))
		}
		return err
	}

	if err := script.WriteFile(cfg.Output, b.Texts()); err != nil {
		return err
	}
	lockPath := chain.LockPath(cfg.Output)
	if err := chain.WriteLock(lockPath, b.Chain.Lock(cfg.Output)); err != nil {
		return err
	}

	if cli.Default().IsJSON() {
		return cli.WriteJSON(w, map[string]any{
			"script":   cfg.Output,
			"lockfile": lockPath,
			"sources":  b.Sources,
			"commands": len(b.Commands),
			"skipped":  len(b.Skipped),
			"root":     b.Chain.Root,
			"revision": b.Revision,
		})
	}

	content := ui.FormatKeyValue("Script", cfg.Output) + "\n" +
		ui.FormatKeyValue("Lockfile", lockPath) + "\n" +
		ui.FormatKeyValue("Plans", ui.FormatCount(len(b.Sources), "file", "files")) + "\n" +
		ui.FormatKeyValue("Commands", ui.FormatCount(len(b.Commands), "command", "commands")) + "\n" +
		ui.FormatKeyValue("Root", b.Chain.ShortRoot())
	if b.Revision != "" {
		content += "\n" + ui.FormatKeyValue("Revision", b.Revision)
	}

	if len(b.Skipped) > 0 {
		list := ui.NewList()
		for _, msg := range b.skippedWarnings() {
			list.AddWarning(msg)
		}
		fmt.Fprintln(w, ui.RenderWarningPanel(TitleScriptGenerated, content+"\n\n"+list.String()))
		return nil
	}
	fmt.Fprintln(w, ui.RenderSuccessPanel(TitleScriptGenerated, content))
	return nil
}
