package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hlop3z/oraddl/internal/cli"
	"github.com/hlop3z/oraddl/internal/journal"
	"github.com/hlop3z/oraddl/internal/ui"
)

// historyCmd lists recorded applies, newest first.
func historyCmd() *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded applies",
		Example: `  oraddl history
  oraddl history --limit 5 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			j, err := journal.Open(cfg.JournalDir)
			if err != nil {
				return err
			}
			defer j.Close()

			w := cmd.OutOrStdout()
			if clearAll {
				if err := j.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(w, ui.Success("Journal cleared"))
				return nil
			}

			entries, err := j.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if cli.Default().IsJSON() {
				return cli.WriteJSON(w, historyJSON(entries))
			}
			if len(entries) == 0 {
				fmt.Fprintln(w, ui.Dim(MsgNoHistory))
				return nil
			}

			table := ui.NewStyledTable("ID", "APPLIED", "STATUS", "COMMANDS", "ROOT", "REVISION", "TARGET", "DURATION")
			for _, e := range entries {
				root := e.Root
				if len(root) > 12 {
					root = root[:12]
				}
				table.AddRow(
					strconv.FormatInt(e.ID, 10),
					ui.FormatTimestamp(e.AppliedAt),
					statusLabel(e.Status),
					fmt.Sprintf("%d/%d", e.Executed, e.Commands),
					root,
					e.Revision,
					e.Target,
					ui.FormatDuration(e.Duration),
				)
			}
			fmt.Fprintln(w, ui.RenderTitle(TitleHistory))
			fmt.Fprint(w, table.String())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all recorded applies")
	return cmd
}

func statusLabel(s journal.Status) string {
	switch s {
	case journal.StatusApplied:
		return ui.Success(string(s))
	case journal.StatusFailed:
		return ui.Failed(string(s))
	}
	return ui.Dim(string(s))
}

func historyJSON(entries []*journal.Entry) []map[string]any {
	out := make([]map[string]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{
			"id":          e.ID,
			"applied_at":  e.AppliedAt,
			"status":      string(e.Status),
			"script":      e.Script,
			"target":      e.Target,
			"root":        e.Root,
			"revision":    e.Revision,
			"commands":    e.Commands,
			"executed":    e.Executed,
			"duration_ms": e.Duration.Milliseconds(),
			"error":       e.Error,
		}
	}
	return out
}
