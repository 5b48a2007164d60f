package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hlop3z/oraddl/internal/ui"
)

// browseCmd opens the generated commands in the terminal browser.
func browseCmd() *cobra.Command {
	var (
		scriptPath string
		noVerify   bool
	)

	cmd := &cobra.Command{
		Use:   "browse [plans...]",
		Short: "Browse the generated commands",
		Long: `Browse the generated commands one at a time.

Without a terminal the commands are printed with their checksums.`,
		Example: `  oraddl browse
  oraddl browse --script build/idempotent.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   *build
				err error
			)
			if scriptPath != "" {
				b, err = buildFromScript(scriptPath, !noVerify)
			} else {
				cfg, cerr := loadConfig(cmd.Flags())
				if cerr != nil {
					return cerr
				}
				b, err = buildFromPlans(cmd.Context(), cfg, args)
			}
			if err != nil {
				return err
			}

			title := b.Name + "  " + ui.FormatCount(len(b.Commands), "command", "commands")
			if !ui.IsTerminal(os.Stdout) {
				return ui.WriteItems(cmd.OutOrStdout(), title, b.browseItems())
			}
			return ui.Browse(title, b.browseItems())
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", FlagDescScript)
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, FlagDescNoVerify)
	return cmd
}
