package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/oraddl/internal/ast"
	"github.com/hlop3z/oraddl/internal/cli"
	"github.com/hlop3z/oraddl/internal/plan"
	"github.com/hlop3z/oraddl/internal/ui"
)

// kindsCmd lists the supported operation kinds and how plans name them.
func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List supported operation kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			kinds := ast.AllOpTypes()

			if cli.Default().IsJSON() {
				out := make([]map[string]string, len(kinds))
				for i, k := range kinds {
					out[i] = map[string]string{"kind": k.String(), "key": k.Key(), "js": plan.JSName(k)}
				}
				return cli.WriteJSON(w, out)
			}

			table := ui.NewStyledTable("KIND", "PLAN KEY", "JS FUNCTION")
			for _, k := range kinds {
				table.AddRow(k.String(), k.Key(), plan.JSName(k))
			}
			fmt.Fprintln(w, ui.RenderTitle(TitleKinds))
			fmt.Fprint(w, table.String())
			return nil
		},
	}
}
