package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/chain"
	"github.com/hlop3z/oraddl/internal/cli"
	"github.com/hlop3z/oraddl/internal/script"
)

// verifyCmd checks a generated script against its lockfile.
func verifyCmd() *cobra.Command {
	var showChain bool

	cmd := &cobra.Command{
		Use:   "verify <script>",
		Short: "Check a generated script against its lockfile",
		Long: `Check a generated script against its lockfile.

Every command is hashed together with the checksum of the command before it,
so editing, removing or reordering a command is reported. The exit status is
non-zero when the script does not match.`,
		Example: `  oraddl verify build/idempotent.sql
  oraddl verify build/idempotent.sql --chain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			texts, err := script.ReadFile(path)
			if err != nil {
				return err
			}
			ch, err := chain.ComputeTexts(texts)
			if err != nil {
				return err
			}

			lockPath := chain.LockPath(path)
			lock, err := chain.ReadLock(lockPath)
			if err != nil {
				return err
			}
			if lock == nil {
				return alerr.New(alerr.ErrScriptChecksum, "lockfile not found").
					WithFile(lockPath, 0).
					WithHelp("regenerate the script with `oraddl generate`")
			}

			result := ch.Verify(lock)
			w := cmd.OutOrStdout()
			if cli.Default().IsJSON() {
				if err := cli.WriteJSON(w, verifyJSON(path, result)); err != nil {
					return err
				}
				return result.Err()
			}

			fmt.Fprint(w, chain.FormatVerificationResult(result))
			if showChain {
				for i := range ch.Links {
					if i < len(lock.Commands) {
						ch.Links[i].Kind = lock.Commands[i].Kind
					}
				}
				fmt.Fprint(w, "\n"+chain.FormatChain(ch))
			}
			return result.Err()
		},
	}

	cmd.Flags().BoolVar(&showChain, "chain", false, "Also list every command checksum")
	return cmd
}

// verifyJSON is the machine-readable form of a verification result.
func verifyJSON(path string, r *chain.VerificationResult) map[string]any {
	errs := make([]map[string]any, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = map[string]any{
			"type":    e.Type.String(),
			"index":   e.Index,
			"message": e.Message,
		}
	}
	return map[string]any{
		"script":    path,
		"valid":     r.Valid,
		"verified":  r.Verified,
		"root":      r.Root,
		"lock_root": r.LockRoot,
		"errors":    errs,
	}
}
