package cmd

import (
	"fmt"

	"github.com/PolarWolf314/vault/internal/ui"
	"github.com/PolarWolf314/vault/internal/utils"
	"github.com/PolarWolf314/vault/internal/workflows"

	"github.com/spf13/cobra"
)

var fgetCmd = &cobra.Command{
	Use:   "fget [pattern]",
	Short: "Decrypts matching secrets into the staging directory",
	Long: `Decrypts every secret matching the pattern into the staging directory
(vault-unlock/ by default), one file per path, so they can be edited with
any tool. Run fset to encrypt the edits back and fclr to discard them.

Examples:
  vault fget
  vault fget 'db/**'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pat := patternArg(args)
		Logger.Infof("Starting fget command with pattern %q", pat)

		s, err := openSession(true, false)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		// Deferred before the spinner so it prints after the summary.
		staged := 0
		unlockDir := s.Settings().UnlockDir
		defer func() {
			if staged > 0 {
				Logger.WarnfAlways("%s of plaintext now in %s; run 'vault fset' to save or 'vault fclr' to discard",
					utils.Plural(staged, "secret"), unlockDir)
			}
		}()

		spinner, cleanup := startSpinner("Decrypting secrets...")
		defer cleanup()

		result, err := workflows.Unlock(cmd.Context(), s, pat)
		if err != nil {
			spinner.FinalMSG = ui.Mark(false) + " Failed to decrypt secrets"
			return explain(err)
		}
		staged = len(result.Succeeded)

		spinner.FinalMSG = batchSummary(result, "Decrypted", "into "+ui.Path.Sprint(s.Settings().UnlockDir))
		return batchErr(result)
	},
}

var fsetCmd = &cobra.Command{
	Use:   "fset [pattern]",
	Short: "Encrypts staged files back into the vault",
	Long: `Encrypts every staged file matching the pattern back into the vault and
removes it from the staging directory. An empty staged file removes its
secret. Files that fail stay staged.

Examples:
  vault fset
  vault fset 'db/*'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pat := patternArg(args)
		Logger.Infof("Starting fset command with pattern %q", pat)

		s, err := openSession(true, false)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		spinner, cleanup := startSpinner("Encrypting staged files...")
		defer cleanup()

		result, err := workflows.Relock(cmd.Context(), s, pat)
		if err != nil {
			spinner.FinalMSG = ui.Mark(false) + " Failed to encrypt staged files"
			return explain(err)
		}

		spinner.FinalMSG = batchSummary(result, "Encrypted", "into "+ui.Path.Sprint(s.Settings().LockDir))
		return batchErr(result)
	},
}

var fclrCmd = &cobra.Command{
	Use:   "fclr [pattern]",
	Short: "Deletes staged files without saving them",
	Long: `Deletes every staged file matching the pattern. The vault is not
touched and no password is needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pat := patternArg(args)
		Logger.Infof("Starting fclr command with pattern %q", pat)

		s, err := openSession(false, false)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		result, err := workflows.ClearStaged(cmd.Context(), s, pat)
		if err != nil {
			return explain(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), batchSummary(result, "Cleared", "from "+ui.Path.Sprint(s.Settings().UnlockDir)))
		return batchErr(result)
	},
}

func patternArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// batchSummary lists the paths a batch processed and the ones it could not.
func batchSummary(result *workflows.BatchResult, verb, where string) string {
	msg := ""
	if len(result.Succeeded) > 0 {
		msg = ui.Mark(true) + " " + verb + " " + utils.Plural(len(result.Succeeded), "secret") + " " + where + ":" +
			utils.FormatPaths(result.Succeeded)
	}
	if len(result.Failed) > 0 {
		paths := make([]string, len(result.Failed))
		errs := make([]error, len(result.Failed))
		for i, f := range result.Failed {
			paths[i] = f.Path
			errs[i] = f.Err
		}
		msg += ui.Mark(false) + " " + utils.Plural(len(result.Failed), "secret") + " failed:" +
			utils.FormatFailures(paths, errs)
	}
	return msg
}

func batchErr(result *workflows.BatchResult) error {
	err := result.Err()
	if err == nil {
		return nil
	}
	return &userError{
		msg: fmt.Sprintf("%s failed", utils.Plural(len(result.Failed), "path")),
		err: err,
	}
}
