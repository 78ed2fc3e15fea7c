package cmd

import (
	"fmt"

	"github.com/PolarWolf314/vault/internal/secrets"
	"github.com/PolarWolf314/vault/internal/ui"
	"github.com/PolarWolf314/vault/internal/utils"
	"github.com/PolarWolf314/vault/internal/workflows"

	"github.com/spf13/cobra"
)

// stdinReader reads a secret value piped to set. Replaced in tests.
var stdinReader = utils.ReadStdin

var setCmd = &cobra.Command{
	Use:   "set <path> [value]",
	Short: "Encrypts and stores a secret at a path",
	Long: `Encrypts a value and stores it at a path. When the value is omitted
it is read from stdin. An empty value removes the secret.

Examples:
  vault set db/prod 'postgres://...'
  vault set db/prod < prod.env`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		Logger.Infof("Starting set command for %s", path)

		var value []byte
		fromStdin := len(args) == 1
		if fromStdin {
			var err error
			value, err = stdinReader()
			if err != nil {
				return Logger.ErrorfAndReturn("%v", err)
			}
		} else {
			value = []byte(args[1])
		}
		defer secrets.Zero(value)

		s, err := openSession(true, fromStdin)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		result, err := workflows.Set(cmd.Context(), s, path, value)
		if err != nil {
			return explain(err)
		}

		switch {
		case result.Removed:
			fmt.Fprintln(cmd.OutOrStdout(), ui.Mark(true) + " Removed " + ui.Path.Sprint(path))
		case len(value) == 0:
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warning.Sprint("⚠") + " Nothing stored at " + ui.Path.Sprint(path) + "; empty value ignored")
		case result.Created:
			fmt.Fprintln(cmd.OutOrStdout(), ui.Mark(true) + " Stored " + ui.Path.Sprint(path))
		default:
			fmt.Fprintln(cmd.OutOrStdout(), ui.Mark(true) + " Updated " + ui.Path.Sprint(path))
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Removes the secret stored at a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		Logger.Infof("Starting rm command for %s", path)

		s, err := openSession(true, false)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		result, err := workflows.Remove(cmd.Context(), s, path)
		if err != nil {
			return explain(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Mark(true) + " Removed " + ui.Path.Sprint(path))
		if result.FileDeleted {
			Logger.Infof("Deleted empty vault file %s", result.File)
		}
		return nil
	},
}
