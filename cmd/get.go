package cmd

import (
	"github.com/PolarWolf314/vault/internal/secrets"
	"github.com/PolarWolf314/vault/internal/workflows"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Prints the secret stored at a path",
	Long: `Decrypts the secret stored at a path and writes it to stdout exactly
as stored, without a trailing newline.

Examples:
  vault get db/prod
  vault get db/prod > prod.env`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		Logger.Infof("Starting get command for %s", path)

		s, err := openSession(true, false)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		contents, err := workflows.Get(cmd.Context(), s, path)
		if err != nil {
			return explain(err)
		}
		defer secrets.Zero(contents)

		if _, err := cmd.OutOrStdout().Write(contents); err != nil {
			return Logger.ErrorfAndReturn("failed to write secret: %v", err)
		}
		Logger.Infof("Get command completed for %s", path)
		return nil
	},
}
