package cmd

import (
	"github.com/PolarWolf314/vault/internal/ui"
	"github.com/PolarWolf314/vault/internal/utils"
	"github.com/PolarWolf314/vault/internal/workflows"

	"github.com/spf13/cobra"
)

var zipOutput string

func init() {
	zipCmd.Flags().StringVarP(&zipOutput, "output", "o", "", "archive to write (default vault-backup-YYYY-MM-DD.zip)")
}

func resetZipCommandState() {
	zipOutput = ""
}

var zipCmd = &cobra.Command{
	Use:   "zip",
	Short: "Backs up every vault file into a zip archive",
	Long: `Packs every encrypted vault file into a zip archive. The files stay
encrypted, so no password is needed. Restore by unzipping into the vault
directory.

Examples:
  vault zip
  vault zip -o backups/today.zip`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting zip command")

		s, err := openSession(false, false)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		spinner, cleanup := startSpinner("Writing backup...")
		defer cleanup()

		result, err := workflows.Backup(cmd.Context(), s, zipOutput)
		if err != nil {
			spinner.FinalMSG = ui.Mark(false) + " Failed to write backup"
			return explain(err)
		}

		spinner.FinalMSG = ui.Mark(true) + " Backed up " + utils.Plural(len(result.Files), "vault file") +
			" to " + ui.Path.Sprint(result.OutputPath) + ":" + utils.FormatPaths(result.Files)
		return nil
	},
}
