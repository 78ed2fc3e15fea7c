package cmd

import (
	"fmt"
	"io"

	"github.com/PolarWolf314/vault/internal/integrity"
	"github.com/PolarWolf314/vault/internal/ui"
	"github.com/PolarWolf314/vault/internal/utils"
	"github.com/PolarWolf314/vault/internal/workflows"

	"github.com/spf13/cobra"
)

var crcForceUpdate bool

func init() {
	crcCmd.Flags().BoolVar(&crcForceUpdate, "force-update", false, "rewrite mismatched and missing checksums to match the stored ciphertext")
}

func resetCrcCommandState() {
	crcForceUpdate = false
}

var crcCmd = &cobra.Command{
	Use:   "crc",
	Short: "Checks the integrity of every vault file",
	Long: `Recomputes the CRC-32C checksum of every stored secret and compares it
with the recorded one. No password is needed: only ciphertext is checked.

Exits non-zero when any checksum is missing or does not match. With
--force-update the recorded checksums are rewritten instead; use it only
after confirming the ciphertext is the one you want.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting crc command (force-update=%t)", crcForceUpdate)

		s, err := openSession(false, false)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		report, err := workflows.Verify(cmd.Context(), s, crcForceUpdate)
		if err != nil {
			return explain(err)
		}

		printVerifyReport(cmd.OutOrStdout(), report)
		return explain(report.Err())
	},
}

func printVerifyReport(w io.Writer, report *workflows.VerifyReport) {
	for _, f := range report.Files {
		if f.Err != nil {
			fmt.Fprintf(w, "%s %s: %s\n", ui.Mark(false), ui.Path.Sprint(f.File), ui.Error.Sprint(f.Err))
			continue
		}
		for _, e := range f.Entries {
			line := fmt.Sprintf("%s %s", ui.Mark(e.Status == integrity.OK), e.Path)
			if e.Status != integrity.OK {
				line += " " + ui.Muted.Sprint(e.Status.String())
			}
			fmt.Fprintln(w, line)
		}
		if f.Updated > 0 {
			fmt.Fprintf(w, "%s Updated %s in %s\n", ui.Info.Sprint("→"), utils.Plural(f.Updated, "checksum"), ui.Path.Sprint(f.File))
		}
	}

	counts := report.Counts()
	fmt.Fprintf(w, "%d ok, %d mismatched, %d without checksum\n",
		counts[integrity.OK], counts[integrity.Mismatch], counts[integrity.MissingChecksum])
}
