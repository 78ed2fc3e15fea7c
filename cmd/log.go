package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PolarWolf314/vault/internal/audit"
	"github.com/PolarWolf314/vault/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logUser      string
	logOperation string
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by user name")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation (comma-separated, e.g. set,rm)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries on or after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries on or before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logUser = ""
	logOperation = ""
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Shows the audit log",
	Long: `Shows who changed or exported which secrets, and when. The log lives
beside the vault files and never contains secret values.

Examples:
  vault log
  vault log -n 10 --reverse
  vault log --operation set,rm --since 2026-01-01
  vault log --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")

		s, err := openSession(false, false)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		result, err := workflows.Log(cmd.Context(), s, workflows.LogOptions{
			Limit:      logLimit,
			Reverse:    logReverse,
			User:       logUser,
			Operations: logOperation,
			Since:      logSince,
			Until:      logUntil,
		})
		if err != nil {
			return explain(err)
		}
		Logger.Debugf("Read %d entries, %d after filtering", result.Total, len(result.Entries))

		out := cmd.OutOrStdout()
		if logJSON {
			return outputLogJSON(out, result.Entries)
		}

		if len(result.Entries) == 0 {
			if result.Total == 0 {
				fmt.Fprintln(out, "No audit log entries found.")
			} else {
				fmt.Fprintln(out, "No audit log entries found matching the filters.")
			}
			return nil
		}

		for _, e := range result.Entries {
			fmt.Fprintf(out, "%-19s  %-16s  %-5s  %s\n",
				workflows.FormatDateTime(e), e.User, e.Operation, workflows.FormatDetails(e))
		}
		return nil
	},
}

func outputLogJSON(w io.Writer, entries []audit.Entry) error {
	if entries == nil {
		entries = []audit.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
