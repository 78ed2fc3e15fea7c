package cmd

import (
	"fmt"

	"github.com/PolarWolf314/vault/internal/ui"
	"github.com/PolarWolf314/vault/internal/utils"
	"github.com/PolarWolf314/vault/internal/workflows"

	"github.com/spf13/cobra"
)

var lsDir bool

func init() {
	lsCmd.Flags().BoolVar(&lsDir, "dir", false, "list the entries directly below a prefix instead of matching a pattern")
}

func resetLsCommandState() {
	lsDir = false
}

var lsCmd = &cobra.Command{
	Use:   "ls [pattern]",
	Short: "Lists stored paths",
	Long: `Lists every stored path matching a glob pattern, one per line. '*'
matches within a path segment and '**' across segments. Without a pattern
every path is listed.

With --dir the argument is a prefix and only the entries directly below it
are shown; nested entries end in '/'.

Examples:
  vault ls
  vault ls 'db/*'
  vault ls --dir db`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		Logger.Infof("Starting ls command with %q (dir=%t)", arg, lsDir)

		s, err := openSession(true, false)
		if err != nil {
			return explain(err)
		}
		defer s.Close()

		var lines []string
		var failed []workflows.PathError
		if lsDir {
			result, err := workflows.Explore(cmd.Context(), s, arg)
			if err != nil {
				return explain(err)
			}
			lines, failed = result.Children, result.Failed
		} else {
			result, err := workflows.List(cmd.Context(), s, arg)
			if err != nil {
				return explain(err)
			}
			lines, failed = result.Paths, result.Failed
		}

		for _, line := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		Logger.Infof("Listed %d entries", len(lines))

		// Unreadable files go to stderr, after the paths.
		for _, f := range failed {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Mark(false)+" "+ui.Path.Sprint(f.Path)+": "+ui.Error.Sprint(f.Err))
		}
		if len(failed) > 0 {
			return &userError{
				msg: fmt.Sprintf("%s could not be read", utils.Plural(len(failed), "vault file")),
				err: failed[0],
			}
		}
		return nil
	},
}
