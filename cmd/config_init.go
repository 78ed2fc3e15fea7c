package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/vault/internal/configs"
	"github.com/PolarWolf314/vault/internal/ui"

	"github.com/spf13/cobra"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing vault.toml")
}

func resetConfigInitState() {
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes vault.toml with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(workDir)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve working directory: %v", err)
		}
		path := filepath.Join(dir, configs.FileName)
		Logger.Debugf("Writing default config to %s", path)

		if _, err := os.Stat(path); err == nil && !configInitForce {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Mark(false)+" "+ui.Path.Sprint(path)+" already exists")
			fmt.Fprintln(cmd.OutOrStdout(), ui.Info.Sprint("→")+" Use "+ui.Flag.Sprint("--force")+" to overwrite it")
			return nil
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Logger.ErrorfAndReturn("failed to check %s: %v", path, err)
		}

		if err := configs.SaveConfig(dir, configs.DefaultConfig()); err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Mark(true)+" Wrote "+ui.Path.Sprint(path))
		return nil
	},
}
