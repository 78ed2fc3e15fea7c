package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd groups the configuration commands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vault.toml",
	Long: `Creates and inspects vault.toml, the configuration file in the working
directory. Without it the defaults apply.`,
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}
