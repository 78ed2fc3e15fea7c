package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/PolarWolf314/vault/internal/configs"
	logger "github.com/PolarWolf314/vault/internal/logging"
	"github.com/PolarWolf314/vault/internal/ui"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose       bool
	debug         bool
	passwordStdin bool
	workDir       string
	Logger        logger.Logger

	RootCmd = &cobra.Command{
		Use:   "vault",
		Short: "A local, file-backed encrypted secret store",
		Long: `Stores secrets under hierarchical paths such as db/prod in encrypted
vault files in the working directory.

Secrets are encrypted with XChaCha20-Poly1305. Paths sharing a first segment
share a vault file, so db/prod and db/staging live in vault-lock/ns-db.vlt.

Use fget to decrypt secrets into vault-unlock/ for editing, fset to encrypt
them back and fclr to discard the plaintext.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println()
			figure.NewColorFigure("vault", "alligator2", "green", true).Print()
			fmt.Println()
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("vault --help") + " to see available commands")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	RootCmd.PersistentFlags().StringVarP(&workDir, "chdir", "C", ".", "working directory holding vault.toml and the vault directories")

	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(setCmd)
	RootCmd.AddCommand(rmCmd)
	RootCmd.AddCommand(lsCmd)
	RootCmd.AddCommand(fgetCmd)
	RootCmd.AddCommand(fsetCmd)
	RootCmd.AddCommand(fclrCmd)
	RootCmd.AddCommand(crcCmd)
	RootCmd.AddCommand(zipCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// Execute runs the root command. An interrupt cancels the running
// operation between files.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

// loadSettings resolves vault.toml in the working directory.
func loadSettings() (*configs.Settings, error) {
	Logger.Debugf("Loading settings from %s", workDir)
	settings, err := configs.InitSettings(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	Logger.Debugf("Vault directory: %s, staging directory: %s", settings.LockDir, settings.UnlockDir)
	return settings, nil
}

// ResetGlobalState resets all global flag variables to their defaults for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	passwordStdin = false
	workDir = "."
	resetLsCommandState()
	resetCrcCommandState()
	resetZipCommandState()
	resetLogCommandState()
	resetConfigInitState()
	configShowJSON = false
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed mark on every flag so one test's
// flags do not leak into the next.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}
