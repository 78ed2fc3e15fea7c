package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PolarWolf314/vault/internal/configs"
	"github.com/PolarWolf314/vault/internal/ui"

	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Displays the effective settings",
	Long: `Displays the settings in effect for the working directory: the values
from vault.toml, or the defaults for anything it does not set.

Examples:
  vault config show
  vault config show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return explain(err)
		}

		if configShowJSON {
			return outputSettingsJSON(cmd.OutOrStdout(), settings)
		}
		printSettings(cmd.OutOrStdout(), settings)
		return nil
	},
}

type settingsJSON struct {
	WorkDir   string `json:"work_dir"`
	Config    string `json:"config"`
	LockDir   string `json:"lock_dir"`
	UnlockDir string `json:"unlock_dir"`
	Audit     string `json:"audit_log,omitempty"`
	KDF       struct {
		Algorithm string `json:"algorithm"`
		Time      uint32 `json:"time,omitempty"`
		MemoryKiB uint32 `json:"memory_kib,omitempty"`
		Threads   uint8  `json:"threads,omitempty"`
	} `json:"kdf"`
}

func outputSettingsJSON(w io.Writer, s *configs.Settings) error {
	out := settingsJSON{
		WorkDir:   s.WorkDir,
		Config:    s.ConfigPath,
		LockDir:   s.LockDir,
		UnlockDir: s.UnlockDir,
	}
	if s.AuditEnabled {
		out.Audit = s.AuditPath
	}
	out.KDF.Algorithm = s.KDF.Algorithm.String()
	out.KDF.Time = s.KDF.Time
	out.KDF.MemoryKiB = s.KDF.Memory
	out.KDF.Threads = s.KDF.Threads

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return Logger.ErrorfAndReturn("failed to marshal settings: %v", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printSettings(w io.Writer, s *configs.Settings) {
	fmt.Fprintln(w, ui.Info.Sprint("Vault settings"))
	fmt.Fprintf(w, "  Working directory: %s\n", ui.Path.Sprint(s.WorkDir))
	fmt.Fprintf(w, "  Config file:       %s\n", ui.Path.Sprint(s.ConfigPath))
	fmt.Fprintf(w, "  Vault directory:   %s\n", ui.Path.Sprint(s.LockDir))
	fmt.Fprintf(w, "  Staging directory: %s\n", ui.Path.Sprint(s.UnlockDir))
	if s.AuditEnabled {
		fmt.Fprintf(w, "  Audit log:         %s\n", ui.Path.Sprint(s.AuditPath))
	} else {
		fmt.Fprintf(w, "  Audit log:         %s\n", ui.Muted.Sprint("disabled"))
	}

	fmt.Fprintf(w, "  Key derivation:    %s", ui.Code.Sprint(s.KDF.Algorithm.String()))
	if s.KDF.Time > 0 {
		fmt.Fprintf(w, " (time=%d, memory=%d KiB, threads=%d)", s.KDF.Time, s.KDF.Memory, s.KDF.Threads)
	}
	fmt.Fprintln(w)
}
