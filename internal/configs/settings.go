package configs

import (
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/vault/internal/secrets"
	"github.com/PolarWolf314/vault/internal/utils"
)

// Settings are the resolved paths and options for one working directory.
type Settings struct {
	WorkDir      string
	ConfigPath   string
	LockDir      string
	UnlockDir    string
	AuditPath    string
	AuditEnabled bool
	KDF          secrets.KDFParams
	Username     string
}

// AuditFileName is the audit log kept beside the vault files.
const AuditFileName = "audit.jsonl"

// InitSettings loads vault.toml from workDir and resolves every path
// against it.
func InitSettings(workDir string) (*Settings, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("error resolving working directory: %w", err)
	}

	config, err := LoadConfig(absDir)
	if err != nil {
		return nil, err
	}
	return NewSettings(absDir, config)
}

// NewSettings resolves config against workDir.
func NewSettings(workDir string, config *Config) (*Settings, error) {
	params, err := config.KDFParams()
	if err != nil {
		return nil, err
	}

	username, err := utils.GetUsername()
	if err != nil {
		username = "unknown"
	}

	lockDir := resolve(workDir, config.Storage.LockDir)
	return &Settings{
		WorkDir:      workDir,
		ConfigPath:   filepath.Join(workDir, FileName),
		LockDir:      lockDir,
		UnlockDir:    resolve(workDir, config.Storage.UnlockDir),
		AuditPath:    filepath.Join(lockDir, AuditFileName),
		AuditEnabled: config.Audit.Enabled,
		KDF:          params,
		Username:     username,
	}, nil
}

func resolve(workDir, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(workDir, dir)
}
