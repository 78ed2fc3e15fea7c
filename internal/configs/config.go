package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/vault/internal/secrets"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "vault.toml"

type Config struct {
	Storage StorageConfig `toml:"storage"`
	KDF     KDFConfig     `toml:"kdf"`
	Audit   AuditConfig   `toml:"audit"`
}

type StorageConfig struct {
	LockDir   string `toml:"lock_dir"`
	UnlockDir string `toml:"unlock_dir"`
}

// KDFConfig selects how passwords are bound to keys for new vault files.
// Existing files keep the parameters recorded in their header.
type KDFConfig struct {
	Algorithm string `toml:"algorithm"`
	Time      uint32 `toml:"time"`
	MemoryKiB uint32 `toml:"memory_kib"`
	Threads   uint8  `toml:"threads"`
}

type AuditConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no vault.toml exists.
func DefaultConfig() *Config {
	params := secrets.DefaultKDFParams()
	return &Config{
		Storage: StorageConfig{
			LockDir:   "vault-lock",
			UnlockDir: "vault-unlock",
		},
		KDF: KDFConfig{
			Algorithm: params.Algorithm.String(),
			Time:      params.Time,
			MemoryKiB: params.Memory,
			Threads:   params.Threads,
		},
		Audit: AuditConfig{Enabled: true},
	}
}

// LoadConfig reads vault.toml from workDir. A missing file yields the
// defaults, and keys absent from the file keep their default values.
func LoadConfig(workDir string) (*Config, error) {
	config := DefaultConfig()
	configPath := filepath.Join(workDir, FileName)

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig writes config to vault.toml in workDir.
func SaveConfig(workDir string, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(filepath.Join(workDir, FileName), config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks the configuration can be used.
func (c *Config) Validate() error {
	if c.Storage.LockDir == "" {
		return fmt.Errorf("storage.lock_dir must not be empty")
	}
	if c.Storage.UnlockDir == "" {
		return fmt.Errorf("storage.unlock_dir must not be empty")
	}
	if filepath.Clean(c.Storage.LockDir) == filepath.Clean(c.Storage.UnlockDir) {
		return fmt.Errorf("storage.lock_dir and storage.unlock_dir must differ")
	}
	if _, err := c.KDFParams(); err != nil {
		return err
	}
	return nil
}

// KDFParams converts the [kdf] table into key binding parameters.
func (c *Config) KDFParams() (secrets.KDFParams, error) {
	algorithm, err := secrets.ParseKDF(c.KDF.Algorithm)
	if err != nil {
		return secrets.KDFParams{}, err
	}
	if algorithm == secrets.KDFPadded {
		return secrets.PaddedKDFParams(), nil
	}

	params := secrets.KDFParams{
		Algorithm: algorithm,
		Time:      c.KDF.Time,
		Memory:    c.KDF.MemoryKiB,
		Threads:   c.KDF.Threads,
	}
	if err := params.Validate(); err != nil {
		return secrets.KDFParams{}, err
	}
	return params, nil
}
