package workflows

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/vault/internal/audit"
	"github.com/PolarWolf314/vault/internal/configs"
	"github.com/PolarWolf314/vault/internal/index"
	logger "github.com/PolarWolf314/vault/internal/logging"
	"github.com/PolarWolf314/vault/internal/secrets"
	"github.com/PolarWolf314/vault/internal/staging"
	"github.com/PolarWolf314/vault/internal/vaultfile"

	"github.com/google/uuid"
)

// Session carries the password and resolved settings for one invocation.
// Always Close a session; it zeroes the password and every derived key.
type Session struct {
	settings *configs.Settings
	log      logger.Logger
	index    *index.Index
	staging  *staging.Area

	password []byte
	keys     map[uuid.UUID]cachedKey
}

type cachedKey struct {
	kdf  secrets.KDFParams
	salt []byte
	key  *secrets.Key
}

// NewSession copies password into the session. A nil password is allowed
// for operations that never decrypt (fclr, crc, zip); those that do fail
// with ErrEmptyPassword.
func NewSession(settings *configs.Settings, password []byte, log logger.Logger) *Session {
	s := &Session{
		settings: settings,
		log:      log,
		index:    index.New(settings.LockDir),
		staging:  staging.New(settings.UnlockDir),
		keys:     make(map[uuid.UUID]cachedKey),
	}
	if password != nil {
		s.password = append([]byte(nil), password...)
	}
	return s
}

// Close zeroes the password and destroys cached keys.
func (s *Session) Close() {
	secrets.Zero(s.password)
	s.password = nil
	for id, c := range s.keys {
		c.key.Destroy()
		delete(s.keys, id)
	}
}

// Settings returns the settings the session runs with.
func (s *Session) Settings() *configs.Settings {
	return s.settings
}

// key returns the key for f after checking it against the file's
// validation token. Derived keys are cached per file ID.
func (s *Session) key(f *vaultfile.File) (*secrets.Key, error) {
	if c, ok := s.keys[f.ID]; ok && c.kdf == f.KDF && bytes.Equal(c.salt, f.Salt) {
		if err := f.CheckKey(c.key); err != nil {
			return nil, err
		}
		return c.key, nil
	}

	key, err := f.DeriveKey(s.password)
	if err != nil {
		return nil, err
	}
	if err := f.CheckKey(key); err != nil {
		key.Destroy()
		return nil, err
	}

	s.cache(f, key)
	return key, nil
}

// newFile creates and seals an empty vault file with the session password.
func (s *Session) newFile() (*vaultfile.File, *secrets.Key, error) {
	f, err := vaultfile.New(s.settings.KDF)
	if err != nil {
		return nil, nil, fmt.Errorf("creating vault file: %w", err)
	}
	key, err := f.DeriveKey(s.password)
	if err != nil {
		return nil, nil, err
	}
	if err := f.Seal(key); err != nil {
		key.Destroy()
		return nil, nil, err
	}
	s.cache(f, key)
	return f, key, nil
}

func (s *Session) cache(f *vaultfile.File, key *secrets.Key) {
	if old, ok := s.keys[f.ID]; ok && old.key != key {
		old.key.Destroy()
	}
	s.keys[f.ID] = cachedKey{kdf: f.KDF, salt: append([]byte(nil), f.Salt...), key: key}
}

func (s *Session) auditEntry(op string) audit.Entry {
	return audit.NewEntry(op, s.settings.Username)
}

func (s *Session) audit(entry audit.Entry) {
	if !s.settings.AuditEnabled {
		return
	}
	audit.Log(s.settings.AuditPath, entry)
}

// rel returns file relative to the working directory for display.
func (s *Session) rel(file string) string {
	if r, err := filepath.Rel(s.settings.WorkDir, file); err == nil {
		return filepath.ToSlash(r)
	}
	return file
}
