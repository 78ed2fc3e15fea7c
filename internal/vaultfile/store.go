package vaultfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	verrors "github.com/PolarWolf314/vault/internal/errors"

	"github.com/gofrs/flock"
	"github.com/google/renameio"
)

// commit finishes an atomic write; replaced in tests to simulate a crash before rename.
var commit = (*renameio.PendingFile).CloseAtomicallyReplace

// IsVaultFile reports whether name is a vault file name (lock sidecars are not).
func IsVaultFile(name string) bool {
	return strings.HasSuffix(name, Extension) && !strings.HasPrefix(name, ".")
}

// Read loads and decodes the vault file at path.
// A missing file yields an error matching both ErrIO and fs.ErrNotExist.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vault file %s: %w: %w", path, verrors.ErrIO, err)
	}
	f, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("reading vault file %s: %w", path, err)
	}
	return f, nil
}

// Exists reports whether a vault file is present at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking vault file %s: %w: %w", path, verrors.ErrIO, err)
}

// Write replaces the vault file at path atomically: the new contents go to a
// temporary file in the same directory, are synced, then renamed over path.
// A failure at any point leaves the previous file untouched.
func Write(path string, f *File) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding vault file %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating vault directory %s: %w: %w", dir, verrors.ErrIO, err)
	}

	pending, err := renameio.TempFile(dir, path)
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w: %w", path, verrors.ErrIO, err)
	}
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("writing vault file %s: %w: %w", path, verrors.ErrIO, err)
	}
	if err := commit(pending); err != nil {
		return fmt.Errorf("replacing vault file %s: %w: %w", path, verrors.ErrIO, err)
	}
	return nil
}

// Remove deletes the vault file at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing vault file %s: %w: %w", path, verrors.ErrIO, err)
	}
	return nil
}

// LockPath returns the sidecar file used to lock the vault file at path.
func LockPath(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, "."+name+".lock")
}

// Lock takes an exclusive advisory lock for a read-modify-write of the vault
// file at path. It blocks until the lock is free.
func Lock(path string) (func(), error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating vault directory %s: %w: %w", dir, verrors.ErrIO, err)
	}

	fl := flock.New(LockPath(path))
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("locking %s: %w: %w", path, verrors.ErrIO, err)
	}
	return func() { _ = fl.Unlock() }, nil
}

// RLock takes a shared advisory lock for reading the vault file at path.
// When the vault directory does not exist there is nothing to read and no
// lock file is created.
func RLock(path string) (func(), error) {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return func() {}, nil
	}

	fl := flock.New(LockPath(path))
	if err := fl.RLock(); err != nil {
		return nil, fmt.Errorf("locking %s: %w: %w", path, verrors.ErrIO, err)
	}
	return func() { _ = fl.Unlock() }, nil
}
