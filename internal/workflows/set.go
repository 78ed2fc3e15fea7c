package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/integrity"
	"github.com/PolarWolf314/vault/internal/secrets"
	"github.com/PolarWolf314/vault/internal/vaultfile"
)

// SetResult contains the outcome of a set operation.
type SetResult struct {
	Path string

	// File is the vault file that holds Path.
	File string

	// Created is true when no entry existed at Path before.
	Created bool

	// Removed is true when empty contents deleted an existing entry.
	Removed bool
}

// Set encrypts contents and stores them at path, creating the vault file on
// first use. An existing entry keeps its position in the file.
//
// Empty contents remove the entry instead; removing a path that does not
// exist is a no-op.
//
// Returns ErrInvalidPath for a malformed path.
// Returns ErrWrongPassword if the password does not open the existing vault file.
func Set(ctx context.Context, s *Session, path string, contents []byte) (*SetResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.index.Lookup(path)
	if err != nil {
		return nil, err
	}
	result := &SetResult{Path: path, File: file}

	if len(contents) == 0 {
		removed, err := s.remove(file, path)
		if err != nil && !errors.Is(err, verrors.ErrPathNotFound) {
			return nil, err
		}
		result.Removed = removed
		if removed {
			s.logChange("set", path)
		}
		return result, nil
	}

	err = s.update(file, true, func(f *vaultfile.File, key *secrets.Key) error {
		e, err := sealEntry(key, path, contents)
		if err != nil {
			return err
		}
		integrity.Stamp(&e)
		result.Created = !f.Put(e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Stored %s in %s", path, s.rel(file))
	s.logChange("set", path)
	return result, nil
}

// RemoveResult contains the outcome of a remove operation.
type RemoveResult struct {
	Path string
	File string

	// FileDeleted is true when the removed entry was the last in its file.
	FileDeleted bool
}

// Remove deletes the secret stored at path. The vault file is deleted with
// its last entry.
//
// Returns ErrPathNotFound if nothing is stored at path.
// Returns ErrWrongPassword if the password does not open the vault file.
func Remove(ctx context.Context, s *Session, path string) (*RemoveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.index.Lookup(path)
	if err != nil {
		return nil, err
	}

	if _, err := s.remove(file, path); err != nil {
		return nil, err
	}

	exists, err := vaultfile.Exists(file)
	if err != nil {
		return nil, err
	}

	s.log.Infof("Removed %s from %s", path, s.rel(file))
	s.logChange("rm", path)
	return &RemoveResult{Path: path, File: file, FileDeleted: !exists}, nil
}

// remove deletes path from file and reports whether it existed.
func (s *Session) remove(file, path string) (bool, error) {
	err := s.update(file, false, func(f *vaultfile.File, _ *secrets.Key) error {
		if !f.Delete(path) {
			return fmt.Errorf("%w: %s", verrors.ErrPathNotFound, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w: %s", verrors.ErrPathNotFound, path)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) logChange(op, path string) {
	entry := s.auditEntry(op)
	entry.Paths = []string{path}
	s.audit(entry)
}
