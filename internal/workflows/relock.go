package workflows

import (
	"context"
	"sort"

	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/integrity"
	"github.com/PolarWolf314/vault/internal/pattern"
	"github.com/PolarWolf314/vault/internal/secrets"
	"github.com/PolarWolf314/vault/internal/vaultfile"
)

// Relock encrypts every staged file matching pat back into the vault (fset).
// Staged files are grouped by vault file and each vault file is rewritten
// once, atomically. Only after that write succeeds are its staged files
// deleted; empty staging directories are pruned at the end.
//
// A staged file without a vault entry creates one. An empty staged file
// removes the entry, as set does with empty contents.
//
// Returns ErrInvalidPattern for a malformed pattern.
// Returns ErrNoFilesFound if nothing staged matches.
func Relock(ctx context.Context, s *Session, pat string) (*BatchResult, error) {
	p, err := pattern.Compile(pat)
	if err != nil {
		return nil, err
	}

	staged, err := s.staging.List(p)
	if err != nil {
		return nil, err
	}
	if len(staged) == 0 {
		return nil, verrors.ErrNoFilesFound
	}

	result := &BatchResult{Pattern: pat}

	byFile := make(map[string][]string)
	for _, path := range staged {
		file, err := s.index.Lookup(path)
		if err != nil {
			result.fail(path, err)
			continue
		}
		byFile[file] = append(byFile[file], path)
	}

	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	var relocked []string
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		paths := byFile[file]
		var done []string
		err := s.update(file, true, func(f *vaultfile.File, key *secrets.Key) error {
			for _, path := range paths {
				if err := s.relockPath(f, key, path); err != nil {
					result.fail(path, err)
					continue
				}
				done = append(done, path)
			}
			return nil
		})
		if err != nil {
			for _, path := range paths {
				if !contains(result.Failed, path) {
					result.fail(path, err)
				}
			}
			continue
		}
		relocked = append(relocked, done...)
	}

	for _, path := range relocked {
		if err := s.staging.Remove(path); err != nil {
			s.log.Warnf("Relocked %s but could not remove the staged copy: %v", path, err)
		}
		result.Succeeded = append(result.Succeeded, path)
	}
	if err := s.staging.Prune(); err != nil {
		s.log.Warnf("Could not prune staging directory: %v", err)
	}
	result.sort()

	s.log.Infof("Relocked %d of %d staged files", len(result.Succeeded), len(staged))
	entry := s.auditEntry("fset")
	entry.Pattern = pat
	entry.Paths = result.Succeeded
	entry.FailedCount = len(result.Failed)
	s.audit(entry)

	return result, nil
}

// relockPath upserts or, for an empty staged file, deletes path in f.
func (s *Session) relockPath(f *vaultfile.File, key *secrets.Key, path string) error {
	contents, err := s.staging.Read(path)
	if err != nil {
		return err
	}
	defer secrets.Zero(contents)

	if len(contents) == 0 {
		f.Delete(path)
		return nil
	}

	e, err := sealEntry(key, path, contents)
	if err != nil {
		return err
	}
	integrity.Stamp(&e)
	f.Put(e)
	return nil
}

func contains(failed []PathError, path string) bool {
	for _, pe := range failed {
		if pe.Path == path {
			return true
		}
	}
	return false
}
