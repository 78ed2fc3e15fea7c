package workflows

import (
	"context"

	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/pattern"
	"github.com/PolarWolf314/vault/internal/secrets"
)

// Unlock decrypts every stored path matching pat into the staging area
// (fget). Each plaintext is written byte for byte to unlock_dir/<path>,
// overwriting any staged copy.
//
// A vault file that cannot be read or opened with the password fails all
// of its matching paths, and an entry that fails authentication fails only
// itself; the rest of the batch continues either way.
//
// Returns ErrInvalidPattern for a malformed pattern.
// Returns ErrNoFilesFound if no stored path matches.
func Unlock(ctx context.Context, s *Session, pat string) (*BatchResult, error) {
	p, err := pattern.Compile(pat)
	if err != nil {
		return nil, err
	}

	files, err := s.index.Files()
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Pattern: pat}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := readShared(file)
		if err != nil {
			// The paths inside are unknown; report the file itself.
			result.fail(s.rel(file), err)
			continue
		}

		paths := p.Filter(f.Paths())
		if len(paths) == 0 {
			continue
		}

		key, err := s.key(f)
		if err != nil {
			for _, path := range paths {
				result.fail(path, err)
			}
			continue
		}

		for _, path := range paths {
			e, _ := f.Find(path)
			plaintext, err := openEntry(key, e)
			if err != nil {
				result.fail(path, err)
				continue
			}
			err = s.staging.Write(path, plaintext)
			secrets.Zero(plaintext)
			if err != nil {
				result.fail(path, err)
				continue
			}
			result.Succeeded = append(result.Succeeded, path)
		}
	}

	if len(result.Succeeded) == 0 && len(result.Failed) == 0 {
		return nil, verrors.ErrNoFilesFound
	}
	result.sort()

	s.log.Infof("Unlocked %d of %d paths into %s", len(result.Succeeded), len(result.Succeeded)+len(result.Failed), s.rel(s.staging.Dir()))
	entry := s.auditEntry("fget")
	entry.Pattern = pat
	entry.Paths = result.Succeeded
	entry.FailedCount = len(result.Failed)
	s.audit(entry)

	return result, nil
}
