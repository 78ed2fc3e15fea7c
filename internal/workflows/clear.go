package workflows

import (
	"context"

	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/pattern"
)

// ClearStaged deletes staged files matching pat and prunes empty staging
// directories (fclr). Vault files are never opened, so no password is needed.
//
// Returns ErrInvalidPattern for a malformed pattern.
// Returns ErrNoFilesFound if nothing staged matches.
func ClearStaged(ctx context.Context, s *Session, pat string) (*BatchResult, error) {
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
	for _, path := range staged {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.staging.Remove(path); err != nil {
			result.fail(path, err)
			continue
		}
		result.Succeeded = append(result.Succeeded, path)
	}

	if err := s.staging.Prune(); err != nil {
		s.log.Warnf("Could not prune staging directory: %v", err)
	}
	result.sort()

	s.log.Infof("Cleared %d staged files", len(result.Succeeded))
	return result, nil
}
