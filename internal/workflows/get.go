package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	verrors "github.com/PolarWolf314/vault/internal/errors"
)

// Get decrypts the secret stored at path. The caller should pass the
// returned bytes to secrets.Zero once used.
//
// Returns ErrInvalidPath for a malformed path.
// Returns ErrPathNotFound if nothing is stored at path.
// Returns ErrWrongPassword if the password does not open the vault file.
// Returns ErrAuthenticationFailed if the entry was tampered with.
func Get(ctx context.Context, s *Session, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.index.Lookup(path)
	if err != nil {
		return nil, err
	}

	f, err := readShared(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", verrors.ErrPathNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	key, err := s.key(f)
	if err != nil {
		return nil, err
	}

	e, ok := f.Find(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", verrors.ErrPathNotFound, path)
	}

	plaintext, err := openEntry(key, e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.log.Debugf("Decrypted %s from %s", path, s.rel(file))
	return plaintext, nil
}
