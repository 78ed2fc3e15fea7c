package workflows

import (
	"context"
	"fmt"
	"sort"

	"github.com/PolarWolf314/vault/internal/index"
	"github.com/PolarWolf314/vault/internal/pattern"
)

// ListResult contains the paths matching a pattern.
type ListResult struct {
	Pattern string

	// Paths are sorted lexicographically.
	Paths []string

	// Failed lists vault files that could not be read, by relative file
	// name. Their paths are missing from Paths.
	Failed []PathError
}

// Err returns the first unreadable file, or nil.
func (r *ListResult) Err() error {
	return firstFailure(r.Failed)
}

// List returns every stored path matching pat. The password is checked
// against each vault file that contributes a match; files without matches
// are never opened with the key.
//
// A vault file that cannot be read is recorded in Failed and the rest are
// still listed.
//
// Returns ErrInvalidPattern for a malformed pattern.
// Returns ErrWrongPassword if the password does not open a contributing file.
func List(ctx context.Context, s *Session, pat string) (*ListResult, error) {
	groups, failed, err := s.listGroups(ctx, pat)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Pattern: pat, Failed: failed}
	for _, g := range groups {
		result.Paths = append(result.Paths, g.Paths...)
	}
	sort.Strings(result.Paths)
	return result, nil
}

// ExploreResult contains a directory-style view of stored paths.
type ExploreResult struct {
	Prefix string

	// Children are the entries directly below Prefix. Nested
	// directories end in "/".
	Children []string

	// Failed lists vault files that could not be read.
	Failed []PathError
}

// Err returns the first unreadable file, or nil.
func (r *ExploreResult) Err() error {
	return firstFailure(r.Failed)
}

// Explore lists the paths directly below prefix, like a directory listing.
func Explore(ctx context.Context, s *Session, prefix string) (*ExploreResult, error) {
	groups, failed, err := s.listGroups(ctx, "")
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, g := range groups {
		paths = append(paths, g.Paths...)
	}
	return &ExploreResult{Prefix: prefix, Children: index.Explore(paths, prefix), Failed: failed}, nil
}

// listGroups returns the matching paths of every readable vault file after
// checking the password against it, plus the files that could not be read.
func (s *Session) listGroups(ctx context.Context, pat string) ([]index.Group, []PathError, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	p, err := pattern.Compile(pat)
	if err != nil {
		return nil, nil, err
	}

	groups, loadErrs, err := s.index.List(p, readShared)
	if err != nil {
		return nil, nil, err
	}

	var failed []PathError
	for _, le := range loadErrs {
		s.log.Warnf("Skipping unreadable vault file %s: %v", s.rel(le.File), le.Err)
		failed = append(failed, PathError{Path: s.rel(le.File), Err: le.Err})
	}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if _, err := s.key(g.Vault); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", s.rel(g.File), err)
		}
	}
	return groups, failed, nil
}
