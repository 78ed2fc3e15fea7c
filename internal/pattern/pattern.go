package pattern

import (
	"fmt"
	"sort"
	"strings"

	verrors "github.com/PolarWolf314/vault/internal/errors"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is a compiled glob over path keys.
type Pattern struct {
	source string
	expr   string

	// subtree also matches expr+"/**", for a ** glued to a prefix.
	subtree bool
}

// Compile validates a glob pattern.
//
// A single * matches within one path segment and ** matches across segments.
// A trailing ** glued to a prefix, as in "db**", matches every path starting
// with that prefix. The empty pattern matches everything.
func Compile(p string) (Pattern, error) {
	expr := p
	subtree := false
	switch {
	case expr == "":
		expr = "**"
	case strings.HasSuffix(expr, "**") && len(expr) > 2 && expr[len(expr)-3] != '/':
		// "db**" is "db*" or anything below it.
		expr = strings.TrimSuffix(expr, "**") + "*"
		subtree = true
	}

	if strings.HasPrefix(expr, "/") || !doublestar.ValidatePattern(expr) {
		return Pattern{}, fmt.Errorf("%w: %q", verrors.ErrInvalidPattern, p)
	}
	return Pattern{source: p, expr: expr, subtree: subtree}, nil
}

// All matches every path.
func All() Pattern {
	return Pattern{expr: "**"}
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.source
}

// Match reports whether path matches the pattern.
func (p Pattern) Match(path string) bool {
	if p.expr == "" {
		return false
	}
	if ok, err := doublestar.Match(p.expr, path); err == nil && ok {
		return true
	}
	if p.subtree {
		ok, err := doublestar.Match(p.expr+"/**", path)
		return err == nil && ok
	}
	return false
}

// Filter returns the paths that match, sorted.
func (p Pattern) Filter(paths []string) []string {
	var matched []string
	for _, path := range paths {
		if p.Match(path) {
			matched = append(matched, path)
		}
	}
	sort.Strings(matched)
	return matched
}
