package pattern

import (
	"errors"
	"testing"

	verrors "github.com/PolarWolf314/vault/internal/errors"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"a/*", "a/b", true},
		{"a/*", "a/c", true},
		{"a/*", "a/b/c", false},
		{"a/*", "a", false},
		{"a/**", "a/b/c", true},
		{"**", "a/b/c", true},
		{"**", "x", true},
		{"", "deep/nested/path", true},
		{"db/prod", "db/prod", true},
		{"db/prod", "db/production", false},
		{"db/pro*", "db/production", true},
		{"db/pro*", "db/prod/replica", false},
		{"db**", "db/prod/replica", true},
		{"db**", "dbx", true},
		{"db**", "db", true},
		{"db**", "api/db", false},
		{"db**", "dbx/y", true},
		{"a/b**", "a/b", true},
		{"a/b**", "a/bc", true},
		{"a/b**", "a/b/c/d", true},
		{"a/b**", "a/c", false},
		{"*/prod", "db/prod", true},
		{"*/prod", "db/eu/prod", false},
		{"**/prod", "db/eu/prod", true},
		{"db/{prod,staging}", "db/staging", true},
		{"db/{prod,staging}", "db/dev", false},
		{"key?", "key1", true},
		{"key?", "key/1", false},
	}

	for _, tt := range tests {
		p, err := Compile(tt.pattern)
		if err != nil {
			t.Fatalf("Compile(%q) failed: %v", tt.pattern, err)
		}
		if got := p.Match(tt.path); got != tt.want {
			t.Errorf("%q.Match(%q): expected %t, got %t", tt.pattern, tt.path, tt.want, got)
		}
	}
}

func TestCompileInvalid(t *testing.T) {
	for _, p := range []string{"db/[", "a/{b", "/abs"} {
		_, err := Compile(p)
		if !errors.Is(err, verrors.ErrInvalidPattern) {
			t.Errorf("Compile(%q): expected ErrInvalidPattern, got: %v", p, err)
		}
	}
}

func TestFilter(t *testing.T) {
	p, err := Compile("a/*")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got := p.Filter([]string{"a/c", "a/b/c", "b/a", "a/b"})
	if len(got) != 2 || got[0] != "a/b" || got[1] != "a/c" {
		t.Errorf("Expected [a/b a/c], got %v", got)
	}
}

func TestZeroPatternMatchesNothing(t *testing.T) {
	var p Pattern
	if p.Match("a") {
		t.Errorf("Expected zero Pattern to match nothing")
	}
	if !All().Match("a/b") {
		t.Errorf("Expected All to match everything")
	}
}
