package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/pattern"
	"github.com/PolarWolf314/vault/internal/vaultfile"
)

// Separator divides path keys into segments.
const Separator = "/"

// RootStem is the file stem of the root namespace, which holds single-segment paths.
const RootStem = "root"

const namespacePrefix = "ns-"

// ValidatePath checks that p can be stored and mirrored into the staging area.
func ValidatePath(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty path", verrors.ErrInvalidPath)
	}
	if strings.IndexByte(p, 0) >= 0 {
		return fmt.Errorf("%w: %q contains a NUL byte", verrors.ErrInvalidPath, p)
	}
	if strings.HasPrefix(p, Separator) || strings.HasSuffix(p, Separator) {
		return fmt.Errorf("%w: %q has a leading or trailing separator", verrors.ErrInvalidPath, p)
	}
	for _, seg := range strings.Split(p, Separator) {
		switch seg {
		case "":
			return fmt.Errorf("%w: %q has an empty segment", verrors.ErrInvalidPath, p)
		case ".", "..":
			return fmt.Errorf("%w: %q has a relative segment", verrors.ErrInvalidPath, p)
		}
	}
	return nil
}

// Namespace returns the namespace of p. Single-segment paths belong to the
// root namespace, reported as ok == false.
func Namespace(p string) (ns string, ok bool) {
	ns, _, ok = strings.Cut(p, Separator)
	if !ok {
		return "", false
	}
	return ns, true
}

// FileStem returns the vault file stem for p. It depends only on p.
func FileStem(p string) string {
	ns, ok := Namespace(p)
	if !ok {
		return RootStem
	}
	return namespacePrefix + escape(ns)
}

// FileName returns the vault file name for p.
func FileName(p string) string {
	return FileStem(p) + vaultfile.Extension
}

// escape keeps [A-Za-z0-9-] and writes every other byte as _xx.
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "_%02x", c)
	}
	return b.String()
}

// Index maps path keys to vault files in one directory.
type Index struct {
	dir string
}

// New returns an index over the vault files in dir.
func New(dir string) *Index {
	return &Index{dir: dir}
}

// Dir returns the vault directory.
func (x *Index) Dir() string {
	return x.dir
}

// Lookup returns the vault file that holds, or would hold, p.
func (x *Index) Lookup(p string) (string, error) {
	if err := ValidatePath(p); err != nil {
		return "", err
	}
	return filepath.Join(x.dir, FileName(p)), nil
}

// Files returns the vault files present on disk, sorted. A missing vault
// directory holds no files.
func (x *Index) Files() ([]string, error) {
	entries, err := os.ReadDir(x.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing vault directory %s: %w: %w", x.dir, verrors.ErrIO, err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && vaultfile.IsVaultFile(e.Name()) {
			files = append(files, filepath.Join(x.dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Loader reads a vault file.
type Loader func(file string) (*vaultfile.File, error)

// Group is the set of matched paths stored in one vault file.
type Group struct {
	File  string
	Vault *vaultfile.File
	Paths []string
}

// LoadError records a vault file that could not be loaded.
type LoadError struct {
	File string
	Err  error
}

func (e LoadError) Error() string {
	return e.File + ": " + e.Err.Error()
}

func (e LoadError) Unwrap() error {
	return e.Err
}

// List loads every vault file and groups the stored paths that match p.
// Files without matches are left out. A file that fails to load is
// reported in failed and the others are still listed. Nothing is
// decrypted, so the caller must check the key of each group's file before
// trusting its entries.
func (x *Index) List(p pattern.Pattern, load Loader) (groups []Group, failed []LoadError, err error) {
	files, err := x.Files()
	if err != nil {
		return nil, nil, err
	}

	for _, file := range files {
		vf, err := load(file)
		if err != nil {
			failed = append(failed, LoadError{File: file, Err: err})
			continue
		}
		paths := p.Filter(vf.Paths())
		if len(paths) == 0 {
			continue
		}
		groups = append(groups, Group{File: file, Vault: vf, Paths: paths})
	}
	return groups, failed, nil
}

// Explore returns the immediate children of prefix among paths, the way a
// directory listing would: nested children end in "/". Results are sorted
// and unique.
func Explore(paths []string, prefix string) []string {
	prefix = strings.Trim(prefix, Separator)
	if prefix != "" {
		prefix += Separator
	}

	seen := make(map[string]bool)
	var children []string
	for _, p := range paths {
		rest, ok := strings.CutPrefix(p, prefix)
		if !ok || rest == "" {
			continue
		}
		child := rest
		if head, _, nested := strings.Cut(rest, Separator); nested {
			child = head + Separator
		}
		if !seen[child] {
			seen[child] = true
			children = append(children, child)
		}
	}
	sort.Strings(children)
	return children
}
