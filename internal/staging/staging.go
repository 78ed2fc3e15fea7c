package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/index"
	"github.com/PolarWolf314/vault/internal/pattern"
)

// Ignored is skipped when listing the staging area and removed when pruning.
const Ignored = ".DS_Store"

// Area is the plaintext staging directory. Files in it mirror vault paths.
type Area struct {
	dir string
}

// New returns the staging area rooted at dir.
func New(dir string) *Area {
	return &Area{dir: dir}
}

// Dir returns the staging directory.
func (a *Area) Dir() string {
	return a.dir
}

// Path returns the staged file for the vault path p.
func (a *Area) Path(p string) (string, error) {
	if err := index.ValidatePath(p); err != nil {
		return "", err
	}
	return filepath.Join(a.dir, filepath.FromSlash(p)), nil
}

// Write stages contents for p, creating parent directories as needed.
// Contents are written byte for byte and readable only by the owner.
func (a *Area) Write(p string, contents []byte) error {
	file, err := a.Path(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("creating staging directory for %s: %w: %w", p, verrors.ErrIO, err)
	}
	if err := os.WriteFile(file, contents, 0600); err != nil {
		return fmt.Errorf("staging %s: %w: %w", p, verrors.ErrIO, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(file, 0600); err != nil {
		return fmt.Errorf("staging %s: %w: %w", p, verrors.ErrIO, err)
	}
	return nil
}

// Read returns the staged contents of p.
func (a *Area) Read(p string) ([]byte, error) {
	file, err := a.Path(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading staged %s: %w: %w", p, verrors.ErrIO, err)
	}
	return data, nil
}

// List returns the staged paths matching pat, sorted. A missing staging
// directory holds nothing.
func (a *Area) List(pat pattern.Pattern) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(a.dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			if file == a.dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() || d.Name() == Ignored {
			return nil
		}

		rel, err := filepath.Rel(a.dir, file)
		if err != nil {
			return err
		}
		p := filepath.ToSlash(rel)
		if pat.Match(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing staging directory %s: %w: %w", a.dir, verrors.ErrIO, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Remove deletes the staged file for p. A missing file is not an error.
func (a *Area) Remove(p string) error {
	file, err := a.Path(p)
	if err != nil {
		return err
	}
	if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing staged %s: %w: %w", p, verrors.ErrIO, err)
	}
	return nil
}

// Prune removes directories under the staging root that hold nothing but
// ignored files. The root itself is kept.
func (a *Area) Prune() error {
	var dirs []string
	err := filepath.WalkDir(a.dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			if file == a.dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() && file != a.dir {
			dirs = append(dirs, file)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pruning staging directory %s: %w: %w", a.dir, verrors.ErrIO, err)
	}

	// Children sort after their parents, so walk backwards.
	sort.Strings(dirs)
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := pruneDir(dirs[i]); err != nil {
			return fmt.Errorf("pruning %s: %w: %w", dirs[i], verrors.ErrIO, err)
		}
	}
	return nil
}

func pruneDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() != Ignored {
			return nil
		}
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return os.Remove(dir)
}
