package workflows

import (
	"context"
	"errors"
	"fmt"

	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/integrity"
	"github.com/PolarWolf314/vault/internal/vaultfile"
)

// FileReport is the integrity check of one vault file.
type FileReport struct {
	// File is relative to the working directory.
	File string

	// Entries are sorted by path; empty when Err is set.
	Entries []integrity.EntryReport

	// Updated counts checksums rewritten by a forced update.
	Updated int

	// Err is set when the file could not be read or rewritten.
	Err error
}

// VerifyReport aggregates the integrity check of every vault file.
type VerifyReport struct {
	Files []FileReport
	Force bool
}

// Counts tallies entry statuses across all files.
func (r *VerifyReport) Counts() map[integrity.Status]int {
	counts := make(map[integrity.Status]int)
	for _, f := range r.Files {
		for _, e := range f.Entries {
			counts[e.Status]++
		}
	}
	return counts
}

// Err returns ErrChecksumMismatch when any entry is not OK, joined with
// any file-level failures.
func (r *VerifyReport) Err() error {
	var errs []error
	mismatched := 0
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.File, f.Err))
		}
		for _, e := range f.Entries {
			if e.Status != integrity.OK {
				mismatched++
			}
		}
	}
	if mismatched > 0 {
		errs = append(errs, fmt.Errorf("%w: %d entries", verrors.ErrChecksumMismatch, mismatched))
	}
	return errors.Join(errs...)
}

// Verify checks the checksum of every entry in every vault file (crc).
// Without force it never writes. With force, missing or stale checksums
// are recomputed and each changed file is rewritten atomically under its
// lock; files that need no change are left byte for byte as they were.
// Checksums cover stored bytes only, so no password is needed.
//
// Returns ErrNoFilesFound if there are no vault files.
func Verify(ctx context.Context, s *Session, force bool) (*VerifyReport, error) {
	files, err := s.index.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, verrors.ErrNoFilesFound
	}

	report := &VerifyReport{Force: force}
	updated := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fr := FileReport{File: s.rel(file)}
		var f *vaultfile.File
		if force {
			f, fr.Updated, fr.Err = s.restamp(file)
		} else {
			f, fr.Err = readShared(file)
		}
		if fr.Err == nil {
			fr.Entries = integrity.Verify(f)
		}
		updated += fr.Updated
		report.Files = append(report.Files, fr)
	}

	if force {
		s.log.Infof("Updated %d checksums", updated)
		entry := s.auditEntry("crc")
		for _, fr := range report.Files {
			if fr.Updated > 0 {
				entry.Files = append(entry.Files, fr.File)
			}
		}
		entry.UpdatedCount = updated
		s.audit(entry)
	}

	return report, nil
}

// restamp recomputes the checksums of file under an exclusive lock and
// writes it back only if something changed.
func (s *Session) restamp(file string) (*vaultfile.File, int, error) {
	unlock, err := vaultfile.Lock(file)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	f, err := vaultfile.Read(file)
	if err != nil {
		return nil, 0, err
	}

	n := integrity.Update(f)
	if n == 0 {
		return f, 0, nil
	}
	if err := vaultfile.Write(file, f); err != nil {
		return nil, 0, err
	}
	s.log.Debugf("Restamped %d entries in %s", n, s.rel(file))
	return f, n, nil
}
