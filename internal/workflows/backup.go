package workflows

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/vaultfile"

	"github.com/google/renameio"
)

// BackupResult contains the outcome of a backup.
type BackupResult struct {
	// OutputPath is the archive that was written.
	OutputPath string

	// Files are the vault file names stored in the archive, sorted.
	Files []string
}

// DefaultBackupName returns vault-backup-YYYY-MM-DD.zip for t.
func DefaultBackupName(t time.Time) string {
	return fmt.Sprintf("vault-backup-%s.zip", t.Format("2006-01-02"))
}

// Backup packs every vault file into a zip archive (zip). Vault files are
// copied as opaque encrypted blobs, so no password is needed and restoring
// is a matter of unzipping into the lock directory. Staged plaintext is
// never included.
//
// An empty output writes DefaultBackupName into the working directory.
// The archive replaces output atomically.
//
// Returns ErrNoFilesFound if there are no vault files.
func Backup(ctx context.Context, s *Session, output string) (*BackupResult, error) {
	if output == "" {
		output = DefaultBackupName(time.Now())
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(s.settings.WorkDir, output)
	}

	files, err := s.index.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, verrors.ErrNoFilesFound
	}

	if err := os.MkdirAll(filepath.Dir(output), 0700); err != nil {
		return nil, fmt.Errorf("creating output directory: %w: %w", verrors.ErrIO, err)
	}
	pending, err := renameio.TempFile(filepath.Dir(output), output)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w: %w", verrors.ErrIO, err)
	}
	defer pending.Cleanup()

	result := &BackupResult{OutputPath: output}
	zw := zip.NewWriter(pending)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := addToZip(zw, file); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, filepath.Base(file))
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finishing archive: %w: %w", verrors.ErrIO, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return nil, fmt.Errorf("writing archive %s: %w: %w", output, verrors.ErrIO, err)
	}

	s.log.Infof("Backed up %d vault files to %s", len(result.Files), s.rel(output))
	entry := s.auditEntry("zip")
	entry.Files = result.Files
	entry.OutputPath = s.rel(output)
	s.audit(entry)

	return result, nil
}

// addToZip copies one vault file into the archive under a shared lock.
func addToZip(zw *zip.Writer, file string) error {
	unlock, err := vaultfile.RLock(file)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w: %w", file, verrors.ErrIO, err)
	}
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w: %w", file, verrors.ErrIO, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("creating zip header for %s: %w", file, err)
	}
	header.Name = filepath.Base(file)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w: %w", file, verrors.ErrIO, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("adding %s to archive: %w: %w", file, verrors.ErrIO, err)
	}
	return nil
}
