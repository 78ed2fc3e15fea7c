package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// TimeFormat is the layout of Entry.Timestamp.
const TimeFormat = "2006-01-02T15:04:05.000000Z"

// maxLineSize bounds a single log line. Entries listing many paths can
// exceed bufio's default.
const maxLineSize = 4 << 20

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Local account running the operation.
	Operation string `json:"op"`   // Operation name.

	// Optional fields depending on operation.
	Paths        []string `json:"paths,omitempty"`         // For set/rm/fget/fset.
	Pattern      string   `json:"pattern,omitempty"`       // For fget/fset.
	Files        []string `json:"files,omitempty"`         // Vault files, for crc.
	FailedCount  int      `json:"failed_count,omitempty"`  // For batch operations.
	UpdatedCount int      `json:"updated_count,omitempty"` // For crc --force-update.
	OutputPath   string   `json:"output_path,omitempty"`   // For zip.
}

// Time parses the entry's timestamp. Entries written by hand in RFC 3339
// are accepted too.
func (e Entry) Time() (time.Time, error) {
	t, err := time.Parse(TimeFormat, e.Timestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, e.Timestamp)
	}
	return t, err
}

// NewEntry returns an entry for op performed by user.
func NewEntry(op, user string) Entry {
	return Entry{Operation: op, User: user}
}

// Log appends an entry to the audit log at logPath. An empty logPath
// disables logging. Appends from concurrent processes are serialized with
// an advisory lock beside the log.
//
// Failures are dropped: an operation never fails because auditing did.
func Log(logPath string, entry Entry) {
	if logPath == "" {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimeFormat)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	lock := flock.New(filepath.Join(filepath.Dir(logPath), "."+filepath.Base(logPath)+".lock"))
	if err := lock.Lock(); err != nil {
		return
	}
	defer lock.Unlock()

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log. A missing log has no
// entries.
func ReadEntries(logPath string) ([]Entry, error) {
	f, err := os.Open(logPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readEntries(f)
}

// ParseEntries parses JSON lines. Malformed lines are skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	return readEntries(bytes.NewReader(data))
}

func readEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
