package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/vault/internal/audit"
	verrors "github.com/PolarWolf314/vault/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by local user name.
	User string

	// Operations filters entries by operation names, e.g. "set,rm".
	Operations string

	// Since and Until filter by date (YYYY-MM-DD, inclusive).
	Since string
	Until string
}

// LogResult contains the filtered audit log.
type LogResult struct {
	Entries []audit.Entry

	// Total is the number of entries before filtering.
	Total int
}

// Log reads and filters the audit log. No password is needed; the log
// never holds secret contents. A missing log has no entries.
//
// Returns ErrInvalidDateFormat if Since or Until is not YYYY-MM-DD.
func Log(ctx context.Context, s *Session, opts LogOptions) (*LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	since, err := parseDay(opts.Since, "--since")
	if err != nil {
		return nil, err
	}
	until, err := parseDay(opts.Until, "--until")
	if err != nil {
		return nil, err
	}
	if !until.IsZero() {
		until = until.Add(24*time.Hour - time.Nanosecond)
	}

	entries, err := audit.ReadEntries(s.settings.AuditPath)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w: %w", verrors.ErrIO, err)
	}

	ops := make(map[string]bool)
	for _, op := range strings.Split(opts.Operations, ",") {
		if op = strings.ToLower(strings.TrimSpace(op)); op != "" {
			ops[op] = true
		}
	}

	var filtered []audit.Entry
	for _, e := range entries {
		if opts.User != "" && !strings.EqualFold(e.User, opts.User) {
			continue
		}
		if len(ops) > 0 && !ops[strings.ToLower(e.Operation)] {
			continue
		}
		if !since.IsZero() || !until.IsZero() {
			t, err := e.Time()
			if err != nil {
				continue
			}
			if !since.IsZero() && t.Before(since) {
				continue
			}
			if !until.IsZero() && t.After(until) {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	// The limit keeps the most recent entries in either order.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	return &LogResult{Entries: filtered, Total: len(entries)}, nil
}

func parseDay(value, flag string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q, use YYYY-MM-DD", verrors.ErrInvalidDateFormat, flag, value)
	}
	return t, nil
}

// FormatDateTime formats an entry's timestamp as YYYY-MM-DD HH:MM:SS.
func FormatDateTime(e audit.Entry) string {
	t, err := e.Time()
	if err != nil {
		return e.Timestamp
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails summarizes what an entry touched.
func FormatDetails(e audit.Entry) string {
	var parts []string
	switch {
	case len(e.Paths) == 1:
		parts = append(parts, e.Paths[0])
	case len(e.Paths) > 3:
		parts = append(parts, fmt.Sprintf("%d paths", len(e.Paths)))
	case len(e.Paths) > 0:
		parts = append(parts, strings.Join(e.Paths, ", "))
	}
	if e.Pattern != "" {
		parts = append(parts, fmt.Sprintf("pattern %q", e.Pattern))
	}
	if e.UpdatedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d checksums updated", e.UpdatedCount))
	}
	if e.OutputPath != "" {
		parts = append(parts, "to "+e.OutputPath)
	} else if len(e.Files) > 0 {
		parts = append(parts, strings.Join(e.Files, ", "))
	}
	if e.FailedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", e.FailedCount))
	}
	return strings.Join(parts, ", ")
}
