// Package audit records vault operations in an append-only log.
//
// Every operation that changes or exposes secrets (set, rm, fget, fset,
// crc --force-update, zip) is recorded beside the vault files. Entries name
// paths and files, never contents.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	vault-lock/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Local user name
//   - Operation name
//   - Operation-specific details (paths, pattern, counts, output file)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// ReadEntries parses the log for `vault log`. Malformed lines, such as a
// partially written last line, are skipped.
package audit
