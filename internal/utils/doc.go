// Package utils provides small helpers shared by the CLI and workflows.
//
// # System Utilities
//
//   - GetUsername: the local account name recorded in the audit log
//
// # Terminal Utilities
//
//   - ReadPassphrase: prompts for the vault password without echo
//   - ReadPassphraseFromTTY: the same, for when stdin carries a secret value
//   - IsTerminal: checks whether stdin is a terminal
//
// # I/O Utilities
//
//   - ReadStdin: reads a secret value piped on stdin
//   - ReadPasswordLine: reads a password for --password-stdin
//
// # String Utilities
//
//   - FormatPaths, FormatFailures, Plural: human-readable output
package utils
