// Package errors provides typed error values for the vault.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Password errors: the password is malformed or does not open a file
//     (ErrWrongPassword, ErrEmptyPassword, ErrPasswordTooLong)
//   - Crypto errors: a single entry failed its AEAD check (ErrAuthenticationFailed)
//   - Vault file errors: format, version, checksum and filesystem failures
//     (ErrCorruptFile, ErrUnsupportedVersion, ErrChecksumMismatch, ErrIO)
//   - Lookup errors: bad paths or patterns (ErrPathNotFound, ErrInvalidPattern)
//
// # Scope
//
// ErrWrongPassword, ErrCorruptFile and ErrIO are file-level: they abort the
// operation for the whole vault file. ErrAuthenticationFailed is entry-level
// and batch operations report it per path without stopping.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading %s: %w", file, errors.ErrCorruptFile)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, verrors.ErrWrongPassword) {
//	    // Show user-friendly message
//	}
package errors
