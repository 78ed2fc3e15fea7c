package errors

import "errors"

// Password errors indicate the supplied password cannot open a vault file.
var (
	// ErrWrongPassword indicates the password failed the vault file's validation token.
	// It is returned before any entry of the file is decrypted.
	ErrWrongPassword = errors.New("incorrect password")

	// ErrEmptyPassword indicates no password was supplied.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrPasswordTooLong indicates the password exceeds the key length.
	ErrPasswordTooLong = errors.New("password must be at most 32 bytes")

	// ErrInvalidPassword indicates the password contains a NUL byte.
	ErrInvalidPassword = errors.New("password must not contain NUL bytes")
)

// Cryptographic errors indicate failures while opening sealed data.
var (
	// ErrAuthenticationFailed indicates an entry's AEAD tag did not verify.
	// The entry was tampered with or corrupted; the password itself was already accepted.
	ErrAuthenticationFailed = errors.New("entry failed authentication")
)

// Vault file errors indicate the on-disk state could not be used.
var (
	// ErrCorruptFile indicates the vault file structure is invalid.
	ErrCorruptFile = errors.New("vault file is corrupt")

	// ErrUnsupportedVersion indicates the vault file was written by a newer format version.
	ErrUnsupportedVersion = errors.New("unsupported vault file version")

	// ErrChecksumMismatch indicates one or more stored checksums do not match the entry contents.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrIO wraps failures reported by the filesystem.
	ErrIO = errors.New("i/o failure")
)

// Lookup errors indicate problems with the requested paths or patterns.
var (
	// ErrPathNotFound indicates no secret is stored at the path.
	ErrPathNotFound = errors.New("path not found")

	// ErrInvalidPath indicates the path key is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidPattern indicates the glob pattern is malformed.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrNoFilesFound indicates no staged or vault files matched.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrInvalidDateFormat indicates a date filter is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
