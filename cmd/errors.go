package cmd

import (
	"context"
	"errors"

	verrors "github.com/PolarWolf314/vault/internal/errors"
)

// userError carries a friendly message while keeping the cause for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// explain maps workflow errors to messages for the terminal. Unknown errors
// are returned with their full text.
func explain(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case errors.Is(err, verrors.ErrWrongPassword):
		msg = "Incorrect password for this vault file"
	case errors.Is(err, verrors.ErrEmptyPassword):
		msg = "A password is required"
	case errors.Is(err, verrors.ErrPasswordTooLong):
		msg = "Passwords are limited to 32 bytes"
	case errors.Is(err, verrors.ErrInvalidPassword):
		msg = "Passwords must not contain NUL bytes"
	case errors.Is(err, verrors.ErrAuthenticationFailed):
		msg = "Secret failed authentication; the vault file was modified or damaged (" + err.Error() + ")"
	case errors.Is(err, verrors.ErrPathNotFound):
		msg = "No secret stored at that path (" + err.Error() + ")"
	case errors.Is(err, verrors.ErrInvalidPath):
		msg = "Invalid path (" + err.Error() + ")"
	case errors.Is(err, verrors.ErrInvalidPattern):
		msg = "Invalid pattern (" + err.Error() + ")"
	case errors.Is(err, verrors.ErrNoFilesFound):
		msg = "Nothing matched"
	case errors.Is(err, verrors.ErrUnsupportedVersion):
		msg = "Vault file was written by a newer version of vault (" + err.Error() + ")"
	case errors.Is(err, verrors.ErrCorruptFile):
		msg = "Vault file is corrupt (" + err.Error() + ")"
	case errors.Is(err, verrors.ErrInvalidDateFormat):
		msg = "Invalid date (" + err.Error() + ")"
	case errors.Is(err, context.Canceled):
		msg = "Interrupted"
	}
	return &userError{msg: msg, err: err}
}
