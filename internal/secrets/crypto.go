package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	verrors "github.com/PolarWolf314/vault/internal/errors"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the XChaCha20-Poly1305 key length.
	KeySize = chacha20poly1305.KeySize

	// NonceSize is the extended 192-bit nonce length.
	NonceSize = chacha20poly1305.NonceSizeX

	// Overhead is the authentication tag appended to every ciphertext.
	Overhead = chacha20poly1305.Overhead

	// SaltSize is the per-file random salt length.
	SaltSize = 32

	// MaxPasswordLength is the longest accepted password in bytes.
	MaxPasswordLength = KeySize
)

// tokenPlaintext is sealed into every vault file header to check passwords.
var tokenPlaintext = []byte("vault validation token v1")

// NewNonce returns a fresh random nonce.
func NewNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// NewSalt returns a fresh random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// Seal encrypts and authenticates plaintext, binding it to aad.
func Seal(key *Key, nonce, plaintext, aad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("invalid nonce length: expected %d bytes, got %d bytes", NonceSize, len(nonce))
	}
	aead, err := chacha20poly1305.NewX(key.b[:])
	if err != nil {
		return nil, fmt.Errorf("failed to initialise cipher: %w", err)
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

// Open authenticates and decrypts ciphertext. Any tag mismatch returns
// ErrAuthenticationFailed and no plaintext.
func Open(key *Key, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != NonceSize || len(ciphertext) < Overhead {
		return nil, verrors.ErrAuthenticationFailed
	}
	aead, err := chacha20poly1305.NewX(key.b[:])
	if err != nil {
		return nil, fmt.Errorf("failed to initialise cipher: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, verrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// SealToken produces the validation token stored in a vault file header.
func SealToken(key *Key, nonce, aad []byte) ([]byte, error) {
	return Seal(key, nonce, tokenPlaintext, aad)
}

// CheckToken confirms key opens the validation token. It never touches entries.
func CheckToken(key *Key, nonce, token, aad []byte) error {
	plaintext, err := Open(key, nonce, token, aad)
	if err != nil {
		return verrors.ErrWrongPassword
	}
	defer Zero(plaintext)

	if subtle.ConstantTimeCompare(plaintext, tokenPlaintext) != 1 {
		return verrors.ErrWrongPassword
	}
	return nil
}
