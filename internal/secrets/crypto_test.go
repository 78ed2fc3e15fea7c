package secrets

import (
	"bytes"
	"errors"
	"testing"

	verrors "github.com/PolarWolf314/vault/internal/errors"
)

// testKDFParams keeps argon2id cheap in tests.
var testKDFParams = KDFParams{Algorithm: KDFArgon2id, Time: 1, Memory: 64, Threads: 1}

func mustKey(t *testing.T, password string, salt []byte, params KDFParams) *Key {
	t.Helper()
	key, err := DeriveKey([]byte(password), salt, params)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	t.Cleanup(key.Destroy)
	return key
}

func TestSealOpenRoundTrip(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt failed: %v", err)
	}
	key := mustKey(t, "1234", salt, testKDFParams)

	nonce, err := NewNonce()
	if err != nil {
		t.Fatalf("NewNonce failed: %v", err)
	}

	plaintext := []byte{0x00, 0xff, 0xfe, 'a', 0x80}
	ciphertext, err := Seal(key, nonce, plaintext, []byte("db/prod"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if len(ciphertext) != len(plaintext)+Overhead {
		t.Errorf("Expected ciphertext length %d, got %d", len(plaintext)+Overhead, len(ciphertext))
	}

	opened, err := Open(key, nonce, ciphertext, []byte("db/prod"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("Expected %x, got %x", plaintext, opened)
	}
}

func TestOpenFailsClosed(t *testing.T) {
	key := mustKey(t, "1234", nil, PaddedKDFParams())
	nonce, _ := NewNonce()
	ciphertext, err := Seal(key, nonce, []byte("contents"), []byte("path"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(ct, nonce, aad []byte) ([]byte, []byte, []byte)
	}{
		{"FlippedCiphertextBit", func(ct, n, a []byte) ([]byte, []byte, []byte) {
			ct[0] ^= 0x01
			return ct, n, a
		}},
		{"FlippedTagBit", func(ct, n, a []byte) ([]byte, []byte, []byte) {
			ct[len(ct)-1] ^= 0x80
			return ct, n, a
		}},
		{"WrongNonce", func(ct, n, a []byte) ([]byte, []byte, []byte) {
			n[3] ^= 0x10
			return ct, n, a
		}},
		{"WrongAssociatedData", func(ct, n, a []byte) ([]byte, []byte, []byte) {
			return ct, n, []byte("other")
		}},
		{"Truncated", func(ct, n, a []byte) ([]byte, []byte, []byte) {
			return ct[:Overhead-1], n, a
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := append([]byte(nil), ciphertext...)
			n := append([]byte(nil), nonce...)
			ct, n, aad := tt.mutate(ct, n, []byte("path"))

			plaintext, err := Open(key, n, ct, aad)
			if !errors.Is(err, verrors.ErrAuthenticationFailed) {
				t.Fatalf("Expected ErrAuthenticationFailed, got: %v", err)
			}
			if plaintext != nil {
				t.Errorf("Expected no plaintext, got %q", plaintext)
			}
		})
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, _ := NewSalt()

	for _, params := range []KDFParams{PaddedKDFParams(), testKDFParams} {
		t.Run(params.Algorithm.String(), func(t *testing.T) {
			a := mustKey(t, "correct horse", salt, params)
			b := mustKey(t, "correct horse", salt, params)
			c := mustKey(t, "correct horsf", salt, params)

			if a.b != b.b {
				t.Errorf("Expected identical keys for identical passwords")
			}
			if a.b == c.b {
				t.Errorf("Expected different keys for different passwords")
			}
		})
	}
}

func TestDeriveKeyPaddedIsZeroFilled(t *testing.T) {
	key := mustKey(t, "abc", nil, PaddedKDFParams())

	var expected [KeySize]byte
	copy(expected[:], "abc")
	if key.b != expected {
		t.Errorf("Expected zero-filled key %x, got %x", expected, key.b)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password []byte
		expected error
	}{
		{"Empty", nil, verrors.ErrEmptyPassword},
		{"TooLong", bytes.Repeat([]byte("a"), MaxPasswordLength+1), verrors.ErrPasswordTooLong},
		{"ContainsNUL", []byte("ab\x00"), verrors.ErrInvalidPassword},
		{"MaxLength", bytes.Repeat([]byte("a"), MaxPasswordLength), nil},
		{"NonASCII", []byte("pässwörd"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.expected == nil {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got: %v", tt.expected, err)
			}
		})
	}
}

func TestDeriveKeyRejectsBadParams(t *testing.T) {
	if _, err := DeriveKey([]byte("pw"), make([]byte, SaltSize), KDFParams{Algorithm: KDFArgon2id}); err == nil {
		t.Error("Expected error for zero argon2id parameters")
	}
	if _, err := DeriveKey([]byte("pw"), []byte("short"), testKDFParams); err == nil {
		t.Error("Expected error for short salt")
	}
	if _, err := DeriveKey([]byte("pw"), nil, KDFParams{Algorithm: KDF(9)}); err == nil {
		t.Error("Expected error for unknown algorithm")
	}
}

func TestToken(t *testing.T) {
	salt, _ := NewSalt()
	aad := []byte("header")
	key := mustKey(t, "1234", salt, testKDFParams)
	nonce, _ := NewNonce()

	token, err := SealToken(key, nonce, aad)
	if err != nil {
		t.Fatalf("SealToken failed: %v", err)
	}

	if err := CheckToken(key, nonce, token, aad); err != nil {
		t.Errorf("Expected token to verify, got: %v", err)
	}

	wrong := mustKey(t, "12345", salt, testKDFParams)
	if err := CheckToken(wrong, nonce, token, aad); !errors.Is(err, verrors.ErrWrongPassword) {
		t.Errorf("Expected ErrWrongPassword, got: %v", err)
	}

	if err := CheckToken(key, nonce, token, []byte("tampered header")); !errors.Is(err, verrors.ErrWrongPassword) {
		t.Errorf("Expected ErrWrongPassword for tampered header, got: %v", err)
	}
}

func TestKeyDestroy(t *testing.T) {
	key, err := DeriveKey([]byte("1234"), nil, PaddedKDFParams())
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	key.Destroy()

	var zero [KeySize]byte
	if key.b != zero {
		t.Errorf("Expected key to be zeroed after Destroy")
	}

	// Destroy is safe to repeat and on nil.
	key.Destroy()
	var nilKey *Key
	nilKey.Destroy()
}

func TestParseKDF(t *testing.T) {
	tests := map[string]KDF{
		"padded":   KDFPadded,
		"argon2id": KDFArgon2id,
		"Argon2ID": KDFArgon2id,
		"":         KDFArgon2id,
	}
	for name, expected := range tests {
		got, err := ParseKDF(name)
		if err != nil {
			t.Errorf("ParseKDF(%q) failed: %v", name, err)
			continue
		}
		if got != expected {
			t.Errorf("ParseKDF(%q): expected %v, got %v", name, expected, got)
		}
	}

	if _, err := ParseKDF("scrypt"); err == nil {
		t.Error("Expected error for unknown algorithm")
	}
}
