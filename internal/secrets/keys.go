package secrets

import (
	"bytes"
	"fmt"
	"strings"

	verrors "github.com/PolarWolf314/vault/internal/errors"

	"golang.org/x/crypto/argon2"
)

// KDF identifies how a password is bound to a vault file key.
type KDF uint8

const (
	// KDFPadded zero-fills the password to KeySize and uses it as the key directly.
	KDFPadded KDF = 0

	// KDFArgon2id derives the key with argon2id over the file salt.
	KDFArgon2id KDF = 1
)

// String returns the configuration name of the algorithm.
func (k KDF) String() string {
	switch k {
	case KDFPadded:
		return "padded"
	case KDFArgon2id:
		return "argon2id"
	default:
		return fmt.Sprintf("kdf(%d)", uint8(k))
	}
}

// ParseKDF parses a configuration name into a KDF.
func ParseKDF(name string) (KDF, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "padded", "none":
		return KDFPadded, nil
	case "argon2id", "":
		return KDFArgon2id, nil
	default:
		return 0, fmt.Errorf("unknown key derivation algorithm %q", name)
	}
}

// KDFParams are stored in every vault file header so the key can be re-derived.
// Time, Memory (KiB) and Threads are zero for KDFPadded.
type KDFParams struct {
	Algorithm KDF
	Time      uint32
	Memory    uint32
	Threads   uint8
}

// DefaultKDFParams returns the parameters used for newly created vault files.
func DefaultKDFParams() KDFParams {
	return KDFParams{Algorithm: KDFArgon2id, Time: 3, Memory: 64 * 1024, Threads: 4}
}

// PaddedKDFParams returns the parameters of the no-derivation compatibility mode.
func PaddedKDFParams() KDFParams {
	return KDFParams{Algorithm: KDFPadded}
}

// Validate reports whether the parameters can derive a key.
func (p KDFParams) Validate() error {
	switch p.Algorithm {
	case KDFPadded:
		if p.Time != 0 || p.Memory != 0 || p.Threads != 0 {
			return fmt.Errorf("padded key binding takes no parameters")
		}
		return nil
	case KDFArgon2id:
		if p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
			return fmt.Errorf("argon2id parameters must be non-zero (time=%d memory=%d threads=%d)", p.Time, p.Memory, p.Threads)
		}
		return nil
	default:
		return fmt.Errorf("unknown key derivation algorithm %d", uint8(p.Algorithm))
	}
}

// Key is a vault file key. Call Destroy once it is no longer needed.
type Key struct {
	b      [KeySize]byte
	locked bool
}

func newKey() *Key {
	k := &Key{}
	k.locked = lockMemory(k.b[:]) == nil
	return k
}

// Destroy zeroes the key and releases its memory lock.
func (k *Key) Destroy() {
	if k == nil {
		return
	}
	Zero(k.b[:])
	if k.locked {
		_ = unlockMemory(k.b[:])
		k.locked = false
	}
}

// ValidatePassword checks the password can be bound to a key.
//
// Passwords are limited to KeySize bytes and may not contain NUL, which keeps
// zero-fill padding injective: no two accepted passwords share a padded key.
func ValidatePassword(password []byte) error {
	if len(password) == 0 {
		return verrors.ErrEmptyPassword
	}
	if len(password) > MaxPasswordLength {
		return verrors.ErrPasswordTooLong
	}
	if bytes.IndexByte(password, 0) >= 0 {
		return verrors.ErrInvalidPassword
	}
	return nil
}

// DeriveKey binds a password to a vault file key. The result is deterministic
// for the same password, salt and parameters.
func DeriveKey(password, salt []byte, params KDFParams) (*Key, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	key := newKey()
	switch params.Algorithm {
	case KDFPadded:
		copy(key.b[:], password)
	case KDFArgon2id:
		if len(salt) != SaltSize {
			key.Destroy()
			return nil, fmt.Errorf("invalid salt length: expected %d bytes, got %d bytes", SaltSize, len(salt))
		}
		derived := argon2.IDKey(password, salt, params.Time, params.Memory, params.Threads, KeySize)
		copy(key.b[:], derived)
		Zero(derived)
	}

	return key, nil
}
