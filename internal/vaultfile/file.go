package vaultfile

import (
	"fmt"
	"sort"

	"github.com/PolarWolf314/vault/internal/secrets"

	"github.com/google/uuid"
)

const (
	// Magic opens every vault file.
	Magic = "VLTF"

	// Version is the newest format version this package reads and the one it writes.
	Version uint16 = 1

	// Extension is the file extension of vault files.
	Extension = ".vlt"
)

// Entry is one secret. Path is stored in cleartext; only contents are encrypted.
type Entry struct {
	Path       string
	Nonce      []byte
	Ciphertext []byte

	// Checksum is meaningful only when HasChecksum is set.
	Checksum    uint32
	HasChecksum bool
}

// File is the in-memory form of one vault file.
type File struct {
	Version    uint16
	ID         uuid.UUID
	KDF        secrets.KDFParams
	Salt       []byte
	TokenNonce []byte
	Token      []byte
	Entries    []Entry
}

// New creates an empty vault file with fresh random salt and token nonce.
// The caller must Seal it with the file key before writing.
func New(params secrets.KDFParams) (*File, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	salt, err := secrets.NewSalt()
	if err != nil {
		return nil, err
	}
	nonce, err := secrets.NewNonce()
	if err != nil {
		return nil, err
	}
	return &File{
		Version:    Version,
		ID:         uuid.New(),
		KDF:        params,
		Salt:       salt,
		TokenNonce: nonce,
	}, nil
}

// DeriveKey binds password to this file's key.
func (f *File) DeriveKey(password []byte) (*secrets.Key, error) {
	return secrets.DeriveKey(password, f.Salt, f.KDF)
}

// Seal stores the validation token for key. Only done once, at creation.
func (f *File) Seal(key *secrets.Key) error {
	token, err := secrets.SealToken(key, f.TokenNonce, f.HeaderAAD())
	if err != nil {
		return fmt.Errorf("sealing validation token: %w", err)
	}
	f.Token = token
	return nil
}

// CheckKey returns ErrWrongPassword unless key opens the validation token.
func (f *File) CheckKey(key *secrets.Key) error {
	return secrets.CheckToken(key, f.TokenNonce, f.Token, f.HeaderAAD())
}

// Find returns the entry stored at path.
func (f *File) Find(path string) (*Entry, bool) {
	for i := range f.Entries {
		if f.Entries[i].Path == path {
			return &f.Entries[i], true
		}
	}
	return nil, false
}

// Put stores e, replacing any entry at the same path in place.
// It reports whether an entry was replaced.
func (f *File) Put(e Entry) bool {
	if existing, ok := f.Find(e.Path); ok {
		*existing = e
		return true
	}
	f.Entries = append(f.Entries, e)
	return false
}

// Delete removes the entry at path and reports whether it existed.
func (f *File) Delete(path string) bool {
	for i := range f.Entries {
		if f.Entries[i].Path == path {
			f.Entries = append(f.Entries[:i], f.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Paths returns the stored paths in lexicographic order.
func (f *File) Paths() []string {
	paths := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		paths = append(paths, e.Path)
	}
	sort.Strings(paths)
	return paths
}
