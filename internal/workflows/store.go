package workflows

import (
	"errors"
	"io/fs"

	"github.com/PolarWolf314/vault/internal/secrets"
	"github.com/PolarWolf314/vault/internal/vaultfile"
)

// readShared reads a vault file under a shared lock.
func readShared(file string) (*vaultfile.File, error) {
	unlock, err := vaultfile.RLock(file)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return vaultfile.Read(file)
}

// update runs fn against the vault file under an exclusive lock and writes
// the result atomically. A missing file is created when create is set and
// otherwise returned as an fs.ErrNotExist error. The key is checked before
// fn runs. A file left without entries is deleted.
func (s *Session) update(file string, create bool, fn func(f *vaultfile.File, key *secrets.Key) error) error {
	unlock, err := vaultfile.Lock(file)
	if err != nil {
		return err
	}
	defer unlock()

	f, err := vaultfile.Read(file)
	var key *secrets.Key
	switch {
	case err == nil:
		key, err = s.key(f)
		if err != nil {
			return err
		}
	case create && errors.Is(err, fs.ErrNotExist):
		f, key, err = s.newFile()
		if err != nil {
			return err
		}
		s.log.Debugf("Creating vault file %s", s.rel(file))
	default:
		return err
	}

	if err := fn(f, key); err != nil {
		return err
	}

	if len(f.Entries) == 0 {
		s.log.Debugf("Removing empty vault file %s", s.rel(file))
		return vaultfile.Remove(file)
	}
	return vaultfile.Write(file, f)
}

// sealEntry encrypts contents for path under key with a fresh nonce.
func sealEntry(key *secrets.Key, path string, contents []byte) (vaultfile.Entry, error) {
	nonce, err := secrets.NewNonce()
	if err != nil {
		return vaultfile.Entry{}, err
	}
	ciphertext, err := secrets.Seal(key, nonce, contents, []byte(path))
	if err != nil {
		return vaultfile.Entry{}, err
	}
	return vaultfile.Entry{Path: path, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// openEntry decrypts e. The caller must Zero the result.
func openEntry(key *secrets.Key, e *vaultfile.Entry) ([]byte, error) {
	return secrets.Open(key, e.Nonce, e.Ciphertext, []byte(e.Path))
}
