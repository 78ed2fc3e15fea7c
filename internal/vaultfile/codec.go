package vaultfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/secrets"

	"github.com/google/uuid"
)

// All integers are big-endian.
//
//	magic "VLTF" | version u16 | id [16] | kdf u8 | time u32 | memory u32 |
//	threads u8 | salt [32] | token_nonce [24] | token_len u16 | token |
//	entry_count u32 | entries
//
//	entry: path_len u16 | path | nonce [24] | ct_len u32 | ct |
//	       flags u8 | checksum u32
//
// The validation token authenticates every byte from magic through salt.

const (
	flagHasChecksum = 0x01

	maxCiphertextLength = 1 << 30
)

// HeaderAAD returns the header bytes authenticated by the validation token.
func (f *File) HeaderAAD() []byte {
	buf := make([]byte, 0, 4+2+16+1+4+4+1+len(f.Salt))
	buf = append(buf, Magic...)
	buf = binary.BigEndian.AppendUint16(buf, f.Version)
	buf = append(buf, f.ID[:]...)
	buf = append(buf, byte(f.KDF.Algorithm))
	buf = binary.BigEndian.AppendUint32(buf, f.KDF.Time)
	buf = binary.BigEndian.AppendUint32(buf, f.KDF.Memory)
	buf = append(buf, f.KDF.Threads)
	buf = append(buf, f.Salt...)
	return buf
}

// Marshal serialises f.
func Marshal(f *File) ([]byte, error) {
	if len(f.Salt) != secrets.SaltSize {
		return nil, fmt.Errorf("invalid salt length %d", len(f.Salt))
	}
	if len(f.TokenNonce) != secrets.NonceSize {
		return nil, fmt.Errorf("invalid token nonce length %d", len(f.TokenNonce))
	}
	if len(f.Token) == 0 || len(f.Token) > math.MaxUint16 {
		return nil, fmt.Errorf("vault file has no validation token")
	}
	if uint64(len(f.Entries)) > math.MaxUint32 {
		return nil, fmt.Errorf("too many entries: %d", len(f.Entries))
	}

	buf := f.HeaderAAD()
	buf = append(buf, f.TokenNonce...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(f.Token)))
	buf = append(buf, f.Token...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(f.Entries)))

	for _, e := range f.Entries {
		if len(e.Path) == 0 || len(e.Path) > math.MaxUint16 {
			return nil, fmt.Errorf("invalid path length %d", len(e.Path))
		}
		if len(e.Nonce) != secrets.NonceSize {
			return nil, fmt.Errorf("invalid nonce length %d for %s", len(e.Nonce), e.Path)
		}
		if len(e.Ciphertext) > maxCiphertextLength {
			return nil, fmt.Errorf("ciphertext for %s is too large", e.Path)
		}

		buf = binary.BigEndian.AppendUint16(buf, uint16(len(e.Path)))
		buf = append(buf, e.Path...)
		buf = append(buf, e.Nonce...)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(e.Ciphertext)))
		buf = append(buf, e.Ciphertext...)

		var flags byte
		if e.HasChecksum {
			flags |= flagHasChecksum
		}
		buf = append(buf, flags)
		buf = binary.BigEndian.AppendUint32(buf, e.Checksum)
	}

	return buf, nil
}

// Encode writes the serialised form of f to w.
func Encode(w io.Writer, f *File) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode reads a vault file from r.
func Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", verrors.ErrIO, err)
	}
	return Unmarshal(data)
}

// Unmarshal parses a vault file. Structural problems are ErrCorruptFile;
// a version newer than Version is ErrUnsupportedVersion.
func Unmarshal(data []byte) (*File, error) {
	d := &decoder{data: data}

	if !bytes.Equal(d.next(len(Magic)), []byte(Magic)) {
		return nil, corrupt("bad magic bytes")
	}

	f := &File{Version: d.u16()}
	if d.err != nil {
		return nil, d.err
	}
	if f.Version == 0 {
		return nil, corrupt("version 0")
	}
	if f.Version > Version {
		return nil, fmt.Errorf("%w: version %d, newest supported is %d", verrors.ErrUnsupportedVersion, f.Version, Version)
	}

	id, err := uuid.FromBytes(d.next(16))
	if d.err != nil {
		return nil, d.err
	}
	if err != nil {
		return nil, corrupt("bad file id")
	}
	f.ID = id

	f.KDF = secrets.KDFParams{
		Algorithm: secrets.KDF(d.u8()),
		Time:      d.u32(),
		Memory:    d.u32(),
		Threads:   d.u8(),
	}
	f.Salt = d.copy(secrets.SaltSize)
	f.TokenNonce = d.copy(secrets.NonceSize)
	f.Token = d.copy(int(d.u16()))
	count := d.u32()
	if d.err != nil {
		return nil, d.err
	}
	if err := f.KDF.Validate(); err != nil {
		return nil, corrupt(err.Error())
	}
	if len(f.Token) < secrets.Overhead {
		return nil, corrupt("validation token too short")
	}

	// Every entry takes at least this many bytes, which bounds the allocation.
	const minEntrySize = 2 + 1 + secrets.NonceSize + 4 + secrets.Overhead + 1 + 4
	if uint64(count)*minEntrySize > uint64(d.remaining()) {
		return nil, corrupt(fmt.Sprintf("entry count %d exceeds file size", count))
	}

	f.Entries = make([]Entry, 0, count)
	seen := make(map[string]bool, count)
	for i := uint32(0); i < count; i++ {
		var e Entry
		e.Path = string(d.next(int(d.u16())))
		e.Nonce = d.copy(secrets.NonceSize)
		ctLen := d.u32()
		if ctLen > maxCiphertextLength {
			return nil, corrupt(fmt.Sprintf("entry %d ciphertext too large", i))
		}
		e.Ciphertext = d.copy(int(ctLen))
		flags := d.u8()
		e.Checksum = d.u32()
		if d.err != nil {
			return nil, d.err
		}

		if e.Path == "" {
			return nil, corrupt(fmt.Sprintf("entry %d has an empty path", i))
		}
		if seen[e.Path] {
			return nil, corrupt(fmt.Sprintf("duplicate path %q", e.Path))
		}
		if len(e.Ciphertext) < secrets.Overhead {
			return nil, corrupt(fmt.Sprintf("ciphertext for %q is too short", e.Path))
		}
		if flags&^flagHasChecksum != 0 {
			return nil, corrupt(fmt.Sprintf("unknown flags %#x for %q", flags, e.Path))
		}
		e.HasChecksum = flags&flagHasChecksum != 0
		seen[e.Path] = true
		f.Entries = append(f.Entries, e)
	}

	if d.remaining() != 0 {
		return nil, corrupt(fmt.Sprintf("%d trailing bytes", d.remaining()))
	}

	return f, nil
}

func corrupt(reason string) error {
	return fmt.Errorf("%w: %s", verrors.ErrCorruptFile, reason)
}

// decoder reads fields from data; after the first short read every call is a
// no-op and err holds ErrCorruptFile.
type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > d.remaining() {
		d.err = corrupt("truncated")
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) copy(n int) []byte {
	b := d.next(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (d *decoder) u8() uint8 {
	b := d.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u16() uint16 {
	b := d.next(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) u32() uint32 {
	b := d.next(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}
