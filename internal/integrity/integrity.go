package integrity

import (
	"encoding/binary"
	"hash/crc32"
	"sort"

	"github.com/PolarWolf314/vault/internal/vaultfile"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Status is the outcome of checking one entry.
type Status int

const (
	// OK means the stored checksum matches the entry.
	OK Status = iota

	// Mismatch means the stored checksum differs from the recomputed one.
	Mismatch

	// MissingChecksum means the entry was written without a checksum.
	MissingChecksum
)

// String returns the status as shown in crc reports.
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Mismatch:
		return "mismatch"
	case MissingChecksum:
		return "missing checksum"
	default:
		return "unknown"
	}
}

// Compute returns the CRC-32C of the entry's stored bytes:
// path_len | path | nonce | ct_len | ct. It needs no key.
func Compute(e vaultfile.Entry) uint32 {
	var lenBuf [4]byte
	h := crc32.New(castagnoli)

	binary.BigEndian.PutUint16(lenBuf[:2], uint16(len(e.Path)))
	h.Write(lenBuf[:2])
	h.Write([]byte(e.Path))
	h.Write(e.Nonce)
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(e.Ciphertext)))
	h.Write(lenBuf[:])
	h.Write(e.Ciphertext)

	return h.Sum32()
}

// Stamp records the current checksum on e.
func Stamp(e *vaultfile.Entry) {
	e.Checksum = Compute(*e)
	e.HasChecksum = true
}

// Check compares the stored checksum with a fresh computation.
func Check(e vaultfile.Entry) Status {
	if !e.HasChecksum {
		return MissingChecksum
	}
	if e.Checksum != Compute(e) {
		return Mismatch
	}
	return OK
}

// EntryReport is the check result for one path.
type EntryReport struct {
	Path   string
	Status Status
}

// Verify checks every entry of f, sorted by path. It never modifies f.
func Verify(f *vaultfile.File) []EntryReport {
	reports := make([]EntryReport, 0, len(f.Entries))
	for _, e := range f.Entries {
		reports = append(reports, EntryReport{Path: e.Path, Status: Check(e)})
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Path < reports[j].Path
	})
	return reports
}

// Update stamps every entry whose checksum is missing or stale and returns
// how many changed.
func Update(f *vaultfile.File) int {
	changed := 0
	for i := range f.Entries {
		if Check(f.Entries[i]) != OK {
			Stamp(&f.Entries[i])
			changed++
		}
	}
	return changed
}
