package integrity

import (
	"hash/crc32"
	"testing"

	"github.com/PolarWolf314/vault/internal/vaultfile"
)

func entry(path string) vaultfile.Entry {
	return vaultfile.Entry{
		Path:       path,
		Nonce:      make([]byte, 24),
		Ciphertext: []byte("0123456789abcdef-ciphertext"),
	}
}

func TestComputeCoversStoredBytes(t *testing.T) {
	base := entry("db/prod")
	sum := Compute(base)

	if Compute(entry("db/prod")) != sum {
		t.Fatalf("Expected Compute to be deterministic")
	}

	moved := entry("db/prox")
	if Compute(moved) == sum {
		t.Errorf("Expected path to be covered by the checksum")
	}

	flipped := entry("db/prod")
	flipped.Ciphertext = append([]byte(nil), base.Ciphertext...)
	flipped.Ciphertext[3] ^= 0x01
	if Compute(flipped) == sum {
		t.Errorf("Expected ciphertext to be covered by the checksum")
	}

	nonce := entry("db/prod")
	nonce.Nonce[0] = 1
	if Compute(nonce) == sum {
		t.Errorf("Expected nonce to be covered by the checksum")
	}
}

func TestComputeIsCastagnoli(t *testing.T) {
	e := vaultfile.Entry{Path: "a", Nonce: []byte{1}, Ciphertext: []byte{2}}
	raw := []byte{0, 1, 'a', 1, 0, 0, 0, 1, 2}
	want := crc32.Checksum(raw, crc32.MakeTable(crc32.Castagnoli))
	if got := Compute(e); got != want {
		t.Errorf("Expected %#x, got %#x", want, got)
	}
}

func TestCheck(t *testing.T) {
	e := entry("a")
	if got := Check(e); got != MissingChecksum {
		t.Errorf("Expected MissingChecksum, got %v", got)
	}

	Stamp(&e)
	if got := Check(e); got != OK {
		t.Errorf("Expected OK, got %v", got)
	}

	e.Ciphertext[0] ^= 0xff
	if got := Check(e); got != Mismatch {
		t.Errorf("Expected Mismatch, got %v", got)
	}
}

func TestVerifyAndUpdate(t *testing.T) {
	ok := entry("c")
	Stamp(&ok)
	bad := entry("a")
	Stamp(&bad)
	bad.Ciphertext[0] ^= 0xff
	missing := entry("b")

	f := &vaultfile.File{Entries: []vaultfile.Entry{ok, bad, missing}}

	reports := Verify(f)
	want := []EntryReport{{"a", Mismatch}, {"b", MissingChecksum}, {"c", OK}}
	if len(reports) != len(want) {
		t.Fatalf("Expected %d reports, got %d", len(want), len(reports))
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Errorf("Report %d: expected %+v, got %+v", i, want[i], reports[i])
		}
	}

	// Verify is read-only.
	if Check(f.Entries[1]) != Mismatch {
		t.Errorf("Expected Verify not to repair entries")
	}

	if n := Update(f); n != 2 {
		t.Errorf("Expected 2 entries updated, got %d", n)
	}
	for _, r := range Verify(f) {
		if r.Status != OK {
			t.Errorf("Expected %s to be OK after Update, got %v", r.Path, r.Status)
		}
	}
	if n := Update(f); n != 0 {
		t.Errorf("Expected second Update to change nothing, got %d", n)
	}
}
