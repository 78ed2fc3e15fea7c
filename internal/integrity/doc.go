// Package integrity computes and checks entry checksums.
//
// Each entry carries a CRC-32C over its stored bytes. The checksum catches
// accidental corruption of vault files, not tampering: anyone can recompute
// it, and it is checked without the password. Authenticity comes from the
// AEAD tag, which only the key can verify.
package integrity
