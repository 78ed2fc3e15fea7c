// Package secrets provides the cryptographic primitives of the vault.
//
// # Encryption
//
// Every secret is sealed with XChaCha20-Poly1305 under the key of the vault
// file that holds it. The 192-bit nonce is drawn at random for each write,
// which keeps random nonces safe from birthday collisions over the lifetime
// of a file. Open fails closed: a tag mismatch yields ErrAuthenticationFailed
// and never partial plaintext.
//
// # Key Binding
//
// A password is at most 32 bytes and is bound to a 256-bit key in one of two
// ways, recorded in the vault file header:
//
//   - padded: the password is zero-filled to 32 bytes and used as the key.
//     There is no derivation step, so the key carries only the entropy of
//     the password and brute force is cheap. Kept for compatibility.
//   - argon2id: the key is derived with argon2id over the file's salt. This
//     is the default for new files.
//
// # Validation Token
//
// Each vault file header carries a token sealed under the file key. Opening
// it confirms a password without decrypting any entry; failure is reported
// as ErrWrongPassword.
//
// # Memory Hygiene
//
// Keys live in a Key value that is mlock'ed where the platform allows and
// zeroed by Destroy. Plaintext buffers should be passed to Zero once used.
package secrets
