// Package vaultfile reads and writes vault files.
//
// A vault file holds the entries of one namespace. Its header carries the
// format version, a random file ID, the key binding parameters, the salt and
// a validation token that is opened to check the password before any entry
// is touched. Paths are stored in cleartext; only contents are encrypted.
//
// Writes are atomic: the new file is written and synced beside the old one
// and renamed over it. Callers serialise read-modify-write cycles with Lock.
package vaultfile
