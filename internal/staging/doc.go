// Package staging manages the plaintext staging directory.
//
// Staged files mirror vault paths one to one: db/prod is staged at
// <dir>/db/prod. They exist so secrets can be edited with ordinary tools and
// are never a source of truth. Contents are stored verbatim, so binary
// secrets survive a round trip.
//
// The vault accepts a path that is also the prefix of another, such as a
// and a/b, but a filesystem cannot hold a file and a directory under the
// same name. Only one of them can be staged at a time; the other is
// reported as a per-path failure and stays in the vault untouched.
package staging
