// Package index maps hierarchical path keys to the vault files that store them.
//
// The first segment of a multi-segment path is its namespace and every
// namespace has its own vault file, so "db/prod" and "db/staging" share
// ns-db.vlt while "api/key" lives in ns-api.vlt. Single-segment paths live in
// root.vlt. The mapping is a pure function of the path; the index never
// stores state of its own and is recomputed from the directory on every call.
package index
