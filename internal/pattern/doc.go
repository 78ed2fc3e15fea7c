// Package pattern matches glob patterns against vault path keys.
//
// Patterns follow doublestar syntax with "/" as the separator:
//
//	db/prod        exactly that path
//	db/*           direct children of db
//	db/**          everything under db
//	db**           every path starting with "db"
//	db/{prod,dev}  alternatives
//
// Matching never touches the filesystem.
package pattern
