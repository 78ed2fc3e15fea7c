// Package configs loads the vault configuration.
//
// Configuration lives in vault.toml in the working directory and is
// optional; every key has a default:
//
//	[storage]
//	lock_dir = "vault-lock"      # encrypted vault files and the audit log
//	unlock_dir = "vault-unlock"  # plaintext staging area
//
//	[kdf]
//	algorithm = "argon2id"       # or "padded"
//	time = 3
//	memory_kib = 65536
//	threads = 4
//
//	[audit]
//	enabled = true
//
// The [kdf] table only applies to vault files created from now on. Each
// vault file records its own parameters, so changing them never locks out
// existing secrets.
//
// # Settings
//
// InitSettings resolves the configuration against a working directory into
// Settings, the absolute paths and options the workflows run with.
package configs
