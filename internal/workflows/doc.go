// Package workflows implements the vault operations.
//
// Workflows coordinate the index, vault files, staging area, integrity
// checks and audit log to implement complete user-facing features. Each
// workflow handles a single command's logic, independent of CLI concerns
// like flag parsing, prompts, spinners and output formatting.
//
// # Sessions
//
// Every workflow runs in a Session that holds the password and resolved
// settings. Keys are derived at most once per vault file and cached by file
// ID; Close zeroes the password and every cached key.
//
//	s := workflows.NewSession(settings, password, log)
//	defer s.Close()
//	secret, err := workflows.Get(ctx, s, "db/prod")
//
// # Available Workflows
//
//   - Get, Set, Remove: single secrets
//   - List, Explore: enumerate stored paths
//   - Unlock (fget), Relock (fset), ClearStaged (fclr): staging batches
//   - Verify (crc): checksum reports and forced updates
//   - Backup (zip): archive every vault file
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. Batch
// workflows keep going past per-path failures and report them in
// BatchResult.Failed:
//
//	result, err := workflows.Unlock(ctx, s, "db/*")
//	for _, f := range result.Failed {
//	    if errors.Is(f.Err, verrors.ErrAuthenticationFailed) {
//	        // The entry was tampered with.
//	    }
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter
// and check it between vault files.
package workflows
