package cmd

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/vault/internal/audit"
	"github.com/PolarWolf314/vault/internal/configs"
	verrors "github.com/PolarWolf314/vault/internal/errors"
	"github.com/PolarWolf314/vault/internal/vaultfile"
)

func TestBareRootShowsHint(t *testing.T) {
	env := setupTestEnvironment(t)

	output := env.mustRun()
	if !strings.Contains(output, "vault --help") {
		t.Errorf("Expected hint in output, got: %s", output)
	}
}

func TestSetGetCommand(t *testing.T) {
	env := setupTestEnvironment(t)

	output := env.mustRun("set", "db/prod", "postgres://prod")
	if !strings.Contains(output, "Stored") {
		t.Errorf("Expected 'Stored' in output, got: %s", output)
	}

	output = env.mustRun("get", "db/prod")
	if output != "postgres://prod" {
		t.Errorf("Expected secret without trailing newline, got %q", output)
	}

	output = env.mustRun("set", "db/prod", "postgres://new")
	if !strings.Contains(output, "Updated") {
		t.Errorf("Expected 'Updated' in output, got: %s", output)
	}
	if output := env.mustRun("get", "db/prod"); output != "postgres://new" {
		t.Errorf("Expected updated secret, got %q", output)
	}

	if _, err := os.Stat(filepath.Join(env.dir, "vault-lock", "ns-db.vlt")); err != nil {
		t.Errorf("Expected ns-db.vlt to exist: %v", err)
	}
}

func TestSetFromStdin(t *testing.T) {
	env := setupTestEnvironment(t)
	env.stdin = "line one\nline two\n"

	env.mustRun("set", "notes")

	if output := env.mustRun("get", "notes"); output != env.stdin {
		t.Errorf("Expected %q, got %q", env.stdin, output)
	}
}

func TestSetEmptyValueRemoves(t *testing.T) {
	env := setupTestEnvironment(t)

	env.mustRun("set", "token", "abc")
	output := env.mustRun("set", "token", "")
	if !strings.Contains(output, "Removed") {
		t.Errorf("Expected 'Removed' in output, got: %s", output)
	}

	_, err := env.run("get", "token")
	if !errors.Is(err, verrors.ErrPathNotFound) {
		t.Errorf("Expected ErrPathNotFound, got %v", err)
	}

	output = env.mustRun("set", "token", "")
	if !strings.Contains(output, "empty value ignored") {
		t.Errorf("Expected no-op warning, got: %s", output)
	}
}

func TestRmCommand(t *testing.T) {
	env := setupTestEnvironment(t)

	env.mustRun("set", "db/prod", "a")
	env.mustRun("rm", "db/prod")

	if _, err := os.Stat(filepath.Join(env.dir, "vault-lock", "ns-db.vlt")); !os.IsNotExist(err) {
		t.Errorf("Expected the emptied vault file to be deleted, got %v", err)
	}

	_, err := env.run("rm", "db/prod")
	if !errors.Is(err, verrors.ErrPathNotFound) {
		t.Errorf("Expected ErrPathNotFound, got %v", err)
	}
}

func TestGetErrors(t *testing.T) {
	env := setupTestEnvironment(t)
	env.mustRun("set", "db/prod", "a")

	tests := []struct {
		name     string
		password string
		path     string
		want     error
	}{
		{"MissingPath", testPassword, "db/dev", verrors.ErrPathNotFound},
		{"WrongPassword", "wrong", "db/prod", verrors.ErrWrongPassword},
		{"InvalidPath", testPassword, "/db", verrors.ErrInvalidPath},
		{"PasswordTooLong", strings.Repeat("x", 33), "db/prod", verrors.ErrPasswordTooLong},
		{"EmptyPassword", "", "db/prod", verrors.ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.password = tt.password
			defer func() { env.password = testPassword }()

			_, err := env.run("get", tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLsCommand(t *testing.T) {
	env := setupTestEnvironment(t)
	for _, p := range []string{"db/prod", "db/staging", "api/key", "token"} {
		env.mustRun("set", p, "v")
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"ls"}, "api/key\ndb/prod\ndb/staging\ntoken\n"},
		{[]string{"ls", "db/*"}, "db/prod\ndb/staging\n"},
		{[]string{"ls", "nothing/*"}, ""},
		{[]string{"ls", "--dir"}, "api/\ndb/\ntoken\n"},
		{[]string{"ls", "--dir", "db"}, "prod\nstaging\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if output := env.mustRun(tt.args...); output != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, output)
			}
		})
	}

	_, err := env.run("ls", "/db")
	if !errors.Is(err, verrors.ErrInvalidPattern) {
		t.Errorf("Expected ErrInvalidPattern, got %v", err)
	}
}

func TestLsReportsUnreadableFiles(t *testing.T) {
	env := setupTestEnvironment(t)
	env.mustRun("set", "db/prod", "v")
	if err := os.WriteFile(filepath.Join(env.dir, "vault-lock", "ns-zzz.vlt"), []byte("garbage"), 0600); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	output, err := env.run("ls", "db/*")
	if !errors.Is(err, verrors.ErrCorruptFile) {
		t.Fatalf("Expected ErrCorruptFile, got %v", err)
	}
	if !strings.HasPrefix(output, "db/prod\n") {
		t.Errorf("Expected readable paths to be listed first, got %q", output)
	}
	if !strings.Contains(output, "ns-zzz.vlt") {
		t.Errorf("Expected the unreadable file to be named, got %q", output)
	}
}

func TestStagingCommands(t *testing.T) {
	env := setupTestEnvironment(t)
	env.mustRun("set", "db/prod", "old")
	env.mustRun("set", "db/staging", "keep")

	output := env.mustRun("fget", "db/*")
	if !strings.Contains(output, "Decrypted 2 secrets") {
		t.Errorf("Expected decrypt summary, got: %s", output)
	}
	if !strings.Contains(output, "2 secrets of plaintext now in") || !strings.Contains(output, "vault fclr") {
		t.Errorf("Expected plaintext warning, got: %s", output)
	}

	staged := filepath.Join(env.dir, "vault-unlock", "db", "prod")
	data, err := os.ReadFile(staged)
	if err != nil {
		t.Fatalf("Expected staged file: %v", err)
	}
	if string(data) != "old" {
		t.Errorf("Expected staged contents %q, got %q", "old", data)
	}

	if err := os.WriteFile(staged, []byte("new"), 0600); err != nil {
		t.Fatalf("Failed to edit staged file: %v", err)
	}

	output = env.mustRun("fset")
	if !strings.Contains(output, "Encrypted 2 secrets") {
		t.Errorf("Expected encrypt summary, got: %s", output)
	}

	if output := env.mustRun("get", "db/prod"); output != "new" {
		t.Errorf("Expected edited secret, got %q", output)
	}
	if output := env.mustRun("get", "db/staging"); output != "keep" {
		t.Errorf("Expected untouched secret, got %q", output)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "vault-unlock", "db")); !os.IsNotExist(err) {
		t.Errorf("Expected staging tree to be pruned, got %v", err)
	}
}

func TestFclrCommand(t *testing.T) {
	env := setupTestEnvironment(t)
	env.mustRun("set", "db/prod", "secret")
	env.mustRun("fget")

	env.password = "not needed"
	output := env.mustRun("fclr")
	if !strings.Contains(output, "Cleared 1 secret") {
		t.Errorf("Expected clear summary, got: %s", output)
	}

	if _, err := os.Stat(filepath.Join(env.dir, "vault-unlock", "db", "prod")); !os.IsNotExist(err) {
		t.Errorf("Expected staged file to be removed, got %v", err)
	}

	_, err := env.run("fclr")
	if !errors.Is(err, verrors.ErrNoFilesFound) {
		t.Errorf("Expected ErrNoFilesFound, got %v", err)
	}
}

func TestFsetWrongPasswordFails(t *testing.T) {
	env := setupTestEnvironment(t)
	env.mustRun("set", "db/prod", "secret")
	env.mustRun("fget")

	env.password = "wrong"
	output, err := env.run("fset")
	if !errors.Is(err, verrors.ErrWrongPassword) {
		t.Fatalf("Expected ErrWrongPassword, got %v", err)
	}
	if !strings.Contains(output, "1 secret failed") {
		t.Errorf("Expected failure summary, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "vault-unlock", "db", "prod")); err != nil {
		t.Errorf("Expected staged file to be kept: %v", err)
	}
}

func TestCrcCommand(t *testing.T) {
	env := setupTestEnvironment(t)
	env.mustRun("set", "db/prod", "secret")
	env.mustRun("set", "db/staging", "other")

	output := env.mustRun("crc")
	if !strings.Contains(output, "db/prod") || !strings.Contains(output, "2 ok, 0 mismatched") {
		t.Errorf("Expected clean report, got: %s", output)
	}

	file := filepath.Join(env.dir, "vault-lock", "ns-db.vlt")
	f, err := vaultfile.Read(file)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	e, _ := f.Find("db/prod")
	e.Ciphertext[0] ^= 0x01
	if err := vaultfile.Write(file, f); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	output, err = env.run("crc")
	if !errors.Is(err, verrors.ErrChecksumMismatch) {
		t.Fatalf("Expected ErrChecksumMismatch, got %v", err)
	}
	if !strings.Contains(output, "1 ok, 1 mismatched") {
		t.Errorf("Expected mismatch in report, got: %s", output)
	}

	output = env.mustRun("crc", "--force-update")
	if !strings.Contains(output, "Updated 1 checksum") {
		t.Errorf("Expected update summary, got: %s", output)
	}
	env.mustRun("crc")
}

func TestZipCommand(t *testing.T) {
	env := setupTestEnvironment(t)
	env.mustRun("set", "db/prod", "a")
	env.mustRun("set", "token", "b")

	env.mustRun("zip", "-o", "backup.zip")

	r, err := zip.OpenReader(filepath.Join(env.dir, "backup.zip"))
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "ns-db.vlt,root.vlt" {
		t.Errorf("Expected ns-db.vlt and root.vlt, got %v", names)
	}
}

func TestLogCommand(t *testing.T) {
	env := setupTestEnvironment(t)

	output := env.mustRun("log")
	if !strings.Contains(output, "No audit log entries found.") {
		t.Errorf("Expected empty log message, got: %s", output)
	}

	env.mustRun("set", "db/prod", "a")
	env.mustRun("rm", "db/prod")

	output = env.mustRun("log", "--operation", "rm")
	if !strings.Contains(output, "rm") || !strings.Contains(output, "db/prod") || strings.Contains(output, " set ") {
		t.Errorf("Expected only the rm entry, got: %s", output)
	}

	output = env.mustRun("log", "--json")
	var entries []audit.Entry
	if err := json.Unmarshal([]byte(output), &entries); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	if len(entries) != 2 || entries[0].Operation != "set" || entries[1].Operation != "rm" {
		t.Errorf("Expected set then rm, got %+v", entries)
	}

	_, err := env.run("log", "--since", "yesterday")
	if !errors.Is(err, verrors.ErrInvalidDateFormat) {
		t.Errorf("Expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupTestEnvironment(t)
	env.dir = t.TempDir()

	output := env.mustRun("config", "init")
	if !strings.Contains(output, "Wrote") {
		t.Errorf("Expected 'Wrote' in output, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(env.dir, configs.FileName)); err != nil {
		t.Fatalf("Expected %s to exist: %v", configs.FileName, err)
	}

	output = env.mustRun("config", "init")
	if !strings.Contains(output, "already exists") {
		t.Errorf("Expected 'already exists' in output, got: %s", output)
	}
	env.mustRun("config", "init", "--force")

	output = env.mustRun("config", "show", "--json")
	var shown settingsJSON
	if err := json.Unmarshal([]byte(output), &shown); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	if shown.LockDir != filepath.Join(env.dir, "vault-lock") {
		t.Errorf("Expected lock dir under %s, got %s", env.dir, shown.LockDir)
	}
	if shown.KDF.Algorithm != "argon2id" {
		t.Errorf("Expected argon2id, got %s", shown.KDF.Algorithm)
	}
}

func TestReadPasswordRejectsSharedStdin(t *testing.T) {
	t.Cleanup(ResetGlobalState)
	passwordStdin = true

	if _, err := readPassword(true); err == nil {
		t.Error("Expected an error when stdin carries both value and password")
	}
}

func TestExplainKeepsCause(t *testing.T) {
	err := explain(verrors.ErrWrongPassword)
	if !errors.Is(err, verrors.ErrWrongPassword) {
		t.Errorf("Expected wrapped ErrWrongPassword, got %v", err)
	}
	if err.Error() == verrors.ErrWrongPassword.Error() {
		t.Errorf("Expected a friendlier message, got %q", err.Error())
	}
	if explain(nil) != nil {
		t.Error("Expected nil for nil error")
	}
}
