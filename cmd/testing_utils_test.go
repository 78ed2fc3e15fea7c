package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"testing"

	"github.com/PolarWolf314/vault/internal/configs"
)

const testPassword = "correct horse"

// testEnv is a working directory with a cheap vault.toml and a fixed
// password source.
type testEnv struct {
	t        *testing.T
	dir      string
	password string
	stdin    string
}

// setupTestEnvironment creates a working directory and swaps the password
// and stdin readers for the duration of the test.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{t: t, dir: t.TempDir(), password: testPassword}

	config := configs.DefaultConfig()
	config.KDF.Time = 1
	config.KDF.MemoryKiB = 64
	config.KDF.Threads = 1
	if err := configs.SaveConfig(env.dir, config); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	originalPasswordReader := passwordReader
	originalStdinReader := stdinReader
	t.Cleanup(func() {
		passwordReader = originalPasswordReader
		stdinReader = originalStdinReader
		ResetGlobalState()
	})

	passwordReader = func(bool) ([]byte, error) {
		return []byte(env.password), nil
	}
	stdinReader = func() ([]byte, error) {
		return []byte(env.stdin), nil
	}

	return env
}

// run executes the CLI against the environment's working directory.
func (env *testEnv) run(args ...string) (string, error) {
	env.t.Helper()
	ResetGlobalState()
	RootCmd.SetArgs(append([]string{"--chdir", env.dir}, args...))
	return captureOutput(func() error {
		return RootCmd.Execute()
	})
}

// mustRun executes the CLI and fails the test on error.
func (env *testEnv) mustRun(args ...string) string {
	env.t.Helper()
	output, err := env.run(args...)
	if err != nil {
		env.t.Fatalf("vault %v failed: %v\nOutput: %s", args, err, output)
	}
	return output
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}
