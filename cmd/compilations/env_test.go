package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// binPath is the compilations binary built by TestMain.
	binPath string
	// buildErr captures any build error.
	buildErr error
)

// buildError wraps a build error with the compiler output.
type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// testEnv is an isolated config and data directory pair. Several testEnvs
// may share one data directory to model separate tools sharing a store.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T, dataDir string) *testEnv {
	t.Helper()
	if buildErr != nil {
		t.Fatalf("failed to build compilations: %v", buildErr)
	}
	return &testEnv{
		t:         t,
		configDir: filepath.Join(t.TempDir(), "config"),
		dataDir:   dataDir,
	}
}

// cmdResult holds the result of one CLI invocation.
type cmdResult struct {
	stdout   string
	stderr   string
	exitCode int
}

func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()

	all := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	cmd := exec.Command(binPath, all...)
	cmd.Env = append(os.Environ(), "COMPILATIONS_DATA_DIR=", "COMPILATIONS_CONFIG_DIR=")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			e.t.Fatalf("failed to run compilations: %v", err)
		}
		exitCode = exitErr.ExitCode()
	}
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), exitCode: exitCode}
}

func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run(args...)
	require.Equal(e.t, 0, res.exitCode, "compilations %v\nstdout: %s\nstderr: %s", args, res.stdout, res.stderr)
	return res
}

// parseJSON decodes CLI output into T.
func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %q", s)
	return v
}
