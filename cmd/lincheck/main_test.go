// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"code.hybscloud.com/lincheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, exitLinearizable)
	assert.Equal(t, 1, exitNotLinearizable)
	assert.Equal(t, 2, exitError)
	assert.Equal(t, 3, exitTimeout)

	assert.Equal(t, exitLinearizable, exitCode(lincheck.Linearizable))
	assert.Equal(t, exitNotLinearizable, exitCode(lincheck.NotLinearizable))
	assert.Equal(t, exitTimeout, exitCode(lincheck.Timeout))
	assert.Equal(t, exitError, exitCode(0))
}

func TestRun(t *testing.T) {
	if lincheck.RaceEnabled {
		t.Skip("skip: lock-free containers use cross-variable memory ordering")
	}

	tests := []struct {
		name string
		args []string
	}{
		{"stack", []string{"--container", "stack", "--capacity", "4"}},
		{"mpmc", []string{"--container", "mpmc", "--capacity", "4"}},
		{"spsc", []string{"--container", "spsc", "--capacity", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			history := filepath.Join(dir, "history.json")
			prom := filepath.Join(dir, "lincheck.prom")

			args := append([]string{"run", "--threads", "2", "--ops", "300", "--seed", "9", "--timeout", "1m",
				"--history-out", history, "--metrics-out", prom, "--log-level", "error"}, tt.args...)
			code, stdout, stderr := runCLI(t, args...)
			require.Contains(t, []int{exitLinearizable, exitTimeout}, code, "stdout: %s\nstderr: %s", stdout, stderr)
			assert.Contains(t, stdout, "result: ")

			data, err := os.ReadFile(prom)
			require.NoError(t, err)
			assert.Contains(t, string(data), "lincheck_history_entries 1200")
			assert.Contains(t, string(data), "lincheck_checks_total")

			// The saved history checks the same way.
			model := "queue"
			if tt.name == "stack" {
				model = "stack"
			}
			code, stdout, _ = runCLI(t, "check", "--history", history, "--model", model, "--capacity", "4", "--log-level", "error")
			assert.Contains(t, []int{exitLinearizable, exitTimeout}, code, stdout)
		})
	}
}

func TestRun_ConfigFile(t *testing.T) {
	if lincheck.RaceEnabled {
		t.Skip("skip: lock-free containers use cross-variable memory ordering")
	}

	path := filepath.Join(t.TempDir(), "lincheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
container: mpmc
capacity: 8
workload:
  threads: 3
  ops_per_thread: 100
log:
  level: error
`), 0o644))

	code, stdout, stderr := runCLI(t, "run", "--config", path)
	require.Contains(t, []int{exitLinearizable, exitTimeout}, code, "stdout: %s\nstderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "operations: 300 (0 pending)")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown container", []string{"run", "--container", "deque"}},
		{"queue capacity", []string{"run", "--container", "mpmc", "--capacity", "6"}},
		{"spsc threads", []string{"run", "--container", "spsc", "--threads", "4"}},
		{"log format", []string{"run", "--log-format", "xml"}},
		{"missing config", []string{"run", "--config", "testdata/missing.yaml"}},
		{"extra args", []string{"run", "extra"}},
		{"unknown command", []string{"verify"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitError, code)
			assert.Contains(t, stderr, "lincheck: ")
		})
	}
}

func TestCheck_NotLinearizable(t *testing.T) {
	code, stdout, _ := runCLI(t, "check", "--history", "testdata/bad_pop.json", "--model", "stack", "--capacity", "4")
	assert.Equal(t, exitNotLinearizable, code)
	assert.Contains(t, stdout, "result: not_linearizable")
	assert.Contains(t, stdout, "counterexample: cannot place #1 t0 try_pop() -> true,2")
}

func TestCheck_QueueModel(t *testing.T) {
	// push/pop kinds are foreign to the queue model and fail there.
	code, _, _ := runCLI(t, "check", "--history", "testdata/bad_pop.json", "--model", "queue", "--capacity", "4")
	assert.Equal(t, exitNotLinearizable, code)
}

func TestCheck_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing history flag", []string{"check", "--capacity", "4"}},
		{"missing capacity flag", []string{"check", "--history", "testdata/bad_pop.json"}},
		{"unknown model", []string{"check", "--history", "testdata/bad_pop.json", "--capacity", "4", "--model", "deque"}},
		{"missing file", []string{"check", "--history", "testdata/missing.json", "--capacity", "4"}},
		{"broken links", []string{"check", "--history", "testdata/broken_links.json", "--capacity", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			assert.Equal(t, exitError, code)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info", "json")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = newLogger(&buf, "info", "xml")
	assert.Error(t, err)
}
