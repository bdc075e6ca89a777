package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tenh "+version+"\n", out)
}

func TestEmbedExterior(t *testing.T) {
	out, _, err := execute(t, "embed", "ext", "2", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "ext(2,3)")
	assert.Contains(t, lines[1], "representative")
	assert.Contains(t, lines[2], "(0,1)")
	assert.Contains(t, lines[2], "+(0,1)")
	assert.Contains(t, lines[2], "-(1,0)")
}

func TestEmbedEmptyScalar(t *testing.T) {
	out, _, err := execute(t, "embed", "scalar2", "0")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "scalar2(0): 0 compact")
}

func TestEmbedErrors(t *testing.T) {
	tests := [][]string{
		{"embed", "nope", "1"},
		{"embed", "sym", "2"},
		{"embed", "sym", "two", "3"},
		{"embed", "ext", "0", "3"},
	}
	for _, args := range tests {
		_, _, err := execute(t, args...)
		assert.Error(t, err, "args %v", args)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	problem := `
spaces:
  - {name: V, dim: 2}
  - {name: M, tensor: [V, V*]}
tensors:
  - {name: A, space: M, components: [2, 0, 0, 3]}
  - {name: x, space: V, components: [1, 1]}
  - {name: y, space: V}
assignments:
  - target: y
    indices: [i]
    expr: {mul: [{leaf: A, indices: [i, j]}, {leaf: x, indices: [j]}]}
evaluations:
  - name: trace
    expr: {leaf: A, indices: [i, i]}
outputs:
  file: y.safetensors
  tensors: [y, A]
`
	path := filepath.Join(dir, "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(problem), 0o600))

	cfgPath := filepath.Join(dir, "tenh.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("parallel:\n  enabled: true\n  workers: 2\n  min_chunk: 1\n"), 0o600))

	out, stderr, err := execute(t, "run", path, "--config", cfgPath, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "y ∈ V")
	assert.Contains(t, out, "[2 3]")
	assert.Contains(t, out, "A ∈ (V⊗V*)")
	assert.Contains(t, out, "⎡")
	assert.Contains(t, out, "⎦")
	assert.Contains(t, out, "trace")
	assert.Contains(t, out, "5")
	assert.Contains(t, out, filepath.Join(dir, "y.safetensors"))
	assert.Contains(t, stderr, "assign")
	assert.Contains(t, stderr, "problem=problem.yaml")
	assert.FileExists(t, filepath.Join(dir, "y.safetensors"))
}

func TestRunErrors(t *testing.T) {
	_, _, err := execute(t, "run")
	assert.Error(t, err)

	_, _, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "run", "x.yaml", "--log-level", "loud")
	assert.Error(t, err)
}
