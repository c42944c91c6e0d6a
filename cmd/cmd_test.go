package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/csv-field-rewriter/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command. Flags keep their values between runs, so
// every test passes --config, --input and --output explicitly.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rewriter.yaml")
	input := filepath.Join(dir, "random_data.csv")
	output := filepath.Join(dir, "output.csv")
	writeFile(t, cfgPath, "log_level: warn\n")
	writeFile(t, input, "name,age\nAlice,30\nBob,25\n")

	stdout, _, err := execute(t, "process", "--config", cfgPath, "-i", input, "-o", output)
	require.NoError(t, err)
	assert.Regexp(t, `^myFunction took \d+(\.\d+)? seconds to execute\.\n$`, stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name,age,id,email\n")
}

func TestRoot_RunsPipeline(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rewriter.yaml")
	input := filepath.Join(dir, "in.csv")
	output := filepath.Join(dir, "out.csv")
	writeFile(t, cfgPath, "rewrites:\n  - field: id\n    generator: uuid\n")
	writeFile(t, input, "id,name\n1,Alice\n")

	stdout, _, err := execute(t, "--config", cfgPath, "--input", input, "--output", output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "myFunction took")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,name\n")
	assert.NotContains(t, string(data), "email")
}

func TestProcess_MissingInput(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rewriter.yaml")
	output := filepath.Join(dir, "output.csv")
	writeFile(t, cfgPath, "log_level: error\n")

	stdout, _, err := execute(t, "process", "--config", cfgPath,
		"-i", filepath.Join(dir, "random_data.csv"), "-o", output)

	var ioErr *types.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Empty(t, stdout)
	assert.NoFileExists(t, output)
}

func TestProcess_MissingExplicitConfig(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "process", "--config", filepath.Join(dir, "nope.yaml"),
		"-i", filepath.Join(dir, "in.csv"), "-o", filepath.Join(dir, "out.csv"))

	assert.ErrorContains(t, err, "failed to load config")
}

func TestProcess_LogsConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rewriter.yaml")
	input := filepath.Join(dir, "random_data.csv")
	output := filepath.Join(dir, "output.csv")
	writeFile(t, cfgPath, "log_level: debug\n")
	writeFile(t, input, "name\nAlice\n")

	stdout, stderr, err := execute(t, "process", "--config", cfgPath, "-i", input, "-o", output)
	require.NoError(t, err)

	assert.Contains(t, stderr, "using config file")
	assert.Contains(t, stderr, "config="+cfgPath)
	assert.NotContains(t, stderr, "Using config file")
	assert.NotContains(t, stdout, "config")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "CSV Field Rewriter")
	assert.Contains(t, stdout, "Version:    "+Version)
}
