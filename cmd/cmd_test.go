package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/disperse-input/pkg/errors"
)

const (
	addrA = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	addrB = "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
)

// execute runs the CLI with args and stdin and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgFile, verbose, outputFormat = "", false, ""
	validateNumbered, exampleNumbered = false, false
	strategyName, resolveFirst, saveBatch, recursive = "", "", false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid with duplicates", func(t *testing.T) {
		out, err := execute(t, addrA+"=1\n"+addrA+"=2\n", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, addrA+" duplicate in line: 1, 2")
		assert.Contains(t, out, "Status:     valid")
	})

	t.Run("invalid", func(t *testing.T) {
		out, err := execute(t, addrA+"=0\r\n", "validate")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		assert.Contains(t, out, "Line 1: wrong amount")
	})

	t.Run("file argument", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.csv")
		require.NoError(t, os.WriteFile(path, []byte(addrA+",1\n"), 0o644))

		out, err := execute(t, "", "validate", path, "-o", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"valid": true`)
	})
}

func TestResolveCommand(t *testing.T) {
	input := addrA + "=1\n" + addrB + "=2\n" + addrA + "=3\n"

	out, err := execute(t, input, "resolve", "--strategy", "combine")
	require.NoError(t, err)
	assert.Equal(t, addrA+"=4\n"+addrB+"=2\n", out)

	out, err = execute(t, input, "resolve")
	require.NoError(t, err)
	assert.Equal(t, addrA+"=1\n"+addrB+"=2\n", out)

	_, err = execute(t, input+"bad\n", "resolve")
	assert.True(t, errors.IsResolutionBlocked(err))

	_, err = execute(t, input, "resolve", "--strategy", "average")
	assert.ErrorIs(t, err, errors.ErrUnknownStrategy)
}

func TestSubmitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DISPERSE_OUTPUT_DIR", dir)
	t.Setenv("DISPERSE_OUTPUT_FILE_NAME_FORMAT", "batch_{uuid}.json")

	out, err := execute(t, addrA+"=1.5\n"+addrA+"=1\n", "submit", "--resolve", "combine", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "# records 1 total 2.5")
	assert.Contains(t, out, addrA+"=2.5")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "batch_"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total": "2.5"`)

	_, err = execute(t, "", "submit")
	assert.ErrorIs(t, err, errors.ErrEmptyBatch)

	_, err = execute(t, "0x1=1\n", "submit")
	assert.True(t, errors.IsSubmissionBlocked(err))
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.txt"), []byte(addrA+"=1\n"+addrA+"=2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte(addrA+",0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not a list"), 0o644))

	out, err := execute(t, "", "scan", dir)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.Contains(t, out, "✓ good.txt: 2 record(s), duplicates: "+addrA)
	assert.Contains(t, out, "✗ bad.csv: 1 invalid line(s)")
	assert.Contains(t, out, "Total files:     2")
}

func TestNumberedFlagsAreIndependent(t *testing.T) {
	out, err := execute(t, "", "example", "--numbered")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1 | 0x"))
	assert.True(t, exampleNumbered)
	assert.False(t, validateNumbered)

	out, err = execute(t, addrA+"=1\n", "validate")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(out, "1 | "))
}

func TestExampleCommand(t *testing.T) {
	out, err := execute(t, "", "example")
	require.NoError(t, err)

	out2, err := execute(t, out, "validate")
	require.NoError(t, err)
	assert.Contains(t, out2, "No validation errors.")
}
