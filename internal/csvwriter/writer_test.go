package csvwriter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/csv-field-rewriter/internal/config"
	"github.com/ginjaninja78/csv-field-rewriter/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultSettings = config.CSVSettings{Delimiter: ","}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := New(path, defaultSettings)
	require.NoError(t, err)

	require.NoError(t, w.Write(types.NewRecord([]string{"name", "age"}, []string{"Alice", "30"})))
	require.NoError(t, w.Write(types.NewRecord([]string{"name", "age"}, []string{"Smith, Bob", "say \"hi\""})))
	require.NoError(t, w.Close())

	assert.Equal(t, "name,age\nAlice,30\n\"Smith, Bob\",\"say \"\"hi\"\"\"\n", readFile(t, path))
	assert.Equal(t, 2, w.Records())
	assert.Equal(t, int64(len(readFile(t, path))), w.BytesWritten())
	assert.Equal(t, []string{"name", "age"}, w.Header())
}

func TestWriter_HeaderFromFirstRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := New(path, defaultSettings)
	require.NoError(t, err)

	first := types.NewRecord([]string{"b", "a"}, []string{"1", "2"})
	second := types.NewRecord([]string{"a", "b"}, []string{"3", "4"})
	require.NoError(t, w.Write(first))
	require.NoError(t, w.Write(second))
	require.NoError(t, w.Close())

	assert.Equal(t, "b,a\n1,2\n4,3\n", readFile(t, path))
}

func TestWriter_WriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := New(path, defaultSettings)
	require.NoError(t, err)

	boom := errors.New("boom")
	seq := func(yield func(*types.Record, error) bool) {
		if !yield(types.NewRecord([]string{"a"}, []string{"1"}), nil) {
			return
		}
		yield(nil, boom)
	}

	err = w.WriteAll(seq)
	assert.ErrorIs(t, err, boom)
	require.NoError(t, w.Close())

	// Rows written before the failure stay in the file.
	assert.Equal(t, "a\n1\n", readFile(t, path))
}

func TestWriter_FallbackHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := New(path, defaultSettings)
	require.NoError(t, err)

	w.SetFallbackHeader([]string{"name", "id", "email"})
	require.NoError(t, w.Close())

	assert.Equal(t, "name,id,email\n", readFile(t, path))
	assert.Equal(t, 0, w.Records())
}

func TestWriter_EmptyOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := New(path, defaultSettings)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Empty(t, readFile(t, path))
}

func TestWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is long\n"), 0644))

	w, err := New(path, defaultSettings)
	require.NoError(t, err)
	require.NoError(t, w.Write(types.NewRecord([]string{"a"}, []string{"1"})))
	require.NoError(t, w.Close())

	assert.Equal(t, "a\n1\n", readFile(t, path))
}

func TestWriter_Delimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := New(path, config.CSVSettings{Delimiter: "tab"})
	require.NoError(t, err)
	require.NoError(t, w.Write(types.NewRecord([]string{"a", "b"}, []string{"1", "x,y"})))
	require.NoError(t, w.Close())

	assert.Equal(t, "a\tb\n1\tx,y\n", readFile(t, path))
}

func TestNew_Unwritable(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing-dir", "out.csv"), defaultSettings)

	var ioErr *types.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "create", ioErr.Op)
}
