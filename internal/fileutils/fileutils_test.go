package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")

	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir), "directories are not files")
}

func TestWriteFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "forecast.csv")
	require.NoError(t, WriteFile(path, []byte("a,b\n"), 0o644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
