package filesys_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/pkg/filesys"
)

func TestCreateDirMakesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	require.NoError(t, filesys.CreateDir(dir, 0755, false))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestCreateDirWithoutForceRejectsExisting(t *testing.T) {
	dir := t.TempDir()
	err := filesys.CreateDir(dir, 0755, false)
	require.Error(t, err)
	require.True(t, os.IsExist(err))
}

func TestCreateDirWithForceAcceptsExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, filesys.CreateDir(dir, 0755, true))
}

func TestCreateDirRejectsExistingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	err := filesys.CreateDir(file, 0755, true)
	require.ErrorIs(t, err, filesys.ErrIsNotDir)
}
