package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.sh")
	dst := filepath.Join(dir, "dst.sh")

	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0o750))
	mtime := time.Date(2023, 5, 6, 7, 8, 9, 0, time.Local)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(got))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime), "mtime %v, want %v", info.ModTime(), mtime)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
	}
}

func TestCopyFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	require.NoError(t, os.WriteFile(src, []byte("short"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("a much longer previous body"), 0o600))

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "short", string(got))
}

func TestCopyFile_Errors(t *testing.T) {
	dir := t.TempDir()

	err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = CopyFile(dir, filepath.Join(dir, "dst"))
	require.Error(t, err, "directories are not copied")

	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	err = CopyFile(src, filepath.Join(dir, "no", "parent"))
	require.Error(t, err)
}
