package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/checkpoint/internal/errors"
)

func TestDelete(t *testing.T) {
	f := newFixture(t)
	dir := fakeCheckpoint(t, f.backups, "snap_20240101_000000", sevenFieldRecord)
	writeFile(t, dir, "deep/tree/file.txt", "x")

	require.NoError(t, f.mgr.Delete(dir))
	assert.NoDirExists(t, dir)

	snaps, err := f.mgr.List()
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture(t)
	aFile := writeFile(t, f.backups, "loose.txt", "x")

	tests := []struct {
		name string
		id   string
	}{
		{"missing", filepath.Join(f.backups, "nope_20240101_000000")},
		{"not a directory", aFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.mgr.Delete(tt.id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
		})
	}
	assert.FileExists(t, aFile)
}

func TestDelete_ResidueIsReported(t *testing.T) {
	f := newFixture(t)
	dir := fakeCheckpoint(t, f.backups, "sticky_20240101_000000", "")
	f.mgr.removeAll = func(string) error { return nil }

	err := f.mgr.Delete(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeleteIncomplete))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDelete_RemoveError(t *testing.T) {
	f := newFixture(t)
	dir := fakeCheckpoint(t, f.backups, "snap_20240101_000000", "")
	f.mgr.removeAll = func(string) error { return os.ErrPermission }

	err := f.mgr.Delete(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestDelete_Guards(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.backups, 0o755))

	err := f.mgr.Delete("")
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	err = f.mgr.Delete(f.backups)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.DirExists(t, f.backups)
}
