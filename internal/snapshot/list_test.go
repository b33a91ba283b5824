package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/pkg/fileutil"
)

func TestList_MissingBackupRoot(t *testing.T) {
	mgr := NewManager(WithBackupDir(filepath.Join(t.TempDir(), "none")))
	snaps, err := mgr.List()
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestList_BackupRootIsFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "Backups", "x")
	_, err := NewManager(WithBackupDir(p)).List()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestList_ReproducesSevenFields(t *testing.T) {
	f := newFixture(t)
	dir := fakeCheckpoint(t, f.backups, "before_refactor_20240301_142205", sevenFieldRecord)

	snaps, err := f.mgr.List()
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	s := snaps[0]
	assert.Equal(t, dir, s.ID)
	assert.False(t, s.Degraded)
	assert.Equal(t, ParseMetadata([]byte(sevenFieldRecord)), s.Metadata)
	assert.Equal(t, "before refactor", s.DisplayName())
	assert.Equal(t, "2024-03-01 14:22:05", s.DisplayDate())
}

func TestList_RecordWithoutFields(t *testing.T) {
	f := newFixture(t)
	dir := fakeCheckpoint(t, f.backups, "mystery", "nothing useful here\n")
	info, err := os.Stat(dir)
	require.NoError(t, err)

	snaps, err := f.mgr.List()
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	assert.Equal(t, "mystery", snaps[0].DisplayName())
	assert.Equal(t, info.ModTime().Format(CreationTimeLayout), snaps[0].DisplayDate())
}

func TestList_UnreadableRecordIsDegraded(t *testing.T) {
	f := newFixture(t)
	fakeCheckpoint(t, f.backups, "good_20240101_000000", sevenFieldRecord)
	huge := strings.Repeat("x", fileutil.MaxFileSize+1)
	fakeCheckpoint(t, f.backups, "bad_20240102_000000", huge)

	snaps, err := f.mgr.List()
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	bad := snaps[0]
	assert.Equal(t, "bad_20240102_000000", bad.Folder)
	assert.True(t, bad.Degraded)
	assert.Equal(t, "bad_20240102_000000 (metadata unreadable)", bad.DisplayName())
	assert.NotEqual(t, "N/A", bad.DisplayDate())
	assert.Equal(t, "before refactor", snaps[1].DisplayName())
}

func TestList_IgnoresNonCheckpoints(t *testing.T) {
	f := newFixture(t)
	fakeCheckpoint(t, f.backups, "real_20240101_000000", sevenFieldRecord)
	writeFile(t, f.backups, "loose.txt", "x")
	writeFile(t, f.backups, "no_record/file.txt", "x")

	snaps, err := f.mgr.List()
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "real_20240101_000000", snaps[0].Folder)
}

func TestList_SortOrder(t *testing.T) {
	f := newFixture(t)
	for _, folder := range []string{
		"a_20240101_120000",
		"b_20240301_090000",
		"zzz",
		"c_20240301_090000",
		"d_20240301_090000_1",
	} {
		fakeCheckpoint(t, f.backups, folder, "")
	}

	snaps, err := f.mgr.List()
	require.NoError(t, err)

	var got []string
	for _, s := range snaps {
		got = append(got, s.Folder)
	}
	// keys: "zzz", folder name for the _1 suffix, then timestamps with ties
	// broken by folder name
	assert.Equal(t, []string{
		"zzz",
		"d_20240301_090000_1",
		"c_20240301_090000",
		"b_20240301_090000",
		"a_20240101_120000",
	}, got)
}

func TestSortKey(t *testing.T) {
	tests := []struct {
		folder string
		want   string
	}{
		{"name_20240301_142205", "20240301_142205"},
		{"with_many_parts_20240301_142205", "20240301_142205"},
		{"name_20240301_142205_1", "name_20240301_142205_1"},
		{"plain", "plain"},
		{"x_123", "x_123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sortKey(tt.folder), tt.folder)
	}
}

func TestDisplayDate_NoModTime(t *testing.T) {
	s := Snapshot{Folder: "f"}
	assert.Equal(t, "N/A", s.DisplayDate())
	assert.Equal(t, "f", s.DisplayName())
}

func TestFindAndLatest(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.Latest()
	assert.True(t, errors.Is(err, ErrNotFound))

	old := fakeCheckpoint(t, f.backups, "old_20230101_000000", "")
	fakeCheckpoint(t, f.backups, "new_20240101_000000", "")

	latest, err := f.mgr.Latest()
	require.NoError(t, err)
	assert.Equal(t, "new_20240101_000000", latest.Folder)

	byName, err := f.mgr.Find("old_20230101_000000")
	require.NoError(t, err)
	assert.Equal(t, old, byName.ID)

	byPath, err := f.mgr.Find(old)
	require.NoError(t, err)
	assert.Equal(t, "old_20230101_000000", byPath.Folder)

	_, err = f.mgr.Find("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = f.mgr.Find("")
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}
