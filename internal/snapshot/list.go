package snapshot

import (
	"cmp"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/pkg/fileutil"
)

// List returns the checkpoints under the backup root, newest first.
//
// A checkpoint is an immediate child directory holding a metadata record.
// A record that cannot be read yields a degraded entry instead of an error,
// so one corrupt checkpoint never hides the others. A missing backup root
// yields an empty list.
func (m *Manager) List() ([]Snapshot, error) {
	if err := m.requireBackupRoot(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(m.backupRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if info, statErr := os.Stat(m.backupRoot); statErr == nil && !info.IsDir() {
			return nil, invalidf("backup path %s is not a directory", m.backupRoot)
		}
		return nil, errors.Wrapf(err, "reading backup directory %s", m.backupRoot)
	}

	snaps := make([]Snapshot, 0, len(entries))
	for _, e := range entries {
		dir := filepath.Join(m.backupRoot, e.Name())
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		metaPath := filepath.Join(dir, MetadataFileName)
		if _, err := os.Stat(metaPath); err != nil {
			continue
		}
		snaps = append(snaps, m.load(dir, info))
	}

	sortSnapshots(snaps)
	return snaps, nil
}

func (m *Manager) load(dir string, info fs.FileInfo) Snapshot {
	s := Snapshot{
		ID:      dir,
		Folder:  filepath.Base(dir),
		ModTime: info.ModTime(),
	}
	data, err := fileutil.ReadFileWithLimit(filepath.Join(dir, MetadataFileName))
	if err != nil {
		m.logger.Warn("cannot read checkpoint metadata", "folder", s.Folder, "error", err)
		s.Degraded = true
		return s
	}
	s.Metadata = ParseMetadata(data)
	return s
}

// sortSnapshots orders newest first by SortKey, then by folder name.
func sortSnapshots(snaps []Snapshot) {
	slices.SortFunc(snaps, func(a, b Snapshot) int {
		if c := cmp.Compare(b.SortKey(), a.SortKey()); c != 0 {
			return c
		}
		return cmp.Compare(b.Folder, a.Folder)
	})
}

// Find resolves ref, a folder name or a checkpoint path, to a listed checkpoint.
func (m *Manager) Find(ref string) (*Snapshot, error) {
	if ref == "" {
		return nil, invalidf("checkpoint reference is empty")
	}
	snaps, err := m.List()
	if err != nil {
		return nil, err
	}

	abs, _ := filepath.Abs(ref)
	for i := range snaps {
		if snaps[i].Folder == ref || snaps[i].ID == abs {
			return &snaps[i], nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "%s in %s", ref, m.backupRoot)
}

// Latest returns the newest checkpoint.
func (m *Manager) Latest() (*Snapshot, error) {
	snaps, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "no checkpoints in %s", m.backupRoot)
	}
	return &snaps[0], nil
}
