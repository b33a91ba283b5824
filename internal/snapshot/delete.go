package snapshot

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thoreinstein/checkpoint/internal/errors"
)

// Delete recursively removes the checkpoint folder id and verifies that it
// is gone afterwards.
func (m *Manager) Delete(id string) error {
	if id == "" {
		return invalidf("checkpoint id is empty")
	}
	p, err := filepath.Abs(id)
	if err != nil {
		return errors.Wrapf(ErrNotFound, "%s", id)
	}
	if m.backupRoot != "" && p == m.backupRoot {
		return invalidf("refusing to delete the backup directory itself")
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(ErrNotFound, "%s", p)
		}
		return errors.Wrapf(err, "checking %s", p)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrNotFound, "%s is not a directory", p)
	}

	if err := m.removeAll(p); err != nil {
		return errors.Wrapf(err, "removing %s", p)
	}

	if _, err := os.Lstat(p); err == nil {
		return errors.Wrapf(ErrDeleteIncomplete, "%s", p)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "verifying removal of %s", p)
	}

	m.logger.Info("checkpoint deleted", "folder", folderOf(p))
	return nil
}
