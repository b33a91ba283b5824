package snapshot

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/exclude"
	"github.com/thoreinstein/checkpoint/internal/scan"
)

// Restore copies a checkpoint's contents into req.ProjectRoot, overwriting
// files with the same relative path. See AdditiveNotice: files in the
// project that the checkpoint does not contain are never touched.
//
// The metadata record is never restored. A non-directory standing where the
// checkpoint needs a directory aborts the restore with ErrTypeConflict
// before anything is written.
func (m *Manager) Restore(req RestoreRequest, progress ProgressFunc) (*RestoreResult, error) {
	src, err := filepath.Abs(req.SnapshotID)
	if err != nil || req.SnapshotID == "" {
		return nil, errors.Wrapf(ErrNotFound, "%q", req.SnapshotID)
	}
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrNotFound, "%s", src)
	}
	project, err := existingDir(req.ProjectRoot, "project directory")
	if err != nil {
		return nil, err
	}

	res, err := scan.Scan(src, exclude.New([]string{MetadataFileName}), scan.WithLogger(m.logger))
	if err != nil {
		return nil, errors.Wrapf(err, "scanning checkpoint %s", src)
	}
	if res.Empty() {
		return nil, errors.Wrapf(ErrEmptySnapshot, "checkpoint %s", folderOf(src))
	}

	dirs := res.SortedDirs()
	for _, d := range dirs {
		target := filepath.Join(project, filepath.FromSlash(d))
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			return nil, errors.Wrapf(ErrTypeConflict, "%s", target)
		}
	}

	m.logger.Info("restoring checkpoint", "checkpoint", folderOf(src), "project", project)
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(project, filepath.FromSlash(d)), dirPerm); err != nil {
			m.logger.Warn("cannot create directory", "path", d, "error", err)
		}
	}

	total := len(res.Files)
	result := &RestoreResult{Total: total, Dirs: len(dirs)}
	for i, rel := range res.Files {
		from := filepath.Join(src, filepath.FromSlash(rel))
		to := filepath.Join(project, filepath.FromSlash(rel))
		if err := copyInto(from, to); err != nil {
			result.Failed++
			m.logger.Warn("skipping file", "path", rel, "error", errors.Mark(err, ErrCopyFailed))
		} else {
			result.Restored++
		}
		report(progress, i+1, total, restoreProgressEvery, "Restoring", rel)
	}

	m.logger.Info("checkpoint restored",
		"checkpoint", folderOf(src),
		"restored", result.Restored,
		"failed", result.Failed)
	return result, nil
}
