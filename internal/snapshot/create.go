package snapshot

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/exclude"
	"github.com/thoreinstein/checkpoint/internal/paths"
	"github.com/thoreinstein/checkpoint/internal/scan"
	"github.com/thoreinstein/checkpoint/pkg/fileutil"
)

// Create copies the non-excluded contents of req.ProjectRoot into a new
// timestamped folder under the backup root and writes its metadata record.
//
// Nothing is written when validation fails or the scan comes back empty.
// Once the folder is allocated, any failure removes it again, so a failed
// create never shows up in List. Individual files that cannot be copied are
// logged and counted in CreateResult.Failed.
func (m *Manager) Create(req CreateRequest, progress ProgressFunc) (*CreateResult, error) {
	excludes := slices.Clone(req.Excludes)
	name := strings.TrimSpace(req.Name)

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := m.requireBackupRoot(); err != nil {
		return nil, err
	}
	project, err := existingDir(req.ProjectRoot, "project directory")
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(m.backupRoot); err == nil && !info.IsDir() {
		return nil, invalidf("backup path %s is not a directory", m.backupRoot)
	}
	if m.backupRoot == project {
		return nil, invalidf("backup directory must differ from the project directory")
	}

	userRules := exclude.New(excludes)
	opts := []scan.Option{scan.WithLogger(m.logger)}
	if paths.Within(m.backupRoot, project) {
		opts = append(opts, scan.WithSkipPaths(m.backupRoot))
	}

	m.logger.Info("scanning project", "project", project)
	res, err := scan.Scan(project, userRules.With(MetadataFileName), opts...)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidRequest)
	}
	if res.Empty() {
		return nil, errors.Wrapf(ErrEmptySnapshot, "everything under %s is excluded", project)
	}

	if err := os.MkdirAll(m.backupRoot, dirPerm); err != nil {
		return nil, fatalf(ErrBackupRootUnavailable, err, "creating %s", m.backupRoot)
	}

	base := SanitizeName(name) + "_" + m.now().Format(FolderTimeLayout)
	folder, err := allocate(m.backupRoot, base)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("allocated checkpoint folder", "path", folder)

	result, err := m.populate(project, folder, name, userRules.Patterns(), res, progress)
	if err != nil {
		if rmErr := m.removeAll(folder); rmErr != nil {
			m.logger.Error("rollback failed", "path", folder, "error", rmErr)
		}
		return nil, err
	}

	m.logger.Info("checkpoint created",
		"folder", result.Folder,
		"copied", result.Copied,
		"failed", result.Failed)
	return result, nil
}

func (m *Manager) populate(project, folder, name string, patterns []string, res *scan.Result, progress ProgressFunc) (*CreateResult, error) {
	dirs := res.SortedDirs()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(folder, filepath.FromSlash(d)), dirPerm); err != nil {
			m.logger.Warn("cannot create directory", "path", d, "error", err)
		}
	}

	total := len(res.Files)
	result := &CreateResult{Path: folder, Folder: filepath.Base(folder), Total: total}
	for i, rel := range res.Files {
		src := filepath.Join(project, filepath.FromSlash(rel))
		dst := filepath.Join(folder, filepath.FromSlash(rel))
		if err := copyInto(src, dst); err != nil {
			result.Failed++
			m.logger.Warn("skipping file", "path", rel, "error", errors.Mark(err, ErrCopyFailed))
		} else {
			result.Copied++
		}
		report(progress, i+1, total, createProgressEvery, "Copying", rel)
	}

	result.Metadata = Metadata{
		Name:           name,
		ProjectPath:    project,
		CreationTime:   m.now().Format(CreationTimeLayout),
		Folder:         result.Folder,
		FilesCopied:    result.Copied,
		FoldersCreated: len(dirs),
		Exclusions:     patterns,
		FormatVersion:  MetadataFormatVersion,
	}
	metaPath := filepath.Join(folder, MetadataFileName)
	if err := m.writeFile(metaPath, result.Metadata.Encode(), 0o644); err != nil {
		return nil, fatalf(ErrMetadataWrite, err, "writing %s", metaPath)
	}
	return result, nil
}

// copyInto copies src to dst, creating dst's parent when an earlier
// directory step did not.
func copyInto(src, dst string) error {
	parent := filepath.Dir(dst)
	if info, err := os.Stat(parent); err != nil || !info.IsDir() {
		if err := os.MkdirAll(parent, dirPerm); err != nil {
			return errors.Wrap(err, "creating parent directory")
		}
	}
	return fileutil.CopyFile(src, dst)
}

// report calls progress every n items and on the last one.
func report(progress ProgressFunc, done, total, every int, verb, rel string) {
	if progress == nil || total == 0 {
		return
	}
	if done%every != 0 && done != total {
		return
	}
	pct := float64(done*100) / float64(total)
	progress(pct, fmt.Sprintf("%s %s (%d/%d)", verb, path.Base(rel), done, total))
}
