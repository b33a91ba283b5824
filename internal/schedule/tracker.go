// Package schedule runs checkpoints on a cron schedule, skipping runs when
// nothing in the project changed since the previous one.
package schedule

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/exclude"
	"github.com/thoreinstein/checkpoint/internal/logging"
	"github.com/thoreinstein/checkpoint/internal/paths"
	"github.com/thoreinstein/checkpoint/internal/scan"
)

// Tracker records whether a project tree changed. fsnotify watches are not
// recursive, so every directory a scan would keep gets its own watch and
// new directories are added as they appear.
type Tracker struct {
	root    string
	matcher *exclude.Matcher
	skip    []string
	logger  *slog.Logger

	fsw   *fsnotify.Watcher
	dirty atomic.Bool
}

// NewTracker watches root, ignoring anything m excludes and anything under
// skip (typically a backup root nested in the project). The tracker starts
// dirty so the first scheduled run always checkpoints.
func NewTracker(root string, m *exclude.Matcher, logger *slog.Logger, skip ...string) (*Tracker, error) {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}

	t := &Tracker{root: root, matcher: m, skip: skip, logger: logger, fsw: fsw}
	t.dirty.Store(true)

	res, err := scan.Scan(root, m, scan.WithSkipPaths(skip...), scan.WithLogger(logger))
	if err != nil {
		fsw.Close()
		return nil, errors.Wrap(err, "scanning project for watches")
	}
	if err := t.watch(root); err != nil {
		fsw.Close()
		return nil, err
	}
	for _, rel := range res.SortedDirs() {
		if err := t.watch(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			logger.Warn("cannot watch directory", "dir", rel, "error", err)
		}
	}
	return t, nil
}

func (t *Tracker) watch(dir string) error {
	if err := t.fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "watching %s", dir)
	}
	return nil
}

// Dirty reports whether a change was seen since the last Reset.
func (t *Tracker) Dirty() bool {
	return t.dirty.Load()
}

// TakeDirty returns the dirty flag and clears it.
func (t *Tracker) TakeDirty() bool {
	return t.dirty.Swap(false)
}

// MarkDirty forces the next run to checkpoint, e.g. after a failed one.
func (t *Tracker) MarkDirty() {
	t.dirty.Store(true)
}

// Run consumes watcher events until ctx is done.
func (t *Tracker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-t.fsw.Events:
			if !ok {
				return nil
			}
			t.handle(ev)

		case err, ok := <-t.fsw.Errors:
			if !ok {
				return nil
			}
			t.logger.Error("file watcher error", "error", err)
			// events may have been dropped
			t.dirty.Store(true)
		}
	}
}

func (t *Tracker) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	if t.ignored(ev.Name) {
		return
	}
	t.logger.Debug("project changed", "path", ev.Name, "op", ev.Op.String())
	t.dirty.Store(true)

	if ev.Has(fsnotify.Create) {
		if info, err := os.Lstat(ev.Name); err == nil && info.IsDir() {
			if err := t.watch(ev.Name); err != nil {
				t.logger.Warn("cannot watch new directory", "dir", ev.Name, "error", err)
			}
		}
	}
}

func (t *Tracker) ignored(p string) bool {
	for _, s := range t.skip {
		if paths.Within(p, s) {
			return true
		}
	}
	return t.matcher.IsExcluded(p, t.root)
}

// Close stops watching.
func (t *Tracker) Close() error {
	return t.fsw.Close()
}
