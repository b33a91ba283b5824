// Package scan walks a directory tree and collects the files and directories
// that survive an exclusion matcher.
//
// Excluded directories are pruned before descent, so large excluded trees
// such as dependency caches are never read. Unreadable entries are logged and
// skipped; only an unusable root fails the scan.
package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/exclude"
	"github.com/thoreinstein/checkpoint/internal/logging"
)

// ErrInvalidRoot indicates the scan root is missing or not a directory.
var ErrInvalidRoot = errors.New("scan root is not a directory")

// Result is the outcome of a scan. Paths are relative to the root and use
// forward slashes.
type Result struct {
	// Files in walk order (pre-order, lexical).
	Files []string
	// Dirs is the set of directories to recreate, excluding the root.
	Dirs map[string]struct{}
}

// SortedDirs returns Dirs in lexical order, which places every parent before
// its children.
func (r *Result) SortedDirs() []string {
	dirs := make([]string, 0, len(r.Dirs))
	for d := range r.Dirs {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}

// Empty reports whether the scan found neither files nor directories.
func (r *Result) Empty() bool {
	return len(r.Files) == 0 && len(r.Dirs) == 0
}

// Option configures a scan.
type Option func(*scanner)

// WithLogger sets the logger used for skipped entries.
func WithLogger(l *slog.Logger) Option {
	return func(s *scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSkipPaths prunes the given absolute directories regardless of the
// matcher. Paths outside the root are ignored.
func WithSkipPaths(paths ...string) Option {
	return func(s *scanner) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			if abs, err := filepath.Abs(p); err == nil {
				s.skip[abs] = struct{}{}
			}
		}
	}
}

type scanner struct {
	root    string
	matcher *exclude.Matcher
	logger  *slog.Logger
	skip    map[string]struct{}
	result  *Result
}

// Scan walks root and returns the entries not excluded by m. A nil matcher
// excludes nothing.
func Scan(root string, m *exclude.Matcher, opts ...Option) (*Result, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRoot, "%s: %v", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRoot, "%s: %v", root, err)
	}
	if !info.IsDir() {
		return nil, errors.Wrap(ErrInvalidRoot, root)
	}

	if m == nil {
		m = exclude.New(nil)
	}
	s := &scanner{
		root:    abs,
		matcher: m,
		logger:  logging.NewDiscard(),
		skip:    make(map[string]struct{}),
		result:  &Result{Dirs: make(map[string]struct{})},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := filepath.WalkDir(abs, s.visit); err != nil {
		return nil, errors.Wrapf(err, "scanning %s", root)
	}

	s.logger.Debug("scan complete",
		"root", abs,
		"files", len(s.result.Files),
		"dirs", len(s.result.Dirs))
	return s.result, nil
}

func (s *scanner) visit(p string, d fs.DirEntry, walkErr error) error {
	if walkErr != nil {
		if p == s.root {
			return walkErr
		}
		s.logger.Warn("skipping unreadable entry", "path", p, "error", walkErr)
		if d != nil && d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}
	if p == s.root {
		return nil
	}

	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		s.logger.Warn("skipping entry outside root", "path", p, "error", err)
		return nil
	}
	rel = filepath.ToSlash(rel)

	switch typ := d.Type(); {
	case typ.IsDir():
		if _, ok := s.skip[p]; ok {
			s.logger.Debug("pruning skipped path", "path", rel)
			return fs.SkipDir
		}
		if s.matcher.Match(rel, exclude.KindDir) {
			s.logger.Log(context.Background(), logging.LevelTrace, "pruning excluded directory", "path", rel)
			return fs.SkipDir
		}
		s.result.Dirs[rel] = struct{}{}
		return nil

	case typ&fs.ModeSymlink != 0:
		target, err := os.Stat(p)
		if err != nil {
			s.logger.Warn("skipping broken symlink", "path", rel, "error", err)
			return nil
		}
		if target.IsDir() {
			s.logger.Debug("not following directory symlink", "path", rel)
			return nil
		}
		if !target.Mode().IsRegular() {
			return nil
		}
		s.addFile(rel)
		return nil

	case typ.IsRegular():
		s.addFile(rel)
		return nil

	default:
		s.logger.Debug("skipping special file", "path", rel, "mode", typ.String())
		return nil
	}
}

func (s *scanner) addFile(rel string) {
	if s.matcher.Match(rel, exclude.KindFile) {
		s.logger.Log(context.Background(), logging.LevelTrace, "excluding file", "path", rel)
		return
	}
	s.result.Files = append(s.result.Files, rel)

	parent := path.Dir(rel)
	if parent != "." && !s.matcher.Match(parent, exclude.KindDir) {
		s.result.Dirs[parent] = struct{}{}
	}
}
