package snapshot

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/logging"
	"github.com/thoreinstein/checkpoint/pkg/fileutil"
)

// Manager creates, lists, restores, deletes and prunes checkpoints under a
// single backup root. It holds no locks; callers serialize operations
// against the same project and backup root.
type Manager struct {
	backupRoot string
	logger     *slog.Logger
	now        func() time.Time

	// seams for failure injection in tests
	writeFile func(path string, data []byte, perm os.FileMode) error
	removeAll func(path string) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the backup root.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.backupRoot = dir
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces time.Now for folder timestamps and creation times.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger:    logging.NewDiscard(),
		now:       time.Now,
		writeFile: fileutil.AtomicWriteFile,
		removeAll: os.RemoveAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.backupRoot != "" {
		if abs, err := filepath.Abs(m.backupRoot); err == nil {
			m.backupRoot = abs
		}
	}
	return m
}

// BackupDir returns the absolute backup root.
func (m *Manager) BackupDir() string {
	return m.backupRoot
}

func (m *Manager) requireBackupRoot() error {
	if m.backupRoot == "" {
		return invalidf("backup directory is not set")
	}
	return nil
}

// existingDir resolves p to an absolute path and checks that it is a directory.
func existingDir(p, what string) (string, error) {
	if p == "" {
		return "", invalidf("%s is not set", what)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "resolving %s", what), ErrInvalidRequest)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "%s %s", what, abs), ErrInvalidRequest)
	}
	if !info.IsDir() {
		return "", invalidf("%s %s is not a directory", what, abs)
	}
	return abs, nil
}
