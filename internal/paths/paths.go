package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the per-user configuration directory.
const AppName = "checkpoint"

// ConfigFileName is the configuration file looked up in "." and ConfigDir.
const ConfigFileName = "checkpoint.yaml"

// BackupsDirName is the default backup root, created beside the project.
const BackupsDirName = "Backups"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// It returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns <ConfigHome>/checkpoint.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the user-level configuration file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// Abs cleans path and makes it absolute. An empty path is rejected
// rather than silently resolved to the working directory.
func Abs(path string) (string, error) {
	if path == "" {
		return "", errors.Wrap(ErrInvalidPath, "empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "%s: %v", path, err)
	}
	return abs, nil
}

// DefaultBackupDir returns the sibling "Backups" directory of projectRoot.
//
//	/work/app -> /work/Backups
func DefaultBackupDir(projectRoot string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(projectRoot)), BackupsDirName)
}

// Within reports whether target is base or lies beneath it.
// Both paths must be absolute and cleaned.
func Within(target, base string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !filepath.IsAbs(rel) && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	prefix := ".." + string(filepath.Separator)
	return len(rel) >= len(prefix) && rel[:len(prefix)] == prefix
}
