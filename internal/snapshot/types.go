package snapshot

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/thoreinstein/checkpoint/internal/errors"
)

// MetadataFileName is the reserved record written into every checkpoint
// folder. It is never copied by a scan or restored into a project.
const MetadataFileName = "checkpoint_info.txt"

// MetadataFormatVersion is written as the trailing "Format Version" line.
// Records without that line parse as version 0.
const MetadataFormatVersion = 1

// Timestamp layouts.
const (
	// FolderTimeLayout is the suffix appended to a sanitized name.
	FolderTimeLayout = "20060102_150405"
	// CreationTimeLayout is used for the "Creation Time" field and for
	// fallback dates derived from folder modification times.
	CreationTimeLayout = "2006-01-02 15:04:05"
)

const (
	// DefaultRetentionCount is the number of checkpoints kept by a prune
	// when no count is configured.
	DefaultRetentionCount = 5

	maxNameAttempts      = 100
	createProgressEvery  = 10
	restoreProgressEvery = 20
	dirPerm              = 0o755
)

// AdditiveNotice tells users that restore never removes files. Callers show
// it before asking for confirmation.
const AdditiveNotice = "Restore only adds and overwrites files. Files in the project " +
	"that are not part of the checkpoint are left untouched."

// Sentinel errors for checkpoint operations. Categories are attached with
// errors.Mark so callers can test either the category or the concrete cause.
var (
	// ErrInvalidRequest marks a bad name or path found before any disk mutation.
	ErrInvalidRequest = errors.New("invalid checkpoint request")

	// ErrNamingExhausted indicates every candidate folder name was taken.
	ErrNamingExhausted = errors.New("no free checkpoint folder name")

	// ErrCopyFailed marks a single file that could not be copied. It is
	// logged and counted, never returned from a whole operation.
	ErrCopyFailed = errors.New("file copy failed")

	// ErrFatal is the category of failures that abort an operation.
	ErrFatal = errors.New("checkpoint operation failed")

	// ErrEmptySnapshot indicates the scan found nothing to copy.
	ErrEmptySnapshot = errors.Mark(errors.New("nothing to back up"), ErrFatal)

	// ErrBackupRootUnavailable indicates the backup root or the checkpoint
	// folder inside it could not be created.
	ErrBackupRootUnavailable = errors.Mark(errors.New("backup root unavailable"), ErrFatal)

	// ErrMetadataWrite indicates the metadata record could not be written.
	ErrMetadataWrite = errors.Mark(errors.New("cannot write checkpoint metadata"), ErrFatal)

	// ErrTypeConflict indicates restore found a non-directory where a
	// directory is required.
	ErrTypeConflict = errors.New("file exists where a directory is required")

	// ErrNotFound indicates the checkpoint does not exist.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrDeleteIncomplete indicates the folder survived a recursive removal.
	ErrDeleteIncomplete = errors.Mark(errors.New("checkpoint folder still present after delete"), ErrNotFound)
)

func invalidf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidRequest)
}

// fatalf wraps cause and marks it with both kind and ErrFatal.
func fatalf(kind, cause error, format string, args ...any) error {
	return errors.Mark(errors.Mark(errors.Wrapf(cause, format, args...), kind), ErrFatal)
}

// ProgressFunc receives progress updates. percent is in [0, 100]. It is
// called from the goroutine running the operation.
type ProgressFunc func(percent float64, message string)

// Metadata is the content of a checkpoint's metadata record.
type Metadata struct {
	Name           string   `json:"name" yaml:"name"`
	ProjectPath    string   `json:"project_path" yaml:"project_path"`
	CreationTime   string   `json:"creation_time" yaml:"creation_time"`
	Folder         string   `json:"folder" yaml:"folder"`
	FilesCopied    int      `json:"files_copied" yaml:"files_copied"`
	FoldersCreated int      `json:"folders_created" yaml:"folders_created"`
	Exclusions     []string `json:"exclusions" yaml:"exclusions"`
	FormatVersion  int      `json:"format_version" yaml:"format_version"`
}

// Created parses CreationTime in the local zone.
func (md Metadata) Created() (time.Time, bool) {
	if md.CreationTime == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(CreationTimeLayout, md.CreationTime, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Snapshot is one checkpoint found under a backup root.
type Snapshot struct {
	// ID is the absolute path of the checkpoint folder.
	ID string `json:"id" yaml:"id"`
	// Folder is the base name of ID.
	Folder   string   `json:"folder" yaml:"folder"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	// Degraded is set when the metadata record could not be read.
	Degraded bool      `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	ModTime  time.Time `json:"mod_time" yaml:"mod_time"`
}

// DisplayName returns the recorded name, falling back to the folder name.
func (s Snapshot) DisplayName() string {
	if s.Degraded {
		return s.Folder + " (metadata unreadable)"
	}
	if s.Metadata.Name != "" {
		return s.Metadata.Name
	}
	return s.Folder
}

// DisplayDate returns the recorded creation time, falling back to the
// folder's modification time and finally to "N/A".
func (s Snapshot) DisplayDate() string {
	if !s.Degraded && s.Metadata.CreationTime != "" {
		return s.Metadata.CreationTime
	}
	if !s.ModTime.IsZero() {
		return s.ModTime.Local().Format(CreationTimeLayout)
	}
	return "N/A"
}

// SortKey returns the trailing YYYYMMDD_HHMMSS of the folder name, or the
// whole folder name when it has no such suffix.
func (s Snapshot) SortKey() string {
	return sortKey(s.Folder)
}

func sortKey(folder string) string {
	parts := strings.Split(folder, "_")
	if len(parts) >= 2 {
		key := []rune(parts[len(parts)-2] + "_" + parts[len(parts)-1])
		if len(key) == 15 && key[8] == '_' {
			return string(key)
		}
	}
	return folder
}

// CreateRequest describes a checkpoint to create. Excludes is copied when
// the operation starts.
type CreateRequest struct {
	ProjectRoot string
	Name        string
	Excludes    []string
}

// CreateResult reports a created checkpoint.
type CreateResult struct {
	// Path is the absolute checkpoint folder.
	Path   string
	Folder string
	// Copied is the number of files copied; Failed counts per-file errors.
	Copied   int
	Failed   int
	Total    int
	Metadata Metadata
}

// RestoreRequest names a checkpoint folder and the project to restore into.
type RestoreRequest struct {
	SnapshotID  string
	ProjectRoot string
}

// RestoreResult reports a finished restore.
type RestoreResult struct {
	Restored int
	Failed   int
	Total    int
	Dirs     int
}

func folderOf(id string) string {
	return filepath.Base(filepath.Clean(id))
}
