package config

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrNegativeRetention indicates a retention count below zero.
	ErrNegativeRetention = errors.New("retention must be >= 0")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrSamePaths indicates backups would be written into the project root itself.
	ErrSamePaths = errors.New("backup_path must differ from project_path")

	// ErrInvalidSchedule indicates a schedule cron cannot parse.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrBlankExclude indicates an exclusion entry with no pattern.
	ErrBlankExclude = errors.New("blank exclusion pattern")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}
	if cfg.Retention < 0 {
		errs = append(errs, ErrNegativeRetention)
	}

	for _, f := range []struct{ field, path string }{
		{KeyProjectPath, cfg.ProjectPath},
		{KeyBackupPath, cfg.BackupPath},
	} {
		if err := validatePath(f.path); err != nil {
			errs = append(errs, &PathError{Field: f.field, Path: f.path, Err: err})
		}
	}
	if cfg.ProjectPath != "" && cfg.BackupPath != "" &&
		filepath.Clean(cfg.ProjectPath) == filepath.Clean(cfg.BackupPath) {
		errs = append(errs, &PathError{Field: KeyBackupPath, Path: cfg.BackupPath, Err: ErrSamePaths})
	}

	for i, e := range cfg.Excludes {
		if strings.TrimSpace(e) == "" {
			errs = append(errs, &FieldError{Field: KeyExcludes, Index: i, Err: ErrBlankExclude})
		}
	}

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, &FieldError{Field: KeySchedule, Index: -1, Err: errors.Join(ErrInvalidSchedule, err)})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	if cleaned := filepath.Clean(path); cleaned == "" {
		return ErrInvalidPath
	}
	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// FieldError represents an error for a non-path field. Index is the
// position within a list field, or -1.
type FieldError struct {
	Field string
	Index int
	Err   error
}

func (e *FieldError) Error() string {
	if e.Index >= 0 {
		return e.Field + "[" + strconv.Itoa(e.Index) + "]: " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

