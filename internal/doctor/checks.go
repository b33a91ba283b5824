package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thoreinstein/checkpoint/internal/config"
	"github.com/thoreinstein/checkpoint/internal/exclude"
	"github.com/thoreinstein/checkpoint/internal/paths"
	"github.com/thoreinstein/checkpoint/internal/scan"
	"github.com/thoreinstein/checkpoint/internal/snapshot"
)

// maxSecureFilePerm is the widest permission accepted for the config file (-rw-r--r--).
const maxSecureFilePerm os.FileMode = 0o644

// ConfigCheck reports whether the configuration loaded and validated.
type ConfigCheck struct {
	cfg     *config.Config
	loadErr error
	file    string
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck checks cfg, or reports loadErr when loading failed. file
// is the config file in use, "" when running on defaults.
func NewConfigCheck(cfg *config.Config, loadErr error, file string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, loadErr: loadErr, file: file}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string { return "config" }

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string { return "config" }

// Run validates the configuration and the config file's permissions.
func (c *ConfigCheck) Run() *CheckResult {
	res := &CheckResult{Details: map[string]any{}}
	if c.file != "" {
		res.Details["file"] = c.file
	}

	if c.loadErr != nil {
		res.Status = SeverityError
		res.Message = c.loadErr.Error()
		res.FixHint = "Fix the file or regenerate it with: checkpoint config init --force"
		return res
	}

	if errs := config.Validate(c.cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		res.Status = SeverityError
		res.Message = fmt.Sprintf("%d invalid setting(s)", len(errs))
		res.Details["problems"] = msgs
		return res
	}

	if c.file == "" {
		res.Status = SeverityInfo
		res.Message = "no config file found, using defaults"
		res.FixHint = "Create one with: checkpoint config init"
		return res
	}

	info, err := os.Stat(c.file)
	if err != nil {
		res.Status = SeverityWarning
		res.Message = fmt.Sprintf("cannot stat config file: %v", err)
		return res
	}
	perm := info.Mode().Perm()
	res.Details["permissions"] = fmt.Sprintf("%04o", perm)
	if perm&^maxSecureFilePerm != 0 {
		res.Status = SeverityWarning
		res.Message = fmt.Sprintf("config file is writable by others (%04o)", perm)
		res.FixHint = fmt.Sprintf("chmod 600 %s", c.file)
		return res
	}

	res.Status = SeverityPass
	res.Message = "configuration is valid"
	return res
}

// ProjectCheck verifies that the project exists and has something to back up.
type ProjectCheck struct {
	root    string
	backup  string
	matcher *exclude.Matcher
}

var _ Check = (*ProjectCheck)(nil)

// NewProjectCheck scans root with the given exclusion patterns.
func NewProjectCheck(root, backup string, excludes []string) *ProjectCheck {
	return &ProjectCheck{
		root:    root,
		backup:  backup,
		matcher: exclude.New(excludes).With(snapshot.MetadataFileName),
	}
}

// Name returns the unique identifier for this check.
func (c *ProjectCheck) Name() string { return "project" }

// Category returns the grouping for this check.
func (c *ProjectCheck) Category() string { return "filesystem" }

// Run scans the project the way create would.
func (c *ProjectCheck) Run() *CheckResult {
	res := &CheckResult{Details: map[string]any{"path": c.root}}

	info, err := os.Stat(c.root)
	switch {
	case err != nil:
		res.Status = SeverityError
		res.Message = fmt.Sprintf("project directory is not accessible: %v", err)
		res.FixHint = "Pass --project or set project_path"
		return res
	case !info.IsDir():
		res.Status = SeverityError
		res.Message = "project path is not a directory"
		return res
	}

	result, err := scan.Scan(c.root, c.matcher, scan.WithSkipPaths(c.backup))
	if err != nil {
		res.Status = SeverityError
		res.Message = fmt.Sprintf("scanning project: %v", err)
		return res
	}
	res.Details["files"] = len(result.Files)
	res.Details["directories"] = len(result.Dirs)

	if result.Empty() {
		res.Status = SeverityError
		res.Message = "every entry in the project is excluded; create would fail"
		res.FixHint = "Review the excludes setting"
		return res
	}

	res.Status = SeverityPass
	res.Message = fmt.Sprintf("%d files in %d directories would be copied", len(result.Files), len(result.Dirs))
	return res
}

// BackupRootCheck verifies that checkpoints can be written.
type BackupRootCheck struct {
	root    string
	project string
}

var _ Check = (*BackupRootCheck)(nil)

// NewBackupRootCheck checks root in relation to project.
func NewBackupRootCheck(root, project string) *BackupRootCheck {
	return &BackupRootCheck{root: root, project: project}
}

// Name returns the unique identifier for this check.
func (c *BackupRootCheck) Name() string { return "backup-root" }

// Category returns the grouping for this check.
func (c *BackupRootCheck) Category() string { return "filesystem" }

// Run checks that the backup root is a writable directory, or can be created.
func (c *BackupRootCheck) Run() *CheckResult {
	res := &CheckResult{Details: map[string]any{"path": c.root}}

	if filepath.Clean(c.root) == filepath.Clean(c.project) {
		res.Status = SeverityError
		res.Message = "backup root is the project directory"
		res.FixHint = "Pass --backup-dir or set backup_path"
		return res
	}

	info, err := os.Stat(c.root)
	if os.IsNotExist(err) {
		parent := nearestExisting(c.root)
		if werr := probeWritable(parent); werr != nil {
			res.Status = SeverityError
			res.Message = fmt.Sprintf("backup root does not exist and %s is not writable", parent)
			return res
		}
		res.Status = SeverityInfo
		res.Message = "backup root will be created by the first checkpoint"
		return res
	}
	if err != nil {
		res.Status = SeverityError
		res.Message = fmt.Sprintf("backup root is not accessible: %v", err)
		return res
	}
	if !info.IsDir() {
		res.Status = SeverityError
		res.Message = "backup root is not a directory"
		return res
	}
	if err := probeWritable(c.root); err != nil {
		res.Status = SeverityError
		res.Message = fmt.Sprintf("backup root is not writable: %v", err)
		return res
	}

	if paths.Within(c.root, c.project) {
		res.Status = SeverityInfo
		res.Message = "backup root is inside the project; it is skipped when scanning"
		return res
	}

	res.Status = SeverityPass
	res.Message = "backup root is writable"
	return res
}

func nearestExisting(p string) string {
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}

func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".checkpoint-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// SnapshotsCheck lists the checkpoints and flags unreadable ones.
type SnapshotsCheck struct {
	mgr       *snapshot.Manager
	retention int
}

var _ Check = (*SnapshotsCheck)(nil)

// NewSnapshotsCheck lists checkpoints through mgr.
func NewSnapshotsCheck(mgr *snapshot.Manager, retention int) *SnapshotsCheck {
	return &SnapshotsCheck{mgr: mgr, retention: retention}
}

// Name returns the unique identifier for this check.
func (c *SnapshotsCheck) Name() string { return "checkpoints" }

// Category returns the grouping for this check.
func (c *SnapshotsCheck) Category() string { return "checkpoints" }

// Run lists checkpoints and reports degraded metadata and retention overflow.
func (c *SnapshotsCheck) Run() *CheckResult {
	res := &CheckResult{Details: map[string]any{}}

	snaps, err := c.mgr.List()
	if err != nil {
		res.Status = SeverityError
		res.Message = fmt.Sprintf("listing checkpoints: %v", err)
		return res
	}
	res.Details["count"] = len(snaps)

	var degraded []string
	for _, s := range snaps {
		if s.Degraded {
			degraded = append(degraded, s.Folder)
		}
	}

	switch {
	case len(degraded) > 0:
		res.Status = SeverityWarning
		res.Details["unreadable"] = degraded
		res.Message = fmt.Sprintf("%d checkpoint(s) have unreadable metadata: %s",
			len(degraded), strings.Join(degraded, ", "))
		res.FixHint = "Inspect the folders; delete them with: checkpoint delete <folder>"
	case len(snaps) == 0:
		res.Status = SeverityInfo
		res.Message = "no checkpoints yet"
	case c.retention > 0 && len(snaps) > c.retention:
		res.Status = SeverityInfo
		res.Message = fmt.Sprintf("%d checkpoints, %d over the retention of %d",
			len(snaps), len(snaps)-c.retention, c.retention)
		res.FixHint = "Run: checkpoint prune"
	default:
		res.Status = SeverityPass
		res.Message = fmt.Sprintf("%d checkpoint(s), latest %s", len(snaps), snaps[0].DisplayDate())
	}
	return res
}

// ScheduleCheck parses the watch schedule.
type ScheduleCheck struct {
	spec string
	now  func() time.Time
}

var _ Check = (*ScheduleCheck)(nil)

// NewScheduleCheck checks a cron schedule.
func NewScheduleCheck(spec string) *ScheduleCheck {
	return &ScheduleCheck{spec: spec, now: time.Now}
}

// Name returns the unique identifier for this check.
func (c *ScheduleCheck) Name() string { return "schedule" }

// Category returns the grouping for this check.
func (c *ScheduleCheck) Category() string { return "config" }

// Run parses the schedule and reports the next activation.
func (c *ScheduleCheck) Run() *CheckResult {
	res := &CheckResult{}
	if c.spec == "" {
		res.Status = SeverityInfo
		res.Message = "no schedule set; watch needs --schedule"
		return res
	}
	sched, err := cron.ParseStandard(c.spec)
	if err != nil {
		res.Status = SeverityError
		res.Message = fmt.Sprintf("invalid schedule %q: %v", c.spec, err)
		res.FixHint = `Use five cron fields or a descriptor such as "@hourly" or "@every 30m"`
		return res
	}
	next := sched.Next(c.now())
	res.Status = SeverityPass
	res.Message = fmt.Sprintf("next run at %s", next.Format(snapshot.CreationTimeLayout))
	res.Details = map[string]any{"schedule": c.spec, "next": next}
	return res
}
