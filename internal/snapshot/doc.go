// Package snapshot creates, lists, restores, deletes and prunes checkpoints.
//
// A checkpoint is a plain copy of a project directory stored in its own
// folder under a backup root:
//
//	Backups/
//	└── {sanitized name}_{YYYYMMDD_HHMMSS}[_{n}]/
//	    ├── checkpoint_info.txt
//	    └── {copied project files...}
//
// # Creating Checkpoints
//
// Use [Manager.Create] with a name, the project root and an ordered
// exclusion list (see package exclude):
//
//	mgr := snapshot.NewManager(snapshot.WithBackupDir("/work/Backups"))
//	res, err := mgr.Create(snapshot.CreateRequest{
//	    ProjectRoot: "/work/app",
//	    Name:        "before refactor",
//	    Excludes:    exclude.DefaultPatterns(),
//	}, nil)
//
// Files are copied with their modification times and permission bits. A
// file that fails to copy is logged and skipped; a failure that aborts the
// whole operation removes the partially written folder.
//
// # Metadata Record
//
// checkpoint_info.txt holds one field per line:
//
//	Checkpoint Name: before refactor
//	Original Project Path: /work/app
//	Creation Time: 2024-03-01 14:22:05
//	Timestamped Folder: before_refactor_20240301_142205
//	Files Copied: 118
//	Folders Created (in backup): 14
//	Exclusions Used (2):
//	- *.log
//	- node_modules
//	Format Version: 1
//
// Readers match fields by label and ignore unknown lines, so records
// written without the version line still parse (as version 0).
//
// # Restoring
//
// [Manager.Restore] is additive. It overwrites files that exist in the
// checkpoint and leaves every other project file alone; show
// [AdditiveNotice] before asking users to confirm.
//
// # Asynchronous Use
//
// The CreateAsync, RestoreAsync and DeleteAsync variants return an
// [Operation] whose Wait method yields the result. Progress callbacks run
// on the operation's goroutine.
//
// # Error Handling
//
// Sentinel errors describe each failure class; use errors.Is to test them:
//
//   - [ErrInvalidRequest]: bad name or path, nothing was touched
//   - [ErrNamingExhausted]: no free folder name after 100 attempts
//   - [ErrFatal]: the operation was aborted ([ErrEmptySnapshot],
//     [ErrBackupRootUnavailable], [ErrMetadataWrite])
//   - [ErrTypeConflict]: restore found a file where a directory belongs
//   - [ErrNotFound]: the checkpoint does not exist (or survived deletion,
//     see [ErrDeleteIncomplete])
package snapshot
