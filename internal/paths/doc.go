// Package paths resolves the filesystem locations checkpoint relies on.
//
// The per-user configuration directory follows the XDG Base Directory
// conventions through github.com/adrg/xdg:
//
//	paths.ConfigDir()  // ~/.config/checkpoint
//	paths.ConfigFile() // ~/.config/checkpoint/checkpoint.yaml
//
// Backups default to a "Backups" directory next to the project, so
// snapshots of /work/app land in /work/Backups:
//
//	paths.DefaultBackupDir("/work/app") // /work/Backups
package paths
