// Package config provides configuration management for the checkpoint CLI.
//
// Settings come from, in increasing order of precedence: built-in defaults,
// a checkpoint.yaml file in the working directory or the user config
// directory, CHECKPOINT_* environment variables and bound command-line flags.
//
// # Configuration File
//
//	version: 1
//	project_path: /work/app        # optional, defaults to the working directory
//	backup_path: /work/Backups     # optional, defaults to <project>/../Backups
//	excludes:
//	  - node_modules
//	  - "*.log"
//	retention: 5                   # snapshots kept by prune and watch; 0 keeps all
//	schedule: "@every 30m"         # used by watch
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Resolve(cwd); err != nil {
//	    return err
//	}
//
// [Load] validates the result; [Validate] can also be called directly and
// returns every problem found rather than the first.
package config
