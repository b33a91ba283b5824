package commands

import (
	"context"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/checkpoint/internal/cli"
	"github.com/thoreinstein/checkpoint/internal/snapshot"
)

var (
	createExcludes          []string
	createNoDefaultExcludes bool
)

func init() {
	createCmd.Flags().StringArrayVarP(&createExcludes, "exclude", "x", nil,
		"additional exclusion pattern (repeatable)")
	createCmd.Flags().BoolVar(&createNoDefaultExcludes, "no-default-excludes", false,
		"ignore the configured exclusion list and use only --exclude")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Take a checkpoint of the project",
	Long: `Copy the project into a new folder under the backup root.

The folder is named <name>_<YYYYMMDD_HHMMSS>. Characters other than letters,
digits, '-' and '_' are dropped from the name; when the folder already exists
a _1, _2, ... suffix is added. Without a name, "checkpoint_<timestamp>" is used.

Entries matching the configured exclusion patterns plus any --exclude patterns
are skipped. A file that cannot be copied is reported and counted; it does not
abort the checkpoint.`,
	Example: `  # Checkpoint with a name
  checkpoint create before-refactor

  # Skip an extra directory for this checkpoint only
  checkpoint create -x coverage wip

  # Use exactly the given patterns
  checkpoint create --no-default-excludes -x .git -x node_modules

  See Also:
    checkpoint list    - List checkpoints
    checkpoint restore - Restore a checkpoint`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	return runCreateWithWriter(cmd.Context(), os.Stdout, args)
}

func runCreateWithWriter(ctx context.Context, w io.Writer, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	name := "checkpoint_" + time.Now().Format(snapshot.FolderTimeLayout)
	if len(args) > 0 {
		name = args[0]
	}

	var excludes []string
	if !createNoDefaultExcludes {
		excludes = slices.Clone(cfg.Excludes)
	}
	excludes = append(excludes, createExcludes...)

	mgr := newManager(ctx, cfg)
	bar := newProgressBar(w)
	op := mgr.CreateAsync(snapshot.CreateRequest{
		ProjectRoot: cfg.ProjectPath,
		Name:        name,
		Excludes:    excludes,
	}, bar.update)
	res, err := op.Wait()
	bar.finish()
	if err != nil {
		return userError(err)
	}

	if quiet {
		return nil
	}
	p := cli.NewPrinter(w)
	p.Success("Created checkpoint %s", p.Bold(res.Metadata.Name))
	p.Muted("  %s", res.Path)
	p.Muted("  %d of %d files copied, %d folders", res.Copied, res.Total, res.Metadata.FoldersCreated)
	if res.Failed > 0 {
		p.Warn("%d file(s) could not be copied; re-run with -v for details", res.Failed)
	}
	return nil
}
