package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/checkpoint/internal/cli"
	"github.com/thoreinstein/checkpoint/internal/cli/prompt"
	"github.com/thoreinstein/checkpoint/internal/snapshot"
)

var restoreYes bool

func init() {
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [folder]",
	Short: "Restore a checkpoint onto the project",
	Long: `Copy a checkpoint's files back into the project directory.

Restore is additive: files in the checkpoint overwrite their counterparts in
the project, missing directories are created, and files that exist only in
the project are left alone. If a directory in the checkpoint is a file in the
project, nothing is written and the restore fails.

Without a folder argument you pick a checkpoint interactively on a terminal;
otherwise the most recent one is used. A confirmation prompt is shown unless
--yes is given.`,
	Example: `  # Pick interactively
  checkpoint restore

  # Restore a specific checkpoint without asking
  checkpoint restore wip_20240301_142205 --yes

  See Also:
    checkpoint list - List checkpoints`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	return runRestoreWithIO(cmd.Context(), os.Stdout, prompt.New(), args)
}

func runRestoreWithIO(ctx context.Context, w io.Writer, p *prompt.Prompter, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	mgr := newManager(ctx, cfg)

	s, err := pickSnapshot(mgr, p, args)
	if err != nil {
		return userError(err)
	}

	out := cli.NewPrinter(w)
	if !restoreYes {
		fmt.Fprintln(w, snapshot.AdditiveNotice)
		question := fmt.Sprintf("Restore %q (%s) into %s?", s.DisplayName(), s.DisplayDate(), cfg.ProjectPath)
		if !p.Confirm(question) {
			out.Muted("Restore cancelled")
			return nil
		}
	}

	bar := newProgressBar(w)
	res, err := mgr.RestoreAsync(snapshot.RestoreRequest{
		SnapshotID:  s.ID,
		ProjectRoot: cfg.ProjectPath,
	}, bar.update).Wait()
	bar.finish()
	if err != nil {
		return userError(err)
	}

	if quiet {
		return nil
	}
	out.Success("Restored %s into %s", out.Bold(s.DisplayName()), cfg.ProjectPath)
	out.Muted("  %d of %d files restored", res.Restored, res.Total)
	if res.Failed > 0 {
		out.Warn("%d file(s) could not be restored; re-run with -v for details", res.Failed)
	}
	return nil
}
