package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/checkpoint/internal/cli"
	"github.com/thoreinstein/checkpoint/internal/cli/prompt"
)

var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete [folder]",
	Aliases: []string{"rm"},
	Short:   "Delete a checkpoint",
	Long: `Remove a checkpoint folder and everything in it.

Without a folder argument you pick a checkpoint interactively on a terminal;
otherwise the most recent one is used. A confirmation prompt is shown unless
--yes is given.`,
	Example: `  checkpoint delete wip_20240301_142205
  checkpoint delete --yes wip_20240301_142205

  See Also:
    checkpoint prune - Remove old checkpoints in bulk`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	return runDeleteWithIO(cmd.Context(), os.Stdout, prompt.New(), args)
}

func runDeleteWithIO(ctx context.Context, w io.Writer, p *prompt.Prompter, args []string) error {
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
	if !deleteYes {
		if !p.Confirm(fmt.Sprintf("Delete checkpoint %q (%s)?", s.DisplayName(), s.Folder)) {
			out.Muted("Delete cancelled")
			return nil
		}
	}

	if _, err := mgr.DeleteAsync(s.ID).Wait(); err != nil {
		return userError(err)
	}
	if !quiet {
		out.Success("Deleted checkpoint %s", out.Bold(s.Folder))
	}
	return nil
}
