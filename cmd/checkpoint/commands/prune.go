package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/checkpoint/internal/cli"
	"github.com/thoreinstein/checkpoint/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1,
		"Number of checkpoints to retain (default: the retention setting, 5)")
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old checkpoints",
	Long: `Remove checkpoints beyond the retention count, oldest first.

By default the retention setting from the configuration is used (5 unless
changed). Use --keep to override it for one run.`,
	Example: `  # Keep the configured number of checkpoints
  checkpoint prune

  # Keep only the 3 most recent checkpoints
  checkpoint prune --keep 3

  # Remove all checkpoints
  checkpoint prune --keep 0

  See Also:
    checkpoint list   - List checkpoints
    checkpoint delete - Remove a single checkpoint`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, _ []string) error {
	keep := -1
	if cmd.Flags().Changed("keep") {
		keep = pruneKeep
		if keep < 0 {
			return errors.NewUserError(errors.New("--keep must be non-negative"), "")
		}
	}
	return runPruneWithWriter(cmd.Context(), os.Stdout, keep)
}

// runPruneWithWriter prunes to keep checkpoints; a negative keep means the
// configured retention.
func runPruneWithWriter(ctx context.Context, w io.Writer, keep int) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if keep < 0 {
		keep = cfg.Retention
	}

	removed, err := newManager(ctx, cfg).Prune(keep)
	out := cli.NewPrinter(w)
	for _, s := range removed {
		out.Success("Removed %s", s.Folder)
	}
	if err != nil {
		return userError(err)
	}

	if len(removed) == 0 {
		fmt.Fprintln(w, "No checkpoints to prune")
	} else {
		fmt.Fprintf(w, "\nTotal: removed %d checkpoint(s), kept %d\n", len(removed), keep)
	}
	return nil
}
