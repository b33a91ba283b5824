package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/checkpoint/internal/cli"
	"github.com/thoreinstein/checkpoint/internal/snapshot"
)

var (
	listJSON bool
	listYAML bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Output in YAML format")
	listCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List checkpoints",
	Long: `List the checkpoints under the backup root, most recent first.

Folders whose metadata cannot be read are still listed and flagged; folders
without a metadata record are not checkpoints and are ignored.`,
	Example: `  # Table view
  checkpoint list

  # Machine-readable
  checkpoint list --json

  See Also:
    checkpoint show - Show one checkpoint in detail`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// listEntry is the structured form of one listed checkpoint.
type listEntry struct {
	Name     string `json:"name" yaml:"name"`
	Created  string `json:"created" yaml:"created"`
	Folder   string `json:"folder" yaml:"folder"`
	Path     string `json:"path" yaml:"path"`
	Files    int    `json:"files" yaml:"files"`
	Degraded bool   `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	return runListWithWriter(cmd.Context(), os.Stdout)
}

func runListWithWriter(ctx context.Context, w io.Writer) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	snaps, err := newManager(ctx, cfg).List()
	if err != nil {
		return userError(err)
	}

	switch {
	case listJSON:
		return cli.Encode(w, cli.FormatJSON, toEntries(snaps))
	case listYAML:
		return cli.Encode(w, cli.FormatYAML, toEntries(snaps))
	}

	if len(snaps) == 0 {
		fmt.Fprintf(w, "No checkpoints in %s\n", cfg.BackupPath)
		fmt.Fprintln(w, "Create one with: checkpoint create <name>")
		return nil
	}

	p := cli.NewPrinter(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Bold("NAME"), p.Bold("CREATED"), p.Bold("FOLDER"), p.Bold("FILES"))
	for _, s := range snaps {
		files := fmt.Sprint(s.Metadata.FilesCopied)
		if s.Degraded {
			files = "?"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.DisplayName(), s.DisplayDate(), s.Folder, files)
	}
	return tw.Flush()
}

func toEntries(snaps []snapshot.Snapshot) []listEntry {
	out := make([]listEntry, len(snaps))
	for i, s := range snaps {
		out[i] = listEntry{
			Name:     s.DisplayName(),
			Created:  s.DisplayDate(),
			Folder:   s.Folder,
			Path:     s.ID,
			Files:    s.Metadata.FilesCopied,
			Degraded: s.Degraded,
		}
	}
	return out
}
