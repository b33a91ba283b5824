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

var showFormat string

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "", "Output format: yaml, json, toml (default: text)")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <folder>",
	Short: "Show a checkpoint's metadata",
	Long: `Show the metadata recorded for a checkpoint: name, source project,
creation time, file and folder counts and the exclusion patterns used.

The argument is a folder name as printed by 'checkpoint list', or a path.`,
	Example: `  checkpoint show wip_20240301_142205
  checkpoint show wip_20240301_142205 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	return runShowWithWriter(cmd.Context(), os.Stdout, args[0])
}

func runShowWithWriter(ctx context.Context, w io.Writer, ref string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	s, err := newManager(ctx, cfg).Find(ref)
	if err != nil {
		return userError(err)
	}

	if showFormat == "" {
		fmt.Fprint(w, prompt.Describe(*s))
		return nil
	}
	f, err := cli.ParseFormat(showFormat)
	if err != nil {
		return userError(err)
	}
	return cli.Encode(w, f, s)
}
