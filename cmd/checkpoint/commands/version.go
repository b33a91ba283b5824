package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/checkpoint/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of checkpoint.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runVersionWithWriter(os.Stdout)
	},
}

func runVersionWithWriter(w io.Writer) error {
	fmt.Fprintf(w, "checkpoint version %s\n", cmd.Version)
	fmt.Fprintf(w, "  commit: %s\n", cmd.Commit)
	fmt.Fprintf(w, "  built:  %s\n", cmd.Date)
	return nil
}
