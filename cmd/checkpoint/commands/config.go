package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/checkpoint/internal/cli"
	"github.com/thoreinstein/checkpoint/internal/config"
	"github.com/thoreinstein/checkpoint/internal/editor"
	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/paths"
)

var (
	configFormat    string
	configInitForce bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format: yaml, toml, json")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage checkpoint configuration",
	Long: `Manage checkpoint configuration stored in checkpoint.yaml.

Without a subcommand, shows the effective configuration.`,
	Example: `  # Show the effective configuration
  checkpoint config

  # Write a starter file to the user config directory
  checkpoint config init

See Also: checkpoint config show, checkpoint config path, checkpoint config edit`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, the config file,
CHECKPOINT_* environment variables and flags, with paths resolved.`,
	Example: `  checkpoint config show
  checkpoint config show --format toml
  checkpoint -P ~/src/app config show --format json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with the default settings.

The file goes to the --config path when given, otherwise to the user config
directory. An existing file is kept unless --force is given.`,
	Example: `  checkpoint config init
  checkpoint --config ./checkpoint.yaml config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runConfigPathWithWriter(os.Stdout)
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in an editor",
	Long: `Open the configuration file in $EDITOR (or $VISUAL, nano, vi) and
validate it once the editor exits. A missing file is created with the
default settings first.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runConfigEditWithWriter(os.Stdout)
	},
}

// openEditor is replaced in tests.
var openEditor = func(path string) error {
	ed, err := editor.Detect()
	if err != nil {
		return err
	}
	return ed.Open(path)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	return runConfigShowWithWriter(os.Stdout)
}

func runConfigShowWithWriter(w io.Writer) error {
	f, err := cli.ParseFormat(configFormat)
	if err != nil {
		return userError(err)
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	return cli.Encode(w, f, cfg)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	return runConfigInitWithWriter(os.Stdout)
}

func runConfigInitWithWriter(w io.Writer) error {
	path := cfgFile
	if path == "" {
		path = paths.ConfigFile()
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.NewUserError(errors.Newf("config file already exists at %s", path),
			"Use --force to overwrite it")
	}

	if err := config.Save(config.Default(), path); err != nil {
		return errors.NewSystemError(err, "")
	}
	cli.NewPrinter(w).Success("Wrote %s", path)
	return nil
}

func runConfigEditWithWriter(w io.Writer) error {
	_, _ = config.Load(cfgFile)
	path := configFileInUse()
	if path == "" {
		path = cfgFile
	}
	if path == "" {
		path = paths.ConfigFile()
	}

	p := cli.NewPrinter(w)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.Save(config.Default(), path); err != nil {
			return errors.NewSystemError(err, "")
		}
		p.Muted("Created %s with default settings", path)
	}

	fmt.Fprintf(w, "Location: %s\n", path)
	if err := openEditor(path); err != nil {
		return errors.NewUserError(err, "Set $EDITOR to your preferred editor")
	}

	if _, err := config.Load(path); err != nil {
		return errors.NewUserError(err, "Run: checkpoint config edit")
	}
	p.Success("Configuration is valid")
	return nil
}

func runConfigPathWithWriter(w io.Writer) error {
	// only the lookup matters here; a bad file is still reported by path
	_, _ = config.Load(cfgFile)
	if used := configFileInUse(); used != "" {
		fmt.Fprintln(w, used)
		return nil
	}
	if cfgFile != "" {
		fmt.Fprintf(w, "%s (not found)\n", cfgFile)
		return nil
	}
	fmt.Fprintf(w, "%s (not found, using defaults)\n", paths.ConfigFile())
	return nil
}
