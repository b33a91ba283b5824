// Package commands implements the CLI commands for checkpoint.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/checkpoint/cmd"
	"github.com/thoreinstein/checkpoint/internal/config"
	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/logging"
)

// cfgFile holds the value of the --config flag.
var cfgFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// logCloser closes the --log-file handle when the command finishes.
var logCloser func() error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./checkpoint.yaml, then the user config directory)")
	rootCmd.PersistentFlags().StringP("project", "P", "",
		"project directory to checkpoint (default: current directory)")
	rootCmd.PersistentFlags().StringP("backup-dir", "B", "",
		"directory holding checkpoints (default: <project>/../Backups)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress progress and non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("checkpoint version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	bindFlags(rootCmd)
}

// bindFlags lets -P and -B override project_path and backup_path.
func bindFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag(config.KeyProjectPath, cmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag(config.KeyBackupPath, cmd.PersistentFlags().Lookup("backup-dir"))
}

var rootCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Snapshot and restore project directories",
	Long: `checkpoint copies a project directory into a timestamped folder under a
backup root, skipping build output, dependencies and other excluded entries.
Checkpoints can be listed, inspected, restored onto the project, deleted,
pruned to a retention count, or taken automatically on a schedule.

Settings are read from checkpoint.yaml (current directory first, then the
user config directory), CHECKPOINT_* environment variables and flags.`,
	Example: `  # Take a checkpoint of the current directory
  checkpoint create before-refactor

  # See what is available
  checkpoint list

  # Roll the project forward to a checkpoint
  checkpoint restore before-refactor_20240301_142205

  # Checkpoint every 30 minutes while files change
  checkpoint watch --schedule "@every 30m"

  See Also: checkpoint config, checkpoint prune`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if logCloser != nil {
			err := logCloser()
			logCloser = nil
			return errors.Wrap(err, "closing log file")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		level = logging.LevelFromVerbosity(verbosity)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case logging.FormatText:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	default:
		return errors.NewUserError(errors.Newf("invalid --log-format %q", logFormat), "Use text or json")
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		logCloser = f.Close
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
