package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/exclude"
	"github.com/thoreinstein/checkpoint/internal/schedule"
	"github.com/thoreinstein/checkpoint/internal/snapshot"
)

var (
	watchSchedule  string
	watchName      string
	watchNoTrack   bool
	watchRetention int
)

func init() {
	watchCmd.Flags().StringVarP(&watchSchedule, "schedule", "s", "",
		`cron expression or descriptor, e.g. "*/15 * * * *" or "@every 30m" (default: the schedule setting)`)
	watchCmd.Flags().StringVar(&watchName, "name", schedule.DefaultName,
		"name given to scheduled checkpoints")
	watchCmd.Flags().BoolVar(&watchNoTrack, "always", false,
		"checkpoint on every tick even if nothing changed")
	watchCmd.Flags().IntVar(&watchRetention, "keep", -1,
		"checkpoints to retain after each run; 0 keeps all (default: the retention setting)")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Take checkpoints on a schedule",
	Long: `Run in the foreground and take a checkpoint on every schedule tick.

Project files are watched for changes; a tick with no change since the last
checkpoint is skipped. After each checkpoint older ones are pruned to the
retention count. A tick that fires while a checkpoint is still running is
skipped. Stop with Ctrl+C.`,
	Example: `  # Use the configured schedule
  checkpoint watch

  # Every 15 minutes during working hours
  checkpoint watch --schedule "*/15 9-18 * * 1-5"

  See Also:
    checkpoint prune - Remove old checkpoints`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runWatchWithWriter(ctx, os.Stdout)
}

func runWatchWithWriter(ctx context.Context, w io.Writer) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	spec := cfg.Schedule
	if watchSchedule != "" {
		spec = watchSchedule
	}
	if spec == "" {
		return errors.NewUserError(errors.New("no schedule configured"),
			`Pass --schedule or set "schedule" in checkpoint.yaml`)
	}
	keep := cfg.Retention
	if watchRetention >= 0 {
		keep = watchRetention
	}

	logger := loggerFrom(ctx)
	mgr := newManager(ctx, cfg)
	opts := []schedule.Option{
		schedule.WithRetention(keep),
		schedule.WithLogger(logger),
		schedule.WithRunHook(func(res schedule.RunResult, err error) {
			reportRun(w, res, err)
		}),
	}

	if !watchNoTrack {
		m := exclude.New(cfg.Excludes).With(snapshot.MetadataFileName)
		tracker, err := schedule.NewTracker(cfg.ProjectPath, m, logger, cfg.BackupPath)
		if err != nil {
			return userError(err)
		}
		defer tracker.Close()
		go func() {
			if err := tracker.Run(ctx); err != nil {
				logger.Error("change tracker stopped", "error", err)
			}
		}()
		opts = append(opts, schedule.WithChanges(tracker))
	}

	sched, err := schedule.New(spec, mgr, snapshot.CreateRequest{
		ProjectRoot: cfg.ProjectPath,
		Name:        watchName,
		Excludes:    cfg.Excludes,
	}, opts...)
	if err != nil {
		return errors.NewUserError(err, `Use five cron fields or a descriptor such as "@hourly" or "@every 30m"`)
	}

	if !quiet {
		fmt.Fprintf(w, "Watching %s (schedule %q, next run %s)\n",
			cfg.ProjectPath, spec, sched.Next(time.Now()).Format(snapshot.CreationTimeLayout))
	}
	return sched.Run(ctx)
}

func reportRun(w io.Writer, res schedule.RunResult, err error) {
	if quiet {
		return
	}
	stamp := time.Now().Format(snapshot.CreationTimeLayout)
	switch {
	case err != nil:
		fmt.Fprintf(w, "%s  failed: %v\n", stamp, err)
	case res.Skipped:
		fmt.Fprintf(w, "%s  no changes\n", stamp)
	default:
		fmt.Fprintf(w, "%s  created %s (%d files)", stamp, res.Created.Folder, res.Created.Copied)
		if len(res.Pruned) > 0 {
			fmt.Fprintf(w, ", pruned %d", len(res.Pruned))
		}
		fmt.Fprintln(w)
	}
}
