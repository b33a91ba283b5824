package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/checkpoint/internal/config"
	"github.com/thoreinstein/checkpoint/internal/doctor"
	"github.com/thoreinstein/checkpoint/internal/errors"
)

var (
	doctorJSON bool
	doctorAll  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show every check, including passed ones")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "all")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the checkpoint setup",
	Long: `Run diagnostic checks on the configuration, the project directory, the
backup root and the checkpoints stored in it.

Exit codes:
  0 - No errors or warnings
  1 - Warnings present, no errors
  2 - Errors present`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var (
	errDoctorWarnings = errors.New("doctor found warnings")
	errDoctorErrors   = errors.New("doctor found errors")
)

func runDoctor(cmd *cobra.Command, _ []string) error {
	return runDoctorWithWriter(cmd.Context(), os.Stdout)
}

func runDoctorWithWriter(ctx context.Context, w io.Writer) error {
	runner, err := doctorRunner(ctx)
	if err != nil {
		return err
	}
	report := runner.Run()

	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	} else if !quiet {
		writeDoctorText(w, report, doctorAll)
	}

	switch {
	case report.HasErrors():
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	case report.HasWarnings():
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

// doctorRunner loads the configuration itself so that a broken file is
// reported as a failed check instead of aborting the run.
func doctorRunner(ctx context.Context) (*doctor.Runner, error) {
	cfg, loadErr := config.Load(cfgFile)
	if loadErr != nil {
		cfg = config.Fallback()
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.NewSystemError(errors.Wrap(err, "getting working directory"), "")
	}
	if err := cfg.Resolve(cwd); err != nil {
		return nil, errors.NewConfigError(err)
	}

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(cfg, loadErr, configFileInUse()))
	runner.AddCheck(doctor.NewScheduleCheck(cfg.Schedule))
	runner.AddCheck(doctor.NewProjectCheck(cfg.ProjectPath, cfg.BackupPath, cfg.Excludes))
	runner.AddCheck(doctor.NewBackupRootCheck(cfg.BackupPath, cfg.ProjectPath))
	runner.AddCheck(doctor.NewSnapshotsCheck(newManager(ctx, cfg), cfg.Retention))
	return runner, nil
}

// configFileInUse returns the config file viper read, or "" when running
// on defaults.
func configFileInUse() string {
	used := config.Used()
	if used == "" {
		return ""
	}
	if _, err := os.Stat(used); err != nil {
		return ""
	}
	return used
}

func writeDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	shown := false
	for _, r := range report.Results {
		problem := r.Status == doctor.SeverityError || r.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}
		shown = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(r.Status), r.Category, r.Name, r.Message)
		if r.FixHint != "" && (problem || showAll) {
			fmt.Fprintf(w, "  hint: %s\n", r.FixHint)
		}
	}
	if shown {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "i"
	case doctor.SeverityWarning:
		return "!"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
