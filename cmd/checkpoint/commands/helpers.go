package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/thoreinstein/checkpoint/internal/cli"
	"github.com/thoreinstein/checkpoint/internal/cli/prompt"
	"github.com/thoreinstein/checkpoint/internal/config"
	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/logging"
	"github.com/thoreinstein/checkpoint/internal/snapshot"
)

// loadSettings reads the effective configuration and resolves its paths
// against the working directory.
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.NewSystemError(errors.Wrap(err, "getting working directory"), "")
	}
	if err := cfg.Resolve(cwd); err != nil {
		return nil, errors.NewConfigError(err)
	}
	return cfg, nil
}

func newManager(ctx context.Context, cfg *config.Config) *snapshot.Manager {
	return snapshot.NewManager(
		snapshot.WithBackupDir(cfg.BackupPath),
		snapshot.WithLogger(loggerFrom(ctx)),
	)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	return logging.FromContext(ctx)
}

// pickSnapshot resolves an optional folder argument. Without one it asks the
// user on a terminal and otherwise takes the newest checkpoint.
func pickSnapshot(mgr *snapshot.Manager, p *prompt.Prompter, args []string) (*snapshot.Snapshot, error) {
	if len(args) > 0 {
		return mgr.Find(args[0])
	}
	if !p.Interactive() {
		return mgr.Latest()
	}
	snaps, err := mgr.List()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, errors.Wrapf(snapshot.ErrNotFound, "no checkpoints in %s", mgr.BackupDir())
	}
	return p.SelectSnapshot(snaps)
}

// progressBar renders snapshot progress on one terminal line. Callbacks
// arrive from the operation goroutine.
type progressBar struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	drawn   bool
}

const barWidth = 24

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w, enabled: !quiet && logging.IsTTY(w)}
}

func (b *progressBar) update(percent float64, message string) {
	if !b.enabled {
		slog.Debug("progress", "percent", int(percent), "message", message)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	filled := min(int(percent/100*barWidth), barWidth)
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
	fmt.Fprintf(b.w, "\r\033[K[%s] %3.0f%% %s", bar, percent, message)
	b.drawn = true
}

func (b *progressBar) finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drawn {
		fmt.Fprint(b.w, "\r\033[K")
		b.drawn = false
	}
}

// userError attaches an exit code and a suggestion to engine errors.
func userError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	switch {
	case errors.Is(err, snapshot.ErrNotFound), errors.Is(err, prompt.ErrNoSnapshots):
		return errors.NewUserError(err, "Run: checkpoint list")
	case errors.Is(err, snapshot.ErrInvalidRequest):
		return errors.NewUserError(err, "Check the checkpoint name and the project and backup paths")
	case errors.Is(err, snapshot.ErrTypeConflict):
		return errors.NewUserError(err, "Move the conflicting file out of the way and restore again")
	case errors.Is(err, snapshot.ErrEmptySnapshot):
		return errors.NewUserError(err, "Every entry in the project is excluded; review the excludes setting")
	case errors.Is(err, snapshot.ErrNamingExhausted):
		return errors.NewUserError(err, "Choose a different checkpoint name")
	case errors.Is(err, prompt.ErrInvalidSelection), errors.Is(err, prompt.ErrSelectionCancelled),
		errors.Is(err, cli.ErrUnknownFormat):
		return errors.NewUserError(err, "")
	default:
		return errors.NewSystemError(err, "Re-run with -vv for details")
	}
}

// PrintError writes err and its suggestion, if any, to w.
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	if !logging.SupportsColor(w) {
		red.DisableColor()
	}
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(w, "%s %v\n", red.Sprint("Error:"), err)
		return
	}
	fmt.Fprintf(w, "%s %v\n", red.Sprint("Error:"), exitErr)
	if exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}
