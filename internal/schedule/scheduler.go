package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/logging"
	"github.com/thoreinstein/checkpoint/internal/snapshot"
)

// DefaultName is the checkpoint name used for scheduled runs.
const DefaultName = "auto"

// Checkpointer is the part of snapshot.Manager a Scheduler drives.
type Checkpointer interface {
	Create(req snapshot.CreateRequest, progress snapshot.ProgressFunc) (*snapshot.CreateResult, error)
	Prune(keep int) ([]snapshot.Snapshot, error)
}

// ChangeSource reports whether a checkpoint is worth taking.
type ChangeSource interface {
	TakeDirty() bool
	MarkDirty()
}

// RunResult describes one scheduled run.
type RunResult struct {
	// Skipped is set when no change was seen since the previous run.
	Skipped bool
	Created *snapshot.CreateResult
	Pruned  []snapshot.Snapshot
}

// Scheduler takes a checkpoint on every cron tick.
type Scheduler struct {
	spec      string
	schedule  cron.Schedule
	cp        Checkpointer
	changes   ChangeSource
	req       snapshot.CreateRequest
	retention int
	logger    *slog.Logger
	onRun     func(RunResult, error)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithChanges skips runs while src reports no changes. Without it every
// tick creates a checkpoint.
func WithChanges(src ChangeSource) Option {
	return func(s *Scheduler) {
		s.changes = src
	}
}

// WithRetention prunes to keep checkpoints after each successful run.
// Zero disables pruning.
func WithRetention(keep int) Option {
	return func(s *Scheduler) {
		s.retention = keep
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunHook is called after every run, skipped or not.
func WithRunHook(fn func(RunResult, error)) Option {
	return func(s *Scheduler) {
		s.onRun = fn
	}
}

// New parses spec (five-field cron or a descriptor such as "@every 30m")
// and returns a Scheduler creating req on each tick. An empty req.Name
// becomes DefaultName.
func New(spec string, cp Checkpointer, req snapshot.CreateRequest, opts ...Option) (*Scheduler, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing schedule %q", spec)
	}
	if req.Name == "" {
		req.Name = DefaultName
	}
	s := &Scheduler{
		spec:     spec,
		schedule: sched,
		cp:       cp,
		req:      req,
		logger:   logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Next returns the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// RunOnce performs a single scheduled run synchronously.
func (s *Scheduler) RunOnce() (RunResult, error) {
	var res RunResult

	if s.changes != nil && !s.changes.TakeDirty() {
		s.logger.Info("no changes since last checkpoint, skipping")
		res.Skipped = true
		return res, nil
	}

	created, err := s.cp.Create(s.req, nil)
	if err != nil {
		if s.changes != nil {
			s.changes.MarkDirty()
		}
		return res, errors.Wrap(err, "scheduled checkpoint")
	}
	res.Created = created
	s.logger.Info("checkpoint created",
		"folder", created.Folder,
		"copied", created.Copied,
		"failed", created.Failed,
	)

	if s.retention > 0 {
		pruned, err := s.cp.Prune(s.retention)
		res.Pruned = pruned
		if err != nil {
			return res, errors.Wrap(err, "pruning after scheduled checkpoint")
		}
		for _, p := range pruned {
			s.logger.Info("pruned checkpoint", "folder", p.Folder)
		}
	}
	return res, nil
}

// Run starts the cron loop and blocks until ctx is done. A run still in
// progress when the next tick fires causes that tick to be skipped.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(
			cron.Recover(cronLogger{s.logger}),
			cron.SkipIfStillRunning(cronLogger{s.logger}),
		),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() {
		res, err := s.RunOnce()
		if err != nil {
			s.logger.Error("scheduled run failed", "error", err)
		}
		if s.onRun != nil {
			s.onRun(res, err)
		}
	}))

	s.logger.Info("scheduler started", "schedule", s.spec, "next", s.Next(time.Now()).Format(time.RFC3339))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// cronLogger adapts slog to cron.Logger. cron's Info messages are
// per-tick chatter, so they go to Debug.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(fmt.Sprintf("cron: %s", msg), append(keysAndValues, "error", err)...)
}
