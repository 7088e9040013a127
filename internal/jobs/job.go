package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// ErrJobAlreadyRunning is returned by RunOnce while a previous pass of the same job is in flight.
var ErrJobAlreadyRunning = errors.New("job is already running")

// RunFunc executes one pass of a job.
type RunFunc func(ctx context.Context) (commands.BatchResult, error)

// Job runs RunFunc on a cron schedule and on demand. Passes of the same job never overlap.
type Job struct {
	name     string
	schedule string
	run      RunFunc
	cron     *cron.Cron
	running  atomic.Bool
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewJob creates a job evaluated in loc using a standard five-field cron spec.
func NewJob(
	name string,
	schedule string,
	loc *time.Location,
	run RunFunc,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Job {
	if loc == nil {
		loc = time.Local
	}
	logger = logger.With("component", name+"_job")
	return &Job{
		name:     name,
		schedule: schedule,
		run:      run,
		cron:     cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{logger: logger}))),
		metrics:  m,
		logger:   logger,
	}
}

func (j *Job) Name() string {
	return j.name
}

// Start registers the schedule and starts the cron scheduler.
func (j *Job) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil && !errors.Is(err, ErrJobAlreadyRunning) {
			j.logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("job stopped")
}

// RunOnce executes a single pass unless one is already in flight.
func (j *Job) RunOnce(ctx context.Context) (commands.BatchResult, error) {
	if !j.running.CompareAndSwap(false, true) {
		j.logger.WarnContext(ctx, "previous run still in progress, skipping")
		return commands.BatchResult{}, ErrJobAlreadyRunning
	}
	defer j.running.Store(false)

	runID := kernel.NewUUID().String()
	logger := j.logger.With("run_id", runID)
	started := time.Now()
	logger.InfoContext(ctx, "run started")

	result, err := j.run(ctx)
	j.metrics.JobRun(j.name, err, result.Successful, result.Failed, result.Skipped)
	if err != nil {
		logger.ErrorContext(ctx, "run aborted", "error", err, "duration", time.Since(started))
		return result, err
	}

	logger.InfoContext(ctx, "run finished",
		"successful", result.Successful,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"duration", time.Since(started),
	)
	return result, nil
}

// cronLogger routes scheduler diagnostics (recovered panics) into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
