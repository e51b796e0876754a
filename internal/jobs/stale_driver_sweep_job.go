package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/commands"
)

// StaleDriverSweepJob marks drivers offline when their last position report
// is older than the staleness cutoff. A driver whose connection died without
// a clean close would otherwise stay "online" on dispatch screens forever.
type StaleDriverSweepJob struct {
	handler    commands.SweepStaleDriversCommandHandler
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleDriverSweepJob creates the sweep job. staleAfter is how long a
// driver may stay silent before being considered gone.
func NewStaleDriverSweepJob(
	handler commands.SweepStaleDriversCommandHandler, staleAfter time.Duration, logger *slog.Logger,
) *StaleDriverSweepJob {
	return &StaleDriverSweepJob{
		handler:    handler,
		staleAfter: staleAfter,
		cron:       cron.New(),
		logger:     logger.With("component", "stale_driver_sweep_job"),
	}
}

// Start schedules the job to run every minute.
func (j *StaleDriverSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewSweepStaleDriversCommand(time.Now().Add(-j.staleAfter))
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Sweep job could not build command", "error", cmdErr)
			return
		}

		swept, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Sweep job failed", "error", handleErr)
			return
		}
		if swept > 0 {
			j.logger.InfoContext(ctx, "Marked stale drivers offline", "count", swept)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Stale driver sweep job started (running every minute)", "stale_after", j.staleAfter.String())
	return nil
}

// Stop stops the job.
func (j *StaleDriverSweepJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Stale driver sweep job stopped")
}
