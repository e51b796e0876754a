package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/commands"
)

// ArchiveOrdersJob periodically archives terminal orders whose last
// transition fell out of the retention window. Runs hourly.
type ArchiveOrdersJob struct {
	handler   commands.ArchiveOrdersCommandHandler
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewArchiveOrdersJob creates the retention job. retention is how long a
// completed order stays in the active working set.
func NewArchiveOrdersJob(
	handler commands.ArchiveOrdersCommandHandler, retention time.Duration, logger *slog.Logger,
) *ArchiveOrdersJob {
	return &ArchiveOrdersJob{
		handler:   handler,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.With("component", "archive_orders_job"),
	}
}

// Start schedules the job to run at the top of every hour.
func (j *ArchiveOrdersJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewArchiveOrdersCommand(time.Now().Add(-j.retention))
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Archive job could not build command", "error", cmdErr)
			return
		}

		archived, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Archive job failed", "error", handleErr)
			return
		}
		if archived > 0 {
			j.logger.InfoContext(ctx, "Archived completed orders", "count", archived)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Archive orders job started (running hourly)", "retention", j.retention.String())
	return nil
}

// Stop stops the job.
func (j *ArchiveOrdersJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Archive orders job stopped")
}
