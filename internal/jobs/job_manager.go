package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	archiveOrdersJob    *ArchiveOrdersJob
	staleDriverSweepJob *StaleDriverSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	archiveHandler commands.ArchiveOrdersCommandHandler,
	sweepHandler commands.SweepStaleDriversCommandHandler,
	retention time.Duration,
	staleAfter time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		archiveOrdersJob:    NewArchiveOrdersJob(archiveHandler, retention, logger),
		staleDriverSweepJob: NewStaleDriverSweepJob(sweepHandler, staleAfter, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.archiveOrdersJob.Start(); err != nil {
		return fmt.Errorf("failed to start archive orders job: %w", err)
	}

	if err := jm.staleDriverSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.archiveOrdersJob.Stop()
		return fmt.Errorf("failed to start stale driver sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleDriverSweepJob.Stop()
	jm.archiveOrdersJob.Stop()
}
