// Package jobs provides scheduled background tasks, implemented as cron-based
// jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ArchiveOrdersJob - Runs hourly to archive terminal orders older than the
// retention window.
// 2. StaleDriverSweepJob - Runs every minute to mark drivers offline when
// their last position report is older than the staleness cutoff.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(archiveHandler, sweepHandler, retention, staleAfter, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Job failures are logged and retried on the next tick; a failing run never
// stops the schedule.
package jobs
