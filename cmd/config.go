package cmd

import "time"

// Config carries all runtime settings, loaded from the environment by the
// application entrypoint.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	// ArchiveRetention is how long completed orders stay in the active
	// working set before the retention job archives them.
	ArchiveRetention time.Duration

	// DriverStaleAfter is how long a driver may stay silent before the
	// sweep job marks it offline.
	DriverStaleAfter time.Duration

	// SyncBudget bounds the processing time of one offline sync batch.
	// Items not reached within the budget are reported as retryable.
	SyncBudget time.Duration

	// WSQueueSize bounds each dispatch subscriber's update queue.
	WSQueueSize int

	// WSMinInterval is the per-driver floor between accepted location
	// reports.
	WSMinInterval time.Duration
}
