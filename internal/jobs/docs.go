// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the fulfillment service.
//
// # Available Jobs
//
// 1. CredentialRegenerationJob - Runs every minute to refresh expired
// confirmation codes on sub-orders that are still out for delivery
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(regenerateCredentialsHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The regeneration job uses the cron expression "0 * * * * *", running at the
// top of every minute. A code lives for two hours, so a minute of drift past
// expiry is the worst case a customer can observe.
//
// # Error Handling
//
// - Per-sub-order write conflicts are absorbed inside the command handler;
// a concurrent redemption simply wins
// - Job-level failures are logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
