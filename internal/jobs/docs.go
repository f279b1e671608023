// Package jobs provides scheduled background tasks for the scheduling system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order scheduling.
//
// # Available Jobs
//
// 1. EscalationJob - Runs every minute to bump the priority of orders waiting past the service threshold
// 2. StatisticsRefreshJob - Runs every thirty seconds to keep the cached queue statistics warm
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(escalateHandler, threshold, queue, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The escalation sweep logs failures; a missed sweep is retried on the next tick
// - The statistics refresh logs cache errors and never blocks request traffic
// - Failed job starts will stop any already running jobs
package jobs
