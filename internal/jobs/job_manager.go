package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/queuecache"
	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	escalationJob        *EscalationJob
	statisticsRefreshJob *StatisticsRefreshJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the escalation handler and queue cache as dependencies to wire up
// the job execution.
func NewJobManager(
	escalateHandler commands.EscalateOverdueOrdersCommandHandler,
	escalationThreshold time.Duration,
	queue *queuecache.Queue,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		escalationJob:        NewEscalationJob(escalateHandler, escalationThreshold, logger),
		statisticsRefreshJob: NewStatisticsRefreshJob(queue, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.escalationJob.Start(); err != nil {
		return fmt.Errorf("failed to start escalation job: %w", err)
	}

	if err := jm.statisticsRefreshJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.escalationJob.Stop()
		return fmt.Errorf("failed to start statistics refresh job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.statisticsRefreshJob.Stop()
	jm.escalationJob.Stop()
}
