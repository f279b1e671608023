package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// EscalationJob manages the scheduled escalation of overdue orders.
// Runs every minute to bump the priority of orders waiting past the threshold.
type EscalationJob struct {
	handler   commands.EscalateOverdueOrdersCommandHandler
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewEscalationJob creates a new job for escalating overdue orders.
// Uses EscalateOverdueOrdersCommandHandler to run the sweep every minute.
func NewEscalationJob(
	handler commands.EscalateOverdueOrdersCommandHandler,
	threshold time.Duration,
	logger *slog.Logger,
) *EscalationJob {
	return &EscalationJob{
		handler:   handler,
		threshold: threshold,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "escalation_job"),
	}
}

// Start begins the escalation job to run every minute.
func (j *EscalationJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewEscalateOverdueOrdersCommand(j.threshold)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Escalation sweep misconfigured", "error", cmdErr)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Escalation sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Escalation job started (running every minute)")
	return nil
}

// Stop stops the escalation job.
func (j *EscalationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Escalation job stopped")
}
