package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/queuecache"

	"github.com/robfig/cron/v3"
)

// StatisticsRefreshJob keeps the cached queue statistics warm so dashboard
// reads never pay the recompute cost. The statistics expire after a minute;
// refreshing every thirty seconds means readers always hit a live aggregate.
type StatisticsRefreshJob struct {
	queue  *queuecache.Queue
	cron   *cron.Cron
	logger *slog.Logger
}

// NewStatisticsRefreshJob creates a new job for refreshing queue statistics.
func NewStatisticsRefreshJob(queue *queuecache.Queue, logger *slog.Logger) *StatisticsRefreshJob {
	return &StatisticsRefreshJob{
		queue:  queue,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "statistics_refresh_job"),
	}
}

// Start begins the refresh job to run every thirty seconds.
func (j *StatisticsRefreshJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		if _, err := j.queue.Statistics(ctx); err != nil {
			j.logger.WarnContext(ctx, "Statistics refresh failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Statistics refresh job started (running every thirty seconds)")
	return nil
}

// Stop stops the statistics refresh job.
func (j *StatisticsRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Statistics refresh job stopped")
}
