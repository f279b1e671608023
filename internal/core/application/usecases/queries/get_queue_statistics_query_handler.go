package queries

import (
	"context"

	"dispatch/internal/core/application/queuecache"
)

// GetQueueStatisticsQueryHandler serves queue statistics from the cached
// aggregate. A missing or expired aggregate is recomputed synchronously by
// the queue cache, so callers always get figures at most one TTL old.
type GetQueueStatisticsQueryHandler struct {
	queue *queuecache.Queue
}

// NewGetQueueStatisticsQueryHandler creates a handler for queue statistics.
func NewGetQueueStatisticsQueryHandler(queue *queuecache.Queue) GetQueueStatisticsQueryHandler {
	return GetQueueStatisticsQueryHandler{queue: queue}
}

// Handle returns the current aggregate queue view.
func (h GetQueueStatisticsQueryHandler) Handle(
	ctx context.Context,
	query GetQueueStatisticsQuery,
) (queuecache.Statistics, error) {
	if err := query.Validate(); err != nil {
		return queuecache.Statistics{}, err
	}

	return h.queue.Statistics(ctx)
}
