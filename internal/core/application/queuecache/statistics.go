package queuecache

import (
	"context"
	"encoding/json"
	"time"
)

// Statistics is the aggregate picture of the work queue: per-bucket counts,
// the overdue count, and the average wait of pending orders.
type Statistics struct {
	PendingCount       int64     `json:"pendingCount"`
	ProcessingCount    int64     `json:"processingCount"`
	CompletedCount     int64     `json:"completedCount"`
	OverdueCount       int       `json:"overdueCount"`
	AverageWaitMinutes float64   `json:"averageWaitMinutes"`
	ComputedAt         time.Time `json:"computedAt"`
}

// Statistics returns the cached aggregate view of the queue. A missing or
// expired aggregate triggers a synchronous recompute-and-store, so callers
// always get figures at most one TTL old.
func (q *Queue) Statistics(ctx context.Context) (Statistics, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, found, err := q.cache.GetValue(ctx, statsKey)
	if err != nil {
		q.logger.Warn("statistics read failed, recomputing", "error", err)
	} else if found {
		var stats Statistics
		decodeErr := json.Unmarshal([]byte(raw), &stats)
		if decodeErr == nil {
			return stats, nil
		}
		q.logger.Warn("statistics decode failed, recomputing", "error", decodeErr)
	}

	stats, err := q.computeStatistics(ctx)
	if err != nil {
		return Statistics{}, err
	}
	q.storeStatistics(ctx, stats)
	return stats, nil
}

// refreshStatistics recomputes and re-caches the aggregate after a structural
// mutation. Failures are logged and swallowed: the next read-miss recomputes.
func (q *Queue) refreshStatistics(ctx context.Context) {
	stats, err := q.computeStatistics(ctx)
	if err != nil {
		q.logger.Warn("statistics recompute failed", "error", err)
		return
	}
	q.storeStatistics(ctx, stats)
}

func (q *Queue) computeStatistics(ctx context.Context) (Statistics, error) {
	pending, err := q.cache.SortedSetCard(ctx, BucketPending.key())
	if err != nil {
		return Statistics{}, err
	}
	processing, err := q.cache.SortedSetCard(ctx, BucketProcessing.key())
	if err != nil {
		return Statistics{}, err
	}
	completed, err := q.cache.SortedSetCard(ctx, BucketCompleted.key())
	if err != nil {
		return Statistics{}, err
	}
	overdue, err := q.cache.SetMembers(ctx, overdueKey)
	if err != nil {
		return Statistics{}, err
	}

	return Statistics{
		PendingCount:       pending,
		ProcessingCount:    processing,
		CompletedCount:     completed,
		OverdueCount:       len(overdue),
		AverageWaitMinutes: q.averagePendingWait(ctx),
		ComputedAt:         q.now().UTC(),
	}, nil
}

// averagePendingWait derives the mean age of pending orders from their
// snapshots. Orders whose snapshot already expired are skipped, the figure
// is advisory.
func (q *Queue) averagePendingWait(ctx context.Context) float64 {
	ids, err := q.cache.SortedSetRangeDesc(ctx, BucketPending.key(), 0, -1)
	if err != nil || len(ids) == 0 {
		return 0
	}

	now := q.now().UTC()
	total := 0.0
	sampled := 0
	for _, id := range ids {
		raw, found, err := q.cache.GetValue(ctx, snapshotKeyPrefix+id)
		if err != nil || !found {
			continue
		}
		var snapshot OrderSnapshot
		if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
			continue
		}
		wait := now.Sub(snapshot.CreatedAt).Minutes()
		if wait < 0 {
			wait = 0
		}
		total += wait
		sampled++
	}

	if sampled == 0 {
		return 0
	}
	return total / float64(sampled)
}

func (q *Queue) storeStatistics(ctx context.Context, stats Statistics) {
	raw, err := json.Marshal(stats)
	if err != nil {
		q.logger.Warn("statistics encode failed", "error", err)
		return
	}
	if err := q.cache.SetValue(ctx, statsKey, string(raw), statsTTL); err != nil {
		q.logger.Warn("statistics write failed", "error", err)
	}
}
