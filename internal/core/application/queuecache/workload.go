package queuecache

import (
	"context"
	"encoding/json"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// workloadSnapshot is the cache wire shape of a services.WorkloadScore.
type workloadSnapshot struct {
	StaffID              string  `json:"staffId"`
	CurrentAssignments   int     `json:"currentAssignments"`
	MaxCapacity          int     `json:"maxCapacity"`
	WorkloadPercentage   float64 `json:"workloadPercentage"`
	SuccessRate          float64 `json:"successRate"`
	AvgCompletionMinutes float64 `json:"avgCompletionMinutes"`
	CustomerRating       float64 `json:"customerRating"`
	Band                 int     `json:"band"`
}

// StoreWorkload caches a freshly computed workload score for a staff member.
// The snapshot is advisory: it expires quickly and any caller that needs a
// guarantee recomputes from the assignment store.
func (q *Queue) StoreWorkload(ctx context.Context, score services.WorkloadScore) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	snapshot := workloadSnapshot{
		StaffID:              score.StaffID.String(),
		CurrentAssignments:   score.CurrentAssignments,
		MaxCapacity:          score.MaxCapacity,
		WorkloadPercentage:   score.WorkloadPercentage,
		SuccessRate:          score.SuccessRate,
		AvgCompletionMinutes: score.AvgCompletionMinutes,
		CustomerRating:       score.CustomerRating,
		Band:                 int(score.Band),
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		q.logger.Warn("workload encode failed", "staffId", snapshot.StaffID, "error", err)
		return
	}
	if err := q.cache.SetValue(ctx, workloadKeyPrefix+snapshot.StaffID, string(raw), workloadTTL); err != nil {
		q.logger.Warn("workload write failed", "staffId", snapshot.StaffID, "error", err)
	}
}

// CachedWorkload returns the advisory workload snapshot for a staff member.
// The second return is false if the snapshot is missing, expired, or
// unreadable; callers then recompute from ground truth.
func (q *Queue) CachedWorkload(ctx context.Context, staffID kernel.UUID) (services.WorkloadScore, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, found, err := q.cache.GetValue(ctx, workloadKeyPrefix+staffID.String())
	if err != nil {
		q.logger.Warn("workload read failed", "staffId", staffID.String(), "error", err)
		return services.WorkloadScore{}, false
	}
	if !found {
		return services.WorkloadScore{}, false
	}

	var snapshot workloadSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		q.logger.Warn("workload decode failed", "staffId", staffID.String(), "error", err)
		return services.WorkloadScore{}, false
	}

	id, err := kernel.UUIDFromString(snapshot.StaffID)
	if err != nil {
		q.logger.Warn("workload snapshot carries invalid staff id", "staffId", snapshot.StaffID, "error", err)
		return services.WorkloadScore{}, false
	}

	return services.WorkloadScore{
		StaffID:              id,
		CurrentAssignments:   snapshot.CurrentAssignments,
		MaxCapacity:          snapshot.MaxCapacity,
		WorkloadPercentage:   snapshot.WorkloadPercentage,
		SuccessRate:          snapshot.SuccessRate,
		AvgCompletionMinutes: snapshot.AvgCompletionMinutes,
		CustomerRating:       snapshot.CustomerRating,
		Band:                 services.WorkloadBand(snapshot.Band),
	}, true
}
