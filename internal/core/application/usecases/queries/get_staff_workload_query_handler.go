package queries

import (
	"context"

	"dispatch/internal/core/application/queuecache"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// StaffWorkloadResponse is the read model returned by GetStaffWorkloadQueryHandler.
type StaffWorkloadResponse struct {
	Score services.WorkloadScore
	// FromCache reports whether the score came from the advisory snapshot.
	// A false value means it was just recomputed from the assignment store.
	FromCache bool
}

// GetStaffWorkloadQueryHandler resolves a staff member's workload. The cached
// snapshot is consulted first; on a miss the score is recomputed from the
// assignment store and the snapshot is refreshed for the next caller.
type GetStaffWorkloadQueryHandler struct {
	staffRepo ports.StaffRepository
	queue     *queuecache.Queue
	tracker   services.WorkloadTracker
}

// NewGetStaffWorkloadQueryHandler creates a handler for staff workload lookups.
func NewGetStaffWorkloadQueryHandler(
	staffRepo ports.StaffRepository,
	queue *queuecache.Queue,
) GetStaffWorkloadQueryHandler {
	return GetStaffWorkloadQueryHandler{
		staffRepo: staffRepo,
		queue:     queue,
		tracker:   services.NewWorkloadTracker(),
	}
}

// Handle returns the workload score for the queried staff member.
func (h GetStaffWorkloadQueryHandler) Handle(
	ctx context.Context,
	query GetStaffWorkloadQuery,
) (StaffWorkloadResponse, error) {
	if err := query.Validate(); err != nil {
		return StaffWorkloadResponse{}, err
	}

	if score, found := h.queue.CachedWorkload(ctx, query.StaffID()); found {
		return StaffWorkloadResponse{Score: score, FromCache: true}, nil
	}

	member, err := h.staffRepo.Get(ctx, query.StaffID())
	if err != nil {
		return StaffWorkloadResponse{}, err
	}

	count, err := h.staffRepo.CountActiveAssignments(ctx, member.ID())
	if err != nil {
		return StaffWorkloadResponse{}, err
	}

	stats, err := h.staffRepo.GetPerformanceStats(ctx, member.ID())
	if err != nil {
		return StaffWorkloadResponse{}, err
	}

	score, err := h.tracker.Score(member, count, stats)
	if err != nil {
		return StaffWorkloadResponse{}, err
	}

	h.queue.StoreWorkload(ctx, score)

	return StaffWorkloadResponse{Score: score, FromCache: false}, nil
}
