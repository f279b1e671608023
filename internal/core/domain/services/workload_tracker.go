package services

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/staff"
	"dispatch/internal/pkg/errs"
)

// Workload band thresholds. A staff member's band is derived from the ratio of
// active assignments to role capacity.
const (
	mediumBandThreshold     = 0.4
	highBandThreshold       = 0.7
	overloadedBandThreshold = 0.85
)

// WorkloadBand classifies how loaded a staff member currently is.
type WorkloadBand int

const (
	// BandLow means the member has plenty of spare capacity (< 40%).
	BandLow WorkloadBand = iota
	// BandMedium means comfortable load (40-70%).
	BandMedium
	// BandHigh means the member is approaching the overload threshold (70-85%).
	BandHigh
	// BandOverloaded means the member is at or past the overload threshold (>= 85%).
	BandOverloaded
)

// String returns the human-readable name of the band.
func (b WorkloadBand) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMedium:
		return "medium"
	case BandHigh:
		return "high"
	case BandOverloaded:
		return "overloaded"
	default:
		return "unknown"
	}
}

// PerformanceStats carries a staff member's historical delivery quality figures.
// They come from the assignment history, not from any cache.
type PerformanceStats struct {
	// SuccessRate is the fraction of past assignments completed successfully, in [0,1].
	SuccessRate float64
	// AvgCompletionMinutes is the mean time to complete an assignment; 0 if no history.
	AvgCompletionMinutes float64
	// CustomerRating is the mean rating on a 1..5 scale; 0 if unrated.
	CustomerRating float64
}

// WorkloadScore is the derived load picture for one staff member.
// It is always recomputed from ground truth (the active-assignment count
// reported by the directory), never trusted from a cache: cached copies are
// advisory snapshots only.
type WorkloadScore struct {
	StaffID              kernel.UUID
	CurrentAssignments   int
	MaxCapacity          int
	WorkloadPercentage   float64
	SuccessRate          float64
	AvgCompletionMinutes float64
	CustomerRating       float64
	Band                 WorkloadBand
}

// WorkloadTracker derives per-staff workload from ground-truth counts.
//
// Example usage:
//
//	tracker := services.NewWorkloadTracker()
//	score, err := tracker.Score(member, activeCount, stats)
//	if err != nil {
//	    return err
//	}
//	if score.Band == services.BandOverloaded {
//	    // skip this member
//	}
type WorkloadTracker struct{}

// NewWorkloadTracker creates a new WorkloadTracker instance.
func NewWorkloadTracker() WorkloadTracker {
	return WorkloadTracker{}
}

// Score computes the WorkloadScore for a staff member given the current
// active-assignment count and historical performance stats.
//
// Returns a validation error if the member is invalid or the count is negative.
func (WorkloadTracker) Score(
	member *staff.StaffMember,
	activeAssignments int,
	stats PerformanceStats,
) (WorkloadScore, error) {
	if err := member.Validate(); err != nil {
		return WorkloadScore{}, err
	}
	if activeAssignments < 0 {
		return WorkloadScore{}, errs.NewValueIsInvalidErrorWithCause(
			"activeAssignments",
			fmt.Errorf("%d is negative", activeAssignments),
		)
	}

	capacity := member.MaxConcurrentOrders()
	percentage := 0.0
	if capacity > 0 {
		percentage = float64(activeAssignments) / float64(capacity)
	}

	return WorkloadScore{
		StaffID:              member.ID(),
		CurrentAssignments:   activeAssignments,
		MaxCapacity:          capacity,
		WorkloadPercentage:   percentage,
		SuccessRate:          stats.SuccessRate,
		AvgCompletionMinutes: stats.AvgCompletionMinutes,
		CustomerRating:       stats.CustomerRating,
		Band:                 bandFor(percentage),
	}, nil
}

func bandFor(percentage float64) WorkloadBand {
	switch {
	case percentage < mediumBandThreshold:
		return BandLow
	case percentage < highBandThreshold:
		return BandMedium
	case percentage < overloadedBandThreshold:
		return BandHigh
	default:
		return BandOverloaded
	}
}
