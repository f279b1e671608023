package services

import (
	"sort"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/staff"
)

// Scoring weights. The five factors sum to 1.0 so the total lands in [0,1].
const (
	capacityWeight    = 0.30
	skillWeight       = 0.25
	performanceWeight = 0.20
	proximityWeight   = 0.15
	priorityWeight    = 0.10
)

const (
	// minAssignableScore is the total a candidate must exceed to be assignable.
	minAssignableScore = 0.5

	// overloadThreshold is the workload percentage at which capacity score
	// collapses to a token value and the capacity gate closes for ordinary staff.
	overloadThreshold = 0.85

	// neutralProximityScore is the placeholder locality score until table-zone
	// proximity data is wired in.
	neutralProximityScore = 0.7

	// expectedCompletionMinutes is the baseline against which a candidate's
	// average completion time is normalized into an efficiency factor.
	expectedCompletionMinutes = 15.0
)

// SelectionOutcome classifies the result of a candidate selection.
type SelectionOutcome int

const (
	// OutcomeSelected means a best candidate was found.
	OutcomeSelected SelectionOutcome = iota
	// OutcomeNoCandidates means no eligible staff were offered at all.
	OutcomeNoCandidates
	// OutcomeBelowThreshold means candidates existed but none was assignable:
	// every total fell at or below the threshold, or capacity was exhausted.
	OutcomeBelowThreshold
)

// ScoreBreakdown is the per-factor scoring detail for one candidate.
// Each factor is in [0,1]; Total is their weighted sum.
type ScoreBreakdown struct {
	CapacityScore    float64
	SkillScore       float64
	PerformanceScore float64
	ProximityScore   float64
	PriorityScore    float64
	Total            float64
}

// Candidate pairs a staff member with their ground-truth workload picture.
type Candidate struct {
	Member   *staff.StaffMember
	Workload WorkloadScore
}

// SelectionResult is the structured outcome of a selection run. Selection
// failures are data, not errors: callers branch on Outcome and only genuinely
// unexpected faults surface as Go errors.
type SelectionResult struct {
	Outcome SelectionOutcome
	// Best is the winning candidate; nil unless Outcome is OutcomeSelected.
	Best *Candidate
	// BestScore is the winner's breakdown; zero value unless selected.
	BestScore ScoreBreakdown
}

// AssignmentScorer is a domain service responsible for finding the optimal
// staff member for an order using five weighted factors: capacity, skill
// match, historical performance, proximity, and priority affinity.
//
// Business rules:
//   - A candidate is assignable only if their total score exceeds 0.5 AND
//     their capacity score is positive (workload below 100%)
//   - Candidates at or past the overload threshold keep a token capacity
//     score but rarely win
//   - Ties are broken deterministically by staff id ordering
//
// Example usage:
//
//	scorer := services.NewAssignmentScorer()
//	result, err := scorer.SelectBest(order, candidates)
//	if err != nil {
//	    return err
//	}
//	switch result.Outcome {
//	case services.OutcomeSelected:
//	    // assign result.Best.Member
//	case services.OutcomeNoCandidates:
//	    // nobody on duty for this skill
//	case services.OutcomeBelowThreshold:
//	    // everyone too loaded or too weak a match
//	}
type AssignmentScorer struct{}

// NewAssignmentScorer creates a new AssignmentScorer instance.
func NewAssignmentScorer() AssignmentScorer {
	return AssignmentScorer{}
}

// SelectBest scores every candidate for the order and returns the
// maximum-scoring assignable one.
//
// Candidates are sorted by staff id before scanning and a later candidate
// replaces the current best only on a strictly greater total, so equal scores
// resolve to the lowest staff id every run.
//
// Returns an error only for invalid inputs; empty pools and below-threshold
// pools are reported through SelectionResult.Outcome.
func (s AssignmentScorer) SelectBest(o *order.Order, candidates []Candidate) (SelectionResult, error) {
	if err := o.Validate(); err != nil {
		return SelectionResult{}, err
	}

	if len(candidates) == 0 {
		return SelectionResult{Outcome: OutcomeNoCandidates}, nil
	}

	pool := make([]Candidate, len(candidates))
	copy(pool, candidates)
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].Member.ID().String() < pool[j].Member.ID().String()
	})

	var (
		best      *Candidate
		bestScore ScoreBreakdown
	)

	for i := range pool {
		candidate := &pool[i]
		if err := candidate.Member.Validate(); err != nil {
			return SelectionResult{}, err
		}

		score := s.Score(o, candidate)
		if score.CapacityScore <= 0 || score.Total <= minAssignableScore {
			continue
		}

		if best == nil || score.Total > bestScore.Total {
			best = candidate
			bestScore = score
		}
	}

	if best == nil {
		return SelectionResult{Outcome: OutcomeBelowThreshold}, nil
	}

	return SelectionResult{
		Outcome:   OutcomeSelected,
		Best:      best,
		BestScore: bestScore,
	}, nil
}

// Score computes the full five-factor breakdown for one candidate.
func (s AssignmentScorer) Score(o *order.Order, candidate *Candidate) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		CapacityScore:    capacityScore(candidate.Workload.WorkloadPercentage),
		SkillScore:       skillScore(o, candidate.Member),
		PerformanceScore: performanceScore(candidate.Workload),
		ProximityScore:   neutralProximityScore,
		PriorityScore:    priorityScore(o, candidate.Member),
	}

	breakdown.Total = breakdown.CapacityScore*capacityWeight +
		breakdown.SkillScore*skillWeight +
		breakdown.PerformanceScore*performanceWeight +
		breakdown.ProximityScore*proximityWeight +
		breakdown.PriorityScore*priorityWeight

	return breakdown
}

// CanHandleMore is the capacity gate applied before creating an assignment.
//
// Rules:
//   - Workload at or past 100% always rejects
//   - Workload at or past 70% with a success rate below 0.8 rejects
//   - Staff with a success rate above 0.9 are allowed up to 95% workload
//   - Everyone else is gated at the overload threshold (85%)
func (AssignmentScorer) CanHandleMore(workload WorkloadScore) bool {
	if workload.WorkloadPercentage >= 1.0 {
		return false
	}
	if workload.WorkloadPercentage >= 0.7 && workload.SuccessRate < 0.8 {
		return false
	}
	if workload.SuccessRate > 0.9 {
		return workload.WorkloadPercentage < 0.95
	}
	return workload.WorkloadPercentage < overloadThreshold
}

// capacityScore rewards spare capacity: zero at or past full load, a token
// 0.2 at or past the overload threshold, otherwise the unused fraction.
func capacityScore(workloadPercentage float64) float64 {
	switch {
	case workloadPercentage >= 1.0:
		return 0
	case workloadPercentage >= overloadThreshold:
		return 0.2
	default:
		return 1 - workloadPercentage
	}
}

// skillScore starts from a 0.5 base, adds 0.4 for a role/skill match, and
// adds 0.1 when a complex order meets a manager-tier candidate.
func skillScore(o *order.Order, member *staff.StaffMember) float64 {
	score := 0.5
	if member.Role().MatchesOrderSkill(o.RequiresTableService()) {
		score += 0.4
	}
	if o.IsComplex() && member.Role().IsManagerTier() {
		score += 0.1
	}
	return score
}

// performanceScore is the success rate adjusted by a completion-time
// efficiency factor clamped to [0.5, 1.5], blended with a normalized
// customer-rating term when a rating exists. The result is clamped to [0,1].
func performanceScore(workload WorkloadScore) float64 {
	efficiency := 1.0
	if workload.AvgCompletionMinutes > 0 {
		efficiency = clamp(expectedCompletionMinutes/workload.AvgCompletionMinutes, 0.5, 1.5)
	}

	score := workload.SuccessRate * efficiency
	if workload.CustomerRating > 0 {
		ratingTerm := clamp(workload.CustomerRating/5.0, 0, 1)
		score = score*0.7 + ratingTerm*0.3
	}

	return clamp(score, 0, 1)
}

// priorityScore boosts manager-tier staff for urgent orders and slightly
// penalizes ordinary staff for them; non-urgent orders score neutral.
func priorityScore(o *order.Order, member *staff.StaffMember) float64 {
	if !o.Priority().IsUrgent() {
		return 0.5
	}
	if member.Role().IsManagerTier() {
		return 1.0
	}
	return 0.3
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
