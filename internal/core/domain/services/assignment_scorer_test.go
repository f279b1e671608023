package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/staff"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounterOrder(t *testing.T, items int) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(),
		0,
		[]order.Item{{Name: "Espresso", Quantity: items}},
		float64(items)*3.5,
		false,
	)
	require.NoError(t, err)
	return o
}

func newUrgentOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(
		kernel.NewUUID(),
		0,
		[]order.Item{{Name: "Espresso", Quantity: 2}},
		7.0,
		false,
		order.StatusPending,
		kernel.PriorityUrgent,
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return o
}

func newCandidate(t *testing.T, role staff.Role, active int, stats services.PerformanceStats) services.Candidate {
	t.Helper()

	member, err := staff.NewStaffMember(kernel.NewUUID(), "Staffer", role)
	require.NoError(t, err)
	member.StartShift()

	workload, err := services.NewWorkloadTracker().Score(member, active, stats)
	require.NoError(t, err)

	return services.Candidate{Member: member, Workload: workload}
}

func TestAssignmentScorerWorkedExample(t *testing.T) {
	// Staff A: kitchen, 4/6 load, success rate 0.9.
	// Staff B: kitchen, 1/6 load, success rate 0.6.
	// Normal-priority 3-item counter order, no special instructions.
	scorer := services.NewAssignmentScorer()
	o := newCounterOrder(t, 3)

	a := newCandidate(t, staff.RoleKitchen, 4, services.PerformanceStats{SuccessRate: 0.9})
	b := newCandidate(t, staff.RoleKitchen, 1, services.PerformanceStats{SuccessRate: 0.6})

	scoreA := scorer.Score(o, &a)
	scoreB := scorer.Score(o, &b)

	assert.InDelta(t, 1-4.0/6.0, scoreA.CapacityScore, 1e-9)
	assert.InDelta(t, 1-1.0/6.0, scoreB.CapacityScore, 1e-9)

	// Both are kitchen staff on a kitchen-skill order: base 0.5 plus 0.4 match.
	assert.InDelta(t, 0.9, scoreA.SkillScore, 1e-9)
	assert.InDelta(t, 0.9, scoreB.SkillScore, 1e-9)

	// No completion history and no rating, so performance is the raw success rate.
	assert.InDelta(t, 0.9, scoreA.PerformanceScore, 1e-9)
	assert.InDelta(t, 0.6, scoreB.PerformanceScore, 1e-9)

	assert.InDelta(t, 0.7, scoreA.ProximityScore, 1e-9)
	assert.InDelta(t, 0.5, scoreA.PriorityScore, 1e-9)

	expectedTotalA := 0.30*(1-4.0/6.0) + 0.25*0.9 + 0.20*0.9 + 0.15*0.7 + 0.10*0.5
	expectedTotalB := 0.30*(1-1.0/6.0) + 0.25*0.9 + 0.20*0.6 + 0.15*0.7 + 0.10*0.5

	assert.InDelta(t, expectedTotalA, scoreA.Total, 1e-9)
	assert.InDelta(t, expectedTotalB, scoreB.Total, 1e-9)

	result, err := scorer.SelectBest(o, []services.Candidate{a, b})
	require.NoError(t, err)
	require.Equal(t, services.OutcomeSelected, result.Outcome)
	assert.True(t, result.Best.Member.IsEqual(b.Member), "the lighter-loaded candidate must win")
	assert.InDelta(t, expectedTotalB, result.BestScore.Total, 1e-9)
}

func TestCapacityScoreMonotonicity(t *testing.T) {
	scorer := services.NewAssignmentScorer()
	o := newCounterOrder(t, 3)

	t.Run("capacity score strictly decreases below the overload threshold", func(t *testing.T) {
		// Service role has capacity 8, so loads step in 12.5% increments.
		previous := 2.0
		for active := 0; active <= 6; active++ {
			c := newCandidate(t, staff.RoleService, active, services.PerformanceStats{SuccessRate: 0.9})
			score := scorer.Score(o, &c)
			assert.Less(t, score.CapacityScore, previous,
				"capacity score must fall as load rises (active=%d)", active)
			previous = score.CapacityScore
		}
	})

	t.Run("full workload zeroes capacity and excludes from selection", func(t *testing.T) {
		full := newCandidate(t, staff.RoleKitchen, 6, services.PerformanceStats{SuccessRate: 1.0})
		score := scorer.Score(o, &full)
		assert.Zero(t, score.CapacityScore)

		result, err := scorer.SelectBest(o, []services.Candidate{full})
		require.NoError(t, err)
		assert.Equal(t, services.OutcomeBelowThreshold, result.Outcome)
		assert.Nil(t, result.Best)
	})

	t.Run("overloaded but not full gets the token score", func(t *testing.T) {
		// 9/10 on a manager is 90%, past the 85% threshold.
		c := newCandidate(t, staff.RoleManager, 9, services.PerformanceStats{SuccessRate: 0.9})
		score := scorer.Score(o, &c)
		assert.InDelta(t, 0.2, score.CapacityScore, 1e-9)
	})
}

func TestSkillScore(t *testing.T) {
	scorer := services.NewAssignmentScorer()

	t.Run("mismatched role scores the base only", func(t *testing.T) {
		o := newCounterOrder(t, 2)
		c := newCandidate(t, staff.RoleService, 0, services.PerformanceStats{SuccessRate: 0.9})

		score := scorer.Score(o, &c)

		assert.InDelta(t, 0.5, score.SkillScore, 1e-9)
	})

	t.Run("complex order boosts manager tier", func(t *testing.T) {
		o := newCounterOrder(t, 6)
		manager := newCandidate(t, staff.RoleManager, 0, services.PerformanceStats{SuccessRate: 0.9})
		kitchen := newCandidate(t, staff.RoleKitchen, 0, services.PerformanceStats{SuccessRate: 0.9})

		assert.InDelta(t, 1.0, scorer.Score(o, &manager).SkillScore, 1e-9)
		assert.InDelta(t, 0.9, scorer.Score(o, &kitchen).SkillScore, 1e-9)
	})
}

func TestPerformanceScore(t *testing.T) {
	scorer := services.NewAssignmentScorer()
	o := newCounterOrder(t, 2)

	t.Run("fast completions lift the score", func(t *testing.T) {
		fast := newCandidate(t, staff.RoleKitchen, 0,
			services.PerformanceStats{SuccessRate: 0.6, AvgCompletionMinutes: 10})
		slow := newCandidate(t, staff.RoleKitchen, 0,
			services.PerformanceStats{SuccessRate: 0.6, AvgCompletionMinutes: 30})

		// Efficiency 15/10=1.5 vs 15/30=0.5.
		assert.InDelta(t, 0.9, scorer.Score(o, &fast).PerformanceScore, 1e-9)
		assert.InDelta(t, 0.3, scorer.Score(o, &slow).PerformanceScore, 1e-9)
	})

	t.Run("efficiency factor is clamped", func(t *testing.T) {
		veryFast := newCandidate(t, staff.RoleKitchen, 0,
			services.PerformanceStats{SuccessRate: 0.6, AvgCompletionMinutes: 1})

		// 15/1 would be 15 but clamps to 1.5.
		assert.InDelta(t, 0.9, scorer.Score(o, &veryFast).PerformanceScore, 1e-9)
	})

	t.Run("customer rating blends in when present", func(t *testing.T) {
		rated := newCandidate(t, staff.RoleKitchen, 0,
			services.PerformanceStats{SuccessRate: 0.8, CustomerRating: 5.0})

		// 0.8*0.7 + 1.0*0.3
		assert.InDelta(t, 0.86, scorer.Score(o, &rated).PerformanceScore, 1e-9)
	})

	t.Run("score never exceeds one", func(t *testing.T) {
		star := newCandidate(t, staff.RoleKitchen, 0,
			services.PerformanceStats{SuccessRate: 1.0, AvgCompletionMinutes: 5, CustomerRating: 5.0})

		assert.LessOrEqual(t, scorer.Score(o, &star).PerformanceScore, 1.0)
	})
}

func TestPriorityScore(t *testing.T) {
	scorer := services.NewAssignmentScorer()

	t.Run("urgent orders boost manager tier", func(t *testing.T) {
		o := newUrgentOrder(t)
		manager := newCandidate(t, staff.RoleManager, 0, services.PerformanceStats{SuccessRate: 0.9})
		kitchen := newCandidate(t, staff.RoleKitchen, 0, services.PerformanceStats{SuccessRate: 0.9})

		assert.InDelta(t, 1.0, scorer.Score(o, &manager).PriorityScore, 1e-9)
		assert.InDelta(t, 0.3, scorer.Score(o, &kitchen).PriorityScore, 1e-9)
	})

	t.Run("normal orders score neutral for everyone", func(t *testing.T) {
		o := newCounterOrder(t, 2)
		manager := newCandidate(t, staff.RoleManager, 0, services.PerformanceStats{SuccessRate: 0.9})

		assert.InDelta(t, 0.5, scorer.Score(o, &manager).PriorityScore, 1e-9)
	})
}

func TestSelectBest(t *testing.T) {
	scorer := services.NewAssignmentScorer()

	t.Run("empty pool reports no candidates", func(t *testing.T) {
		result, err := scorer.SelectBest(newCounterOrder(t, 2), nil)

		require.NoError(t, err)
		assert.Equal(t, services.OutcomeNoCandidates, result.Outcome)
		assert.Nil(t, result.Best)
	})

	t.Run("all below threshold reports below threshold", func(t *testing.T) {
		// A cashier mismatches both skills and has weak history: the total
		// lands under the 0.5 cutoff.
		weak := newCandidate(t, staff.RoleCashier, 3, services.PerformanceStats{SuccessRate: 0.1})

		result, err := scorer.SelectBest(newCounterOrder(t, 2), []services.Candidate{weak})

		require.NoError(t, err)
		assert.Equal(t, services.OutcomeBelowThreshold, result.Outcome)
	})

	t.Run("ties break deterministically by staff id", func(t *testing.T) {
		o := newCounterOrder(t, 2)
		stats := services.PerformanceStats{SuccessRate: 0.8}

		first := newCandidate(t, staff.RoleKitchen, 2, stats)
		second := newCandidate(t, staff.RoleKitchen, 2, stats)

		lowest := first
		if second.Member.ID().String() < first.Member.ID().String() {
			lowest = second
		}

		// Same result regardless of input order.
		for _, pool := range [][]services.Candidate{
			{first, second},
			{second, first},
		} {
			result, err := scorer.SelectBest(o, pool)
			require.NoError(t, err)
			require.Equal(t, services.OutcomeSelected, result.Outcome)
			assert.True(t, result.Best.Member.IsEqual(lowest.Member))
		}
	})

	t.Run("invalid order surfaces an error", func(t *testing.T) {
		var o order.Order

		_, err := scorer.SelectBest(&o, nil)

		require.Error(t, err)
	})
}

func TestCanHandleMore(t *testing.T) {
	scorer := services.NewAssignmentScorer()

	cases := []struct {
		name        string
		workload    float64
		successRate float64
		want        bool
	}{
		{"idle staff can take more", 0.0, 0.8, true},
		{"full workload always rejects", 1.0, 0.99, false},
		{"high load with weak history rejects", 0.7, 0.75, false},
		{"high load with solid history passes", 0.7, 0.85, true},
		{"strong performer allowed past overload", 0.9, 0.95, true},
		{"strong performer still capped at 95%", 0.95, 0.95, false},
		{"ordinary staff gated at overload threshold", 0.85, 0.85, false},
		{"ordinary staff just under the gate", 0.84, 0.85, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			workload := services.WorkloadScore{
				WorkloadPercentage: tc.workload,
				SuccessRate:        tc.successRate,
			}
			assert.Equal(t, tc.want, scorer.CanHandleMore(workload))
		})
	}
}
