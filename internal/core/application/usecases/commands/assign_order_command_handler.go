package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/application/events"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrNoCandidatesAvailable means no on-duty staff member covers the
	// order's skill at all.
	ErrNoCandidatesAvailable = errors.New("no candidates available for assignment")

	// ErrNoCandidateAboveThreshold means candidates existed but none scored
	// high enough to be assignable.
	ErrNoCandidateAboveThreshold = errors.New("no candidate above assignment threshold")
)

// Completion estimate: a base handling window plus a per-item allowance.
const (
	baseCompletionMinutes    = 15
	perItemCompletionMinutes = 2
)

// AssignOrderCommandHandler orchestrates staff selection for an order.
// It gathers the on-duty, skill-eligible pool with ground-truth workloads,
// runs the scoring engine, and persists the winning assignment, enforcing
// that an order never carries two active assignments.
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
	tracker    services.WorkloadTracker
	scorer     services.AssignmentScorer
	publisher  events.Publisher
}

// NewAssignOrderCommandHandler creates a handler for order assignment.
func NewAssignOrderCommandHandler(uowFactory UoWFactory, publisher events.Publisher) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		tracker:    services.NewWorkloadTracker(),
		scorer:     services.NewAssignmentScorer(),
		publisher:  publisher,
	}
}

// Handle assigns the order to the best-scoring staff member.
//
// Returns:
//   - *errs.ConflictError if the order already has an active assignment
//     or has reached a terminal status
//   - ErrNoCandidatesAvailable / ErrNoCandidateAboveThreshold when selection fails
//   - *errs.ObjectNotFoundError if the order does not exist
func (h AssignOrderCommandHandler) Handle(ctx context.Context, command AssignOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	staffRepo := uow.StaffRepository()
	assignmentRepo := uow.AssignmentRepository()

	aggregate, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}
	if aggregate.IsTerminal() {
		return errs.NewConflictError("order", aggregate.Status().String(), "assign")
	}

	active, err := assignmentRepo.GetActiveByOrder(ctx, command.OrderID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if active != nil {
		return errs.NewConflictError("assignment", active.Status().String(), "assign")
	}

	candidates, err := h.collectCandidates(ctx, staffRepo, aggregate.RequiresTableService())
	if err != nil {
		return err
	}

	result, err := h.scorer.SelectBest(aggregate, candidates)
	if err != nil {
		return err
	}
	switch result.Outcome {
	case services.OutcomeNoCandidates:
		return ErrNoCandidatesAvailable
	case services.OutcomeBelowThreshold:
		return ErrNoCandidateAboveThreshold
	case services.OutcomeSelected:
	}

	estimate := time.Now().UTC().Add(
		time.Duration(baseCompletionMinutes+perItemCompletionMinutes*aggregate.ItemCount()) * time.Minute)

	created, err := assignment.NewAssignment(
		kernel.NewUUID(),
		aggregate.ID(),
		result.Best.Member.ID(),
		aggregate.Priority(),
		estimate,
	)
	if err != nil {
		return err
	}

	if err := assignmentRepo.Add(ctx, created); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events.OrderAssigned(aggregate, result.Best.Member.ID()))
	return nil
}

// collectCandidates builds the scoring pool: every on-duty member covering
// the order's skill, paired with a workload recomputed from the assignment
// store. Cached workload snapshots are never consulted here.
func (h AssignOrderCommandHandler) collectCandidates(
	ctx context.Context,
	staffRepo ports.StaffRepository,
	requiresTableService bool,
) ([]services.Candidate, error) {
	onDuty, err := staffRepo.GetOnDuty(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]services.Candidate, 0, len(onDuty))
	for _, member := range onDuty {
		if !member.Role().MatchesOrderSkill(requiresTableService) {
			continue
		}

		activeCount, err := staffRepo.CountActiveAssignments(ctx, member.ID())
		if err != nil {
			return nil, err
		}
		stats, err := staffRepo.GetPerformanceStats(ctx, member.ID())
		if err != nil {
			return nil, err
		}

		workload, err := h.tracker.Score(member, activeCount, stats)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, services.Candidate{Member: member, Workload: workload})
	}
	return candidates, nil
}
