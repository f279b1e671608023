package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/application/events"
	"dispatch/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler applies validated status transitions.
//
// Concurrency: the handler never locks the order. It reads the current
// status, validates the transition in the domain, and applies it with a
// conditional update that only succeeds if the persisted status is still
// the one it read. The loser of a concurrent race gets a version error and
// the caller re-reads.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderAssignmentUoWFactory
	publisher  events.Publisher
}

// NewChangeOrderStatusCommandHandler creates a handler for status transitions.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderAssignmentUoWFactory,
	publisher events.Publisher,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle transitions the order, keeps its active assignment's lifecycle in
// step, and publishes a status-changed event after commit.
//
// Returns:
//   - *errs.ConflictError if the state machine rejects the transition
//   - *errs.VersionIsInvalidError if a concurrent transition won the race
//   - *errs.ObjectNotFoundError if the order does not exist
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, command ChangeOrderStatusCommand) error {
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
	assignmentRepo := uow.AssignmentRepository()

	aggregate, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	previous := aggregate.Status()
	if err := aggregate.ChangeStatus(command.Next()); err != nil {
		return err
	}

	updated, err := orderRepo.UpdateStatusIf(ctx, command.OrderID(), previous, command.Next())
	if err != nil {
		return err
	}
	if !updated {
		return errs.NewVersionIsInvalidError("orderStatus")
	}

	active, err := assignmentRepo.GetActiveByOrder(ctx, command.OrderID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		// Unassigned orders transition on their own.
	case err != nil:
		return err
	default:
		if err := active.SyncWithOrderStatus(aggregate.Status()); err != nil {
			return err
		}
		if err := assignmentRepo.Update(ctx, active); err != nil {
			return err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events.OrderStatusChanged(aggregate, previous))
	return nil
}
