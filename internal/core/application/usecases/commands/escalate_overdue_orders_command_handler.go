package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/events"
)

// EscalateOverdueOrdersCommandHandler runs the periodic overdue sweep.
// Orders stuck past the service threshold get escalated one priority step
// and announced, which also re-scores them in the priority queue.
//
// The sweep tolerates concurrent mutation of the orders it scans: each
// escalation is an independent update, and an order completed mid-sweep
// simply fails its individual update without aborting the rest.
type EscalateOverdueOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewEscalateOverdueOrdersCommandHandler creates a handler for the sweep.
func NewEscalateOverdueOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	publisher events.Publisher,
	logger *slog.Logger,
) EscalateOverdueOrdersCommandHandler {
	return EscalateOverdueOrdersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "escalation_sweep"),
	}
}

// Handle escalates every overdue active order and publishes an escalation
// event per order. Reassigning escalated orders to less-loaded staff is an
// extension point; today the sweep only raises priority and notifies.
func (h EscalateOverdueOrdersCommandHandler) Handle(ctx context.Context, command EscalateOverdueOrdersCommand) error {
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

	overdue, err := orderRepo.GetOverdue(ctx, command.Threshold())
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	escalated := overdue[:0]
	for _, aggregate := range overdue {
		before := aggregate.Priority()
		aggregate.Escalate()
		if aggregate.Priority() == before {
			// Already at the ceiling.
			continue
		}

		if err := orderRepo.Update(ctx, aggregate); err != nil {
			h.logger.Warn("escalation update failed",
				"orderId", aggregate.ID().String(), "error", err)
			continue
		}
		escalated = append(escalated, aggregate)
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	for _, aggregate := range escalated {
		h.logger.Info("order escalated",
			"orderId", aggregate.ID().String(), "priority", aggregate.Priority().String())
		h.publisher.Publish(events.OrderEscalated(aggregate))
	}
	return nil
}
