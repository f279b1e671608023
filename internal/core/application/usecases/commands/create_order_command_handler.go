package commands

import (
	"context"

	"dispatch/internal/core/application/events"
	"dispatch/internal/core/domain/model/order"
)

// CreateOrderCommandHandler persists new orders and announces them.
// The store write commits first; queue and notification propagation happen
// asynchronously through the event router.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  events.Publisher
}

// NewCreateOrderCommandHandler creates a handler for order registration.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher events.Publisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle creates the order aggregate, stores it, and publishes an
// order-created event once the transaction committed.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	aggregate, err := order.NewOrder(
		command.OrderID(),
		command.TableNumber(),
		command.Items(),
		command.TotalAmount(),
		command.HasSpecialInstructions(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events.OrderCreated(aggregate))
	return nil
}
