package events

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Kind discriminates the events flowing through the router.
type Kind string

const (
	// KindOrderCreated fires when a new order entered the system.
	KindOrderCreated Kind = "order.created"
	// KindOrderStatusChanged fires after a validated status transition was persisted.
	KindOrderStatusChanged Kind = "order.status_changed"
	// KindOrderAssigned fires after an order was assigned to a staff member.
	KindOrderAssigned Kind = "order.assigned"
	// KindOrderEscalated fires when the overdue sweep raised an order's priority.
	KindOrderEscalated Kind = "order.escalated"
)

// Event is one order lifecycle fact. It carries the order aggregate as it
// looked right after the store-confirmed mutation, so routing never has to
// re-read the store.
type Event struct {
	Kind           Kind
	Order          *order.Order
	PreviousStatus order.Status
	StaffID        kernel.UUID
	OccurredAt     time.Time
}

// OrderCreated builds a creation event for a freshly stored order.
func OrderCreated(o *order.Order) Event {
	return Event{
		Kind:       KindOrderCreated,
		Order:      o,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderStatusChanged builds a transition event carrying the prior status.
func OrderStatusChanged(o *order.Order, previous order.Status) Event {
	return Event{
		Kind:           KindOrderStatusChanged,
		Order:          o,
		PreviousStatus: previous,
		OccurredAt:     time.Now().UTC(),
	}
}

// OrderAssigned builds an assignment event targeting the chosen staff member.
func OrderAssigned(o *order.Order, staffID kernel.UUID) Event {
	return Event{
		Kind:       KindOrderAssigned,
		Order:      o,
		StaffID:    staffID,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderEscalated builds an escalation event for an overdue order whose
// priority was just raised.
func OrderEscalated(o *order.Order) Event {
	return Event{
		Kind:       KindOrderEscalated,
		Order:      o,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher accepts events for asynchronous routing. Publishing never blocks
// the caller: a command handler hands its event off and returns.
type Publisher interface {
	Publish(event Event)
}
