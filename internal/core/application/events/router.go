package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"dispatch/internal/core/application/queuecache"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/staff"
	"dispatch/internal/core/ports"
	"dispatch/internal/notifier"
	"dispatch/internal/pkg/errs"
)

// ordersChannel is the pub/sub channel other subsystems subscribe to for
// order lifecycle updates.
const ordersChannel = "orders:events"

// eventBuffer bounds the router's inbox. When it is full the event is
// dropped and logged; every derived structure is reconstructible, so a
// dropped event costs freshness, not correctness.
const eventBuffer = 256

// ErrRouterAlreadyStarted is returned when Start is called twice.
var ErrRouterAlreadyStarted = errors.New("router is already started")

// Router turns order lifecycle events into their side effects: relocating
// the order in the priority queue cache, fanning out notifications, and
// republishing the event for external subscribers.
//
// Routing is asynchronous relative to the store mutation that caused the
// event. Callers never block on cache or notification propagation.
type Router struct {
	queue  *queuecache.Queue
	hub    *notifier.Hub
	cache  ports.CacheStore
	logger *slog.Logger

	inbox chan Event

	startMu  sync.Mutex
	started  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewRouter creates a Router driving the given queue cache and hub.
func NewRouter(
	queue *queuecache.Queue,
	hub *notifier.Hub,
	cache ports.CacheStore,
	logger *slog.Logger,
) (*Router, error) {
	if queue == nil {
		return nil, errs.NewValueIsRequiredError("queue")
	}
	if hub == nil {
		return nil, errs.NewValueIsRequiredError("hub")
	}
	if cache == nil {
		return nil, errs.NewValueIsRequiredError("cache")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Router{
		queue:    queue,
		hub:      hub,
		cache:    cache,
		logger:   logger.With("component", "event_router"),
		inbox:    make(chan Event, eventBuffer),
		stopChan: make(chan struct{}),
	}, nil
}

// Publish enqueues an event for routing. It never blocks: if the inbox is
// full the event is dropped and logged.
func (r *Router) Publish(event Event) {
	select {
	case r.inbox <- event:
	default:
		r.logger.Warn("event dropped, inbox full", "kind", event.Kind)
	}
}

// Start launches the routing loop.
func (r *Router) Start() error {
	r.startMu.Lock()
	defer r.startMu.Unlock()

	if r.started {
		return ErrRouterAlreadyStarted
	}
	r.started = true

	r.wg.Add(1)
	go r.run()
	return nil
}

// Stop drains nothing: events still in the inbox are abandoned. Derived
// state self-heals through TTL expiry and read-miss recompute.
func (r *Router) Stop() {
	r.startMu.Lock()
	if !r.started {
		r.startMu.Unlock()
		return
	}
	r.started = false
	close(r.stopChan)
	r.startMu.Unlock()

	r.wg.Wait()
}

func (r *Router) run() {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopChan:
			return
		case event := <-r.inbox:
			r.route(context.Background(), event)
		}
	}
}

func (r *Router) route(ctx context.Context, event Event) {
	if event.Order == nil {
		r.logger.Warn("event without order", "kind", event.Kind)
		return
	}

	switch event.Kind {
	case KindOrderCreated:
		r.routeCreated(ctx, event)
	case KindOrderStatusChanged:
		r.routeStatusChanged(ctx, event)
	case KindOrderAssigned:
		r.routeAssigned(ctx, event)
	case KindOrderEscalated:
		r.routeEscalated(ctx, event)
	default:
		r.logger.Warn("unknown event kind", "kind", event.Kind)
	}

	r.republish(ctx, event)
}

// Route processes a single event synchronously, bypassing the inbox.
// Used by tests and by callers that need the side effects applied before
// returning.
func (r *Router) Route(ctx context.Context, event Event) {
	r.route(ctx, event)
}

func (r *Router) routeCreated(ctx context.Context, event Event) {
	r.queue.Add(ctx, event.Order)

	message := notifier.NewMessage(notifier.TypeOrderCreated, event.Order.Priority()).
		WithData(orderData(event)).
		WithText("New order", "A new order entered the queue")
	r.hub.BroadcastToRole(staff.RoleKitchen, message)
}

func (r *Router) routeStatusChanged(ctx context.Context, event Event) {
	from, hadBucket := queuecache.BucketForStatus(event.PreviousStatus)
	to, hasBucket := queuecache.BucketForStatus(event.Order.Status())

	switch {
	case !hasBucket:
		r.queue.Remove(ctx, event.Order.ID())
	case !hadBucket:
		r.queue.Add(ctx, event.Order)
	case from != to:
		r.queue.Move(ctx, event.Order, from, to)
	default:
		r.queue.Add(ctx, event.Order)
	}

	message := notifier.NewMessage(notifier.TypeOrderStatusChanged, event.Order.Priority()).
		WithData(orderData(event))
	r.hub.BroadcastAll(message)
}

func (r *Router) routeAssigned(ctx context.Context, event Event) {
	r.queue.Add(ctx, event.Order)

	message := notifier.NewMessage(notifier.TypeOrderAssigned, event.Order.Priority()).
		WithData(orderData(event)).
		WithText("Order assigned", "An order was assigned to you").
		WithAck(0)
	if _, err := r.hub.SendToStaff(event.StaffID, message); err != nil {
		r.logger.Warn("assignee not connected",
			"orderId", event.Order.ID().String(), "staffId", event.StaffID.String())
	}
}

func (r *Router) routeEscalated(ctx context.Context, event Event) {
	r.queue.Add(ctx, event.Order)
	r.queue.MarkOverdue(ctx, event.Order.ID())

	message := notifier.NewMessage(notifier.TypeOrderEscalated, event.Order.Priority()).
		WithData(orderData(event)).
		WithText("Order overdue", "An order exceeded its service threshold").
		WithAck(0)
	r.hub.BroadcastToRole(staff.RoleManager, message)
}

// republish mirrors the event onto the shared pub/sub channel for external
// subscribers. Failures are logged and swallowed.
func (r *Router) republish(ctx context.Context, event Event) {
	payload, err := json.Marshal(map[string]any{
		"event":      string(event.Kind),
		"orderId":    event.Order.ID().String(),
		"status":     event.Order.Status().String(),
		"priority":   event.Order.Priority().String(),
		"occurredAt": event.OccurredAt,
	})
	if err != nil {
		r.logger.Warn("event encode failed", "kind", event.Kind, "error", err)
		return
	}
	if err := r.cache.Publish(ctx, ordersChannel, string(payload)); err != nil {
		r.logger.Warn("event publish failed", "kind", event.Kind, "error", err)
	}
}

func orderData(event Event) map[string]any {
	data := map[string]any{
		"orderId":  event.Order.ID().String(),
		"status":   event.Order.Status().String(),
		"priority": event.Order.Priority().String(),
	}
	if event.PreviousStatus != order.StatusUnknown {
		data["previousStatus"] = event.PreviousStatus.String()
	}
	if err := event.StaffID.Validate(); err == nil {
		data["staffId"] = event.StaffID.String()
	}
	return data
}
