package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct service workflow.
//
// State transitions:
//
//	PENDING ──> CONFIRMED ──> PREPARING ──> READY ──> DELIVERED ──> COMPLETED
//	   │            │             │           │
//	   └────────────┴─────────────┴───────────┴──> CANCELLED
//
// COMPLETED and CANCELLED are terminal: no transition leaves them.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status when an order is first created.
	// Orders in this status are waiting to be confirmed.
	StatusPending

	// StatusConfirmed indicates the order has been accepted and is waiting
	// for the kitchen to pick it up.
	StatusConfirmed

	// StatusPreparing indicates the kitchen is actively working on the order.
	StatusPreparing

	// StatusReady indicates the order is prepared and waiting for delivery
	// to the table or counter.
	StatusReady

	// StatusDelivered indicates the order has reached the customer.
	StatusDelivered

	// StatusCompleted indicates the order has been paid and closed.
	// This is a terminal state with no further transitions allowed.
	StatusCompleted

	// StatusCancelled indicates the order was aborted before completion.
	// This is a terminal state with no further transitions allowed.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusPending:   "PENDING",
		StatusConfirmed: "CONFIRMED",
		StatusPreparing: "PREPARING",
		StatusReady:     "READY",
		StatusDelivered: "DELIVERED",
		StatusCompleted: "COMPLETED",
		StatusCancelled: "CANCELLED",
	}
}

// StatusFromString parses a status from its string name.
// Returns a ValueIsInvalidError for unknown names; the caller sees the
// rejected name in the error cause.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks if the Status value is valid.
// StatusUnknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s < StatusPending || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements the fmt.Stringer interface and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status accepts no further transitions.
// Orders in a terminal status are dropped from active tracking.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the state machine permits moving from the
// current status to next. The function is total over all (current, next)
// pairs: any pair not in the transition table is rejected, including
// self-transitions and anything leaving a terminal status.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusPreparing || next == StatusCancelled
	case StatusPreparing:
		return next == StatusReady || next == StatusCancelled
	case StatusReady:
		return next == StatusDelivered || next == StatusCancelled
	case StatusDelivered:
		return next == StatusCompleted
	case StatusCompleted, StatusCancelled, StatusUnknown:
		return false
	default:
		return false
	}
}

// TransitionTo performs a validated transition to next.
//
// Returns:
//   - (next, nil) on a valid transition
//   - (0, *errs.ConflictError) carrying both the current and the requested
//     status if the transition is not allowed
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(next) {
		return 0, errs.NewConflictError("status", s.String(), next.String())
	}
	return next, nil
}
