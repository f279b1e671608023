package assignment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an assignment.
//
// State transitions:
//
//	ASSIGNED ──> STARTED ──> COMPLETED
//	   │            │
//	   └────────────┴──> CANCELLED
//
// COMPLETED and CANCELLED are terminal. An order has at most one
// assignment in a non-terminal status at any time.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusAssigned indicates the assignment was created and the staff
	// member has been notified but has not started work yet.
	StatusAssigned

	// StatusStarted indicates the staff member is actively working the order.
	StatusStarted

	// StatusCompleted indicates the work finished. Terminal.
	StatusCompleted

	// StatusCancelled indicates the assignment was aborted, typically because
	// the order was cancelled or reassigned. Terminal.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusAssigned:  "ASSIGNED",
		StatusStarted:   "STARTED",
		StatusCompleted: "COMPLETED",
		StatusCancelled: "CANCELLED",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s < StatusAssigned || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignment status",
			fmt.Errorf("%d is not a valid assignment status", s),
		)
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status accepts no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
