package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Priority represents the urgency of an order. It is a value object with a total
// ordering: a higher numeric level means the order must be served sooner.
//
// Priority participates in the priority queue score formula, where its numeric
// level is the dominant term, and in assignment scoring, where urgent orders
// boost manager-tier candidates.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	// This value (0) helps catch uninitialized Priority values.
	PriorityUnknown Priority = iota

	// PriorityLow is used for orders that can wait without consequence.
	PriorityLow

	// PriorityNormal is the default priority for freshly created orders.
	PriorityNormal

	// PriorityHigh marks orders that should be served ahead of normal flow.
	PriorityHigh

	// PriorityUrgent marks orders escalated past their service threshold.
	PriorityUrgent

	// PriorityEmergency is the highest priority, reserved for manual escalation.
	PriorityEmergency
)

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityUnknown:   "UNKNOWN",
		PriorityLow:       "LOW",
		PriorityNormal:    "NORMAL",
		PriorityHigh:      "HIGH",
		PriorityUrgent:    "URGENT",
		PriorityEmergency: "EMERGENCY",
	}
}

// PriorityFromString parses a priority from its string name.
// Returns a ValueIsInvalidError for unknown names.
func PriorityFromString(s string) (Priority, error) {
	for p, str := range getPriorityStrings() {
		if str == s && p != PriorityUnknown {
			return p, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause(
		"priority",
		fmt.Errorf("%q is not a valid priority", s),
	)
}

// Validate checks if the Priority value is valid.
// PriorityUnknown (0) and out-of-range values are invalid.
func (p Priority) Validate() error {
	if p < PriorityLow || p > PriorityEmergency {
		return errs.NewValueIsInvalidErrorWithCause(
			"priority",
			fmt.Errorf("%d is not a valid priority", p),
		)
	}
	return nil
}

// Level returns the numeric urgency level (1..5) used in queue score computation.
func (p Priority) Level() int {
	return int(p)
}

// IsUrgent reports whether the priority is URGENT or EMERGENCY.
// Urgent priorities boost manager-tier candidates during assignment scoring
// and receive extra delivery retries in the notification hub.
func (p Priority) IsUrgent() bool {
	return p == PriorityUrgent || p == PriorityEmergency
}

// Escalate returns the next higher priority, capped at PriorityEmergency.
func (p Priority) Escalate() Priority {
	if p >= PriorityEmergency {
		return PriorityEmergency
	}
	return p + 1
}

// String returns the human-readable name of the priority.
// Implements the fmt.Stringer interface and is safe to call on any value.
func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}
