package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrEscalateOverdueOrdersCommandIsNotConstructed = errors.New(
	"EscalateOverdueOrdersCommand must be created via NewEscalateOverdueOrdersCommand constructor",
)

// DefaultOverdueThreshold is how long an active order may wait before the
// escalation sweep raises its priority.
const DefaultOverdueThreshold = 30 * time.Minute

// EscalateOverdueOrdersCommand triggers one escalation sweep: every active
// order older than the threshold gets its priority raised one step.
type EscalateOverdueOrdersCommand struct {
	threshold time.Duration

	guard guard.ConstructorGuard
}

// NewEscalateOverdueOrdersCommand creates a sweep command. A non-positive
// threshold is rejected; use DefaultOverdueThreshold for the standard window.
func NewEscalateOverdueOrdersCommand(threshold time.Duration) (EscalateOverdueOrdersCommand, error) {
	if threshold <= 0 {
		return EscalateOverdueOrdersCommand{}, errs.NewValueIsInvalidError("threshold")
	}

	return EscalateOverdueOrdersCommand{
		threshold: threshold,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Threshold returns the age past which an active order is overdue.
func (c *EscalateOverdueOrdersCommand) Threshold() time.Duration {
	return c.threshold
}

// Validate ensures the command was created through the constructor.
func (c *EscalateOverdueOrdersCommand) Validate() error {
	return c.guard.Validate(ErrEscalateOverdueOrdersCommandIsNotConstructed)
}
