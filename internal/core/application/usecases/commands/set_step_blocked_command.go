package commands

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"
)

var ErrSetStepBlockedCommandIsNotConstructed = errors.New(
	"SetStepBlockedCommand must be created via NewSetStepBlockedCommand constructor",
)

// SetStepBlockedCommand is the administrative block or unblock of one step.
type SetStepBlockedCommand struct {
	workOrderID kernel.UUID
	stepIndex   int
	blocked     bool

	guard guard.ConstructorGuard
}

func NewSetStepBlockedCommand(workOrderID kernel.UUID, stepIndex int, blocked bool) (SetStepBlockedCommand, error) {
	var indexErr error
	if stepIndex < 0 {
		indexErr = errs.NewValueIsOutOfRangeError("step index", stepIndex, 0, "step count - 1")
	}
	if err := errors.Join(workOrderID.Validate(), indexErr); err != nil {
		return SetStepBlockedCommand{}, err
	}

	return SetStepBlockedCommand{
		workOrderID: workOrderID,
		stepIndex:   stepIndex,
		blocked:     blocked,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c SetStepBlockedCommand) Validate() error {
	return c.guard.Validate(ErrSetStepBlockedCommandIsNotConstructed)
}

func (c SetStepBlockedCommand) WorkOrderID() kernel.UUID {
	return c.workOrderID
}

func (c SetStepBlockedCommand) StepIndex() int {
	return c.stepIndex
}

// Blocked is true to block the step and false to release it.
func (c SetStepBlockedCommand) Blocked() bool {
	return c.blocked
}
