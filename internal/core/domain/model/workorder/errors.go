package workorder

import (
	"errors"
	"fmt"

	"shopfloor/internal/core/domain/model/kernel"
)

var (
	// ErrWorkOrderIsNotConstructed is returned for work orders not built by
	// NewWorkOrder or RestoreWorkOrder.
	ErrWorkOrderIsNotConstructed = errors.New("WorkOrder must be created via NewWorkOrder constructor")

	ErrInstanceNotFound = errors.New("process instance not found")
	ErrOutOfSequence    = errors.New("step is out of sequence")
	ErrAlreadyStarted   = errors.New("step is already started")
	ErrAlreadyCompleted = errors.New("step is already completed")
	ErrNotStarted       = errors.New("step is not started")
	ErrAlreadyBlocked   = errors.New("step is already blocked")
	ErrNotBlocked       = errors.New("step is not blocked")

	ErrStepsAreRequired = errors.New("at least one step is required")

	// ErrNumberIsTaken is returned by repositories when another work order
	// already uses the number.
	ErrNumberIsTaken = errors.New("work order number is already taken")
)

// TransitionError is a rejected scan. Reason is one of the sentinels above so
// callers can match it with errors.Is; the remaining fields describe the state
// that caused the rejection.
type TransitionError struct {
	Reason           error
	WorkOrderID      kernel.UUID
	StepIndex        int
	CurrentStepIndex int
	Status           Status
}

func newTransitionError(reason error, wo *WorkOrder, stepIndex int, status Status) *TransitionError {
	return &TransitionError{
		Reason:           reason,
		WorkOrderID:      wo.id,
		StepIndex:        stepIndex,
		CurrentStepIndex: wo.currentStepIndex,
		Status:           status,
	}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: work order %s, step %d (current step %d, status %s)",
		e.Reason, e.WorkOrderID, e.StepIndex, e.CurrentStepIndex, e.Status)
}

func (e *TransitionError) Unwrap() error {
	return e.Reason
}
