package commands

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/guard"
)

var ErrDeleteWorkOrderCommandIsNotConstructed = errors.New(
	"DeleteWorkOrderCommand must be created via NewDeleteWorkOrderCommand constructor",
)

// DeleteWorkOrderCommand removes a work order with its instances and tokens.
type DeleteWorkOrderCommand struct {
	workOrderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteWorkOrderCommand(workOrderID kernel.UUID) (DeleteWorkOrderCommand, error) {
	if err := workOrderID.Validate(); err != nil {
		return DeleteWorkOrderCommand{}, err
	}
	return DeleteWorkOrderCommand{
		workOrderID: workOrderID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteWorkOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteWorkOrderCommandIsNotConstructed)
}

func (c DeleteWorkOrderCommand) WorkOrderID() kernel.UUID {
	return c.workOrderID
}
