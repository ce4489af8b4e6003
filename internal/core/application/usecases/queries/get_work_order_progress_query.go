package queries

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/guard"
)

var ErrGetWorkOrderProgressQueryIsNotConstructed = errors.New(
	"GetWorkOrderProgressQuery must be created via NewGetWorkOrderProgressQuery constructor",
)

// GetWorkOrderProgressQuery asks for the progress of one work order.
type GetWorkOrderProgressQuery struct {
	workOrderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetWorkOrderProgressQuery(workOrderID kernel.UUID) (GetWorkOrderProgressQuery, error) {
	if err := workOrderID.Validate(); err != nil {
		return GetWorkOrderProgressQuery{}, err
	}
	return GetWorkOrderProgressQuery{workOrderID: workOrderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWorkOrderProgressQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkOrderProgressQueryIsNotConstructed)
}

func (q GetWorkOrderProgressQuery) WorkOrderID() kernel.UUID {
	return q.workOrderID
}
