package queries

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/guard"
)

var ErrGetWorkOrderQueryIsNotConstructed = errors.New(
	"GetWorkOrderQuery must be created via NewGetWorkOrderQuery constructor",
)

// GetWorkOrderQuery asks for a work order with all of its instances.
type GetWorkOrderQuery struct {
	workOrderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetWorkOrderQuery(workOrderID kernel.UUID) (GetWorkOrderQuery, error) {
	if err := workOrderID.Validate(); err != nil {
		return GetWorkOrderQuery{}, err
	}
	return GetWorkOrderQuery{workOrderID: workOrderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWorkOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkOrderQueryIsNotConstructed)
}

func (q GetWorkOrderQuery) WorkOrderID() kernel.UUID {
	return q.workOrderID
}
