package queries

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/guard"
)

var ErrGetScanSheetQueryIsNotConstructed = errors.New(
	"GetScanSheetQuery must be created via NewGetScanSheetQuery constructor",
)

// GetScanSheetQuery asks for the printable tokens of a work order.
type GetScanSheetQuery struct {
	workOrderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetScanSheetQuery(workOrderID kernel.UUID) (GetScanSheetQuery, error) {
	if err := workOrderID.Validate(); err != nil {
		return GetScanSheetQuery{}, err
	}
	return GetScanSheetQuery{workOrderID: workOrderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetScanSheetQuery) Validate() error {
	return q.guard.Validate(ErrGetScanSheetQueryIsNotConstructed)
}

func (q GetScanSheetQuery) WorkOrderID() kernel.UUID {
	return q.workOrderID
}
