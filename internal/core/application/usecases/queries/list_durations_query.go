package queries

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/services"
	"shopfloor/internal/pkg/guard"
)

var ErrListDurationsQueryIsNotConstructed = errors.New(
	"ListDurationsQuery must be created via NewListDurationsQuery constructor",
)

// ListDurationsQuery filters duration records by project and work order
// equality. Nil filters match everything.
type ListDurationsQuery struct {
	projectID   *kernel.UUID
	workOrderID *kernel.UUID
	order       services.DurationOrder

	guard guard.ConstructorGuard
}

// NewListDurationsQuery accepts the order in its wire form ("", "start_asc"
// or "end_desc").
func NewListDurationsQuery(projectID, workOrderID *kernel.UUID, order string) (ListDurationsQuery, error) {
	var errProject, errWorkOrder error
	if projectID != nil {
		errProject = projectID.Validate()
	}
	if workOrderID != nil {
		errWorkOrder = workOrderID.Validate()
	}
	o, errOrder := services.ParseDurationOrder(order)
	if err := errors.Join(errProject, errWorkOrder, errOrder); err != nil {
		return ListDurationsQuery{}, err
	}

	return ListDurationsQuery{
		projectID:   projectID,
		workOrderID: workOrderID,
		order:       o,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q ListDurationsQuery) Validate() error {
	return q.guard.Validate(ErrListDurationsQueryIsNotConstructed)
}

func (q ListDurationsQuery) ProjectID() *kernel.UUID {
	return q.projectID
}

func (q ListDurationsQuery) WorkOrderID() *kernel.UUID {
	return q.workOrderID
}

func (q ListDurationsQuery) Order() services.DurationOrder {
	return q.order
}
