package queries

import (
	"context"

	"shopfloor/internal/core/domain/services"
)

// GetWorkOrderProgressQueryHandler projects the current progress of a work
// order. Total steps always come from the work order's own instances.
//
// Example:
//
//	handler := NewGetWorkOrderProgressQueryHandler(workOrders)
//	query, _ := NewGetWorkOrderProgressQuery(id)
//	progress, err := handler.Handle(ctx, query)
//	fmt.Printf("%s: %d%% (%s)\n", progress.WorkOrderNumber, progress.Percentage, progress.CurrentStepName)
type GetWorkOrderProgressQueryHandler struct {
	workOrders WorkOrderReader
	projector  services.ProgressProjector
}

func NewGetWorkOrderProgressQueryHandler(workOrders WorkOrderReader) GetWorkOrderProgressQueryHandler {
	return GetWorkOrderProgressQueryHandler{
		workOrders: workOrders,
		projector:  services.NewProgressProjector(),
	}
}

// Handle returns errs.ErrObjectNotFound for unknown work orders.
func (h GetWorkOrderProgressQueryHandler) Handle(ctx context.Context, query GetWorkOrderProgressQuery) (services.Progress, error) {
	if err := query.Validate(); err != nil {
		return services.Progress{}, err
	}

	wo, err := h.workOrders.Get(ctx, query.WorkOrderID())
	if err != nil {
		return services.Progress{}, err
	}
	return h.projector.Project(wo)
}
