package queries

import (
	"context"

	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/domain/services"
)

// WorkOrderDetail is a work order with its instances and progress.
type WorkOrderDetail struct {
	WorkOrder   *workorder.WorkOrder
	ProjectName string
	Progress    services.Progress
}

// GetWorkOrderQueryHandler loads one work order for display.
type GetWorkOrderQueryHandler struct {
	workOrders WorkOrderReader
	projects   ProjectReader
	projector  services.ProgressProjector
}

func NewGetWorkOrderQueryHandler(workOrders WorkOrderReader, projects ProjectReader) GetWorkOrderQueryHandler {
	return GetWorkOrderQueryHandler{
		workOrders: workOrders,
		projects:   projects,
		projector:  services.NewProgressProjector(),
	}
}

func (h GetWorkOrderQueryHandler) Handle(ctx context.Context, query GetWorkOrderQuery) (WorkOrderDetail, error) {
	if err := query.Validate(); err != nil {
		return WorkOrderDetail{}, err
	}

	wo, err := h.workOrders.Get(ctx, query.WorkOrderID())
	if err != nil {
		return WorkOrderDetail{}, err
	}
	return detailOf(ctx, wo, h.projects, h.projector)
}

// DetailOf builds the detail view of an already loaded work order, e.g. the
// one returned by a create or block command.
func (h GetWorkOrderQueryHandler) DetailOf(ctx context.Context, wo *workorder.WorkOrder) (WorkOrderDetail, error) {
	return detailOf(ctx, wo, h.projects, h.projector)
}

func detailOf(
	ctx context.Context,
	wo *workorder.WorkOrder,
	projects ProjectReader,
	projector services.ProgressProjector,
) (WorkOrderDetail, error) {
	progress, err := projector.Project(wo)
	if err != nil {
		return WorkOrderDetail{}, err
	}

	detail := WorkOrderDetail{WorkOrder: wo, Progress: progress}
	if p, err := projects.Get(ctx, wo.ProjectID()); err == nil {
		detail.ProjectName = p.Name()
	}
	return detail, nil
}
