package queries

import (
	"context"

	"shopfloor/internal/core/domain/services"
	"shopfloor/internal/core/ports"
)

// DashboardRow is one line of the production dashboard.
type DashboardRow struct {
	services.Progress
	ProjectName string
}

// GetDashboardOverviewQueryHandler builds the dashboard: every matching work
// order with its progress, oldest first.
type GetDashboardOverviewQueryHandler struct {
	workOrders WorkOrderReader
	projects   ProjectReader
	projector  services.ProgressProjector
}

func NewGetDashboardOverviewQueryHandler(workOrders WorkOrderReader, projects ProjectReader) GetDashboardOverviewQueryHandler {
	return GetDashboardOverviewQueryHandler{
		workOrders: workOrders,
		projects:   projects,
		projector:  services.NewProgressProjector(),
	}
}

func (h GetDashboardOverviewQueryHandler) Handle(ctx context.Context, query GetDashboardOverviewQuery) ([]DashboardRow, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	names, err := projectNames(ctx, h.projects)
	if err != nil {
		return nil, err
	}

	wos, err := h.workOrders.List(ctx, ports.WorkOrderFilter{
		ProjectID: query.ProjectID(),
		Status:    query.Status(),
	})
	if err != nil {
		return nil, err
	}

	rows := make([]DashboardRow, 0, len(wos))
	for _, wo := range wos {
		p, err := h.projector.Project(wo)
		if err != nil {
			return nil, err
		}
		rows = append(rows, DashboardRow{Progress: p, ProjectName: names[wo.ProjectID()]})
	}
	return rows, nil
}
