package queries

import (
	"context"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/services"
	"shopfloor/internal/core/ports"
)

// ListDurationsQueryHandler produces the step duration report. Records are
// derived on every call from the stored instances.
type ListDurationsQueryHandler struct {
	workOrders WorkOrderReader
	projects   ProjectReader
	reporter   services.DurationReporter
}

func NewListDurationsQueryHandler(workOrders WorkOrderReader, projects ProjectReader) ListDurationsQueryHandler {
	return ListDurationsQueryHandler{
		workOrders: workOrders,
		projects:   projects,
		reporter:   services.NewDurationReporter(),
	}
}

func (h ListDurationsQueryHandler) Handle(ctx context.Context, query ListDurationsQuery) ([]services.DurationRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	names, err := projectNames(ctx, h.projects)
	if err != nil {
		return nil, err
	}

	wos, err := h.workOrders.List(ctx, ports.WorkOrderFilter{
		ProjectID:   query.ProjectID(),
		WorkOrderID: query.WorkOrderID(),
	})
	if err != nil {
		return nil, err
	}

	return h.reporter.Records(wos, names, query.Order()), nil
}

func projectNames(ctx context.Context, projects ProjectReader) (map[kernel.UUID]string, error) {
	all, err := projects.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[kernel.UUID]string, len(all))
	for _, p := range all {
		names[p.ID()] = p.Name()
	}
	return names, nil
}
