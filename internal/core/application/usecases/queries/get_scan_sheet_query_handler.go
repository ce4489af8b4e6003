package queries

import (
	"context"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"
)

// ScanSheet lists the start and end token of every step, in step order. It is
// what gets rendered as QR codes and attached to the physical work order.
type ScanSheet struct {
	WorkOrderID     kernel.UUID
	WorkOrderNumber string
	ProjectName     string
	Steps           []ScanSheetStep
}

type ScanSheetStep struct {
	StepIndex  int
	StepName   string
	Status     workorder.Status
	StartToken string
	EndToken   string
}

type GetScanSheetQueryHandler struct {
	workOrders WorkOrderReader
	projects   ProjectReader
}

func NewGetScanSheetQueryHandler(workOrders WorkOrderReader, projects ProjectReader) GetScanSheetQueryHandler {
	return GetScanSheetQueryHandler{workOrders: workOrders, projects: projects}
}

func (h GetScanSheetQueryHandler) Handle(ctx context.Context, query GetScanSheetQuery) (ScanSheet, error) {
	if err := query.Validate(); err != nil {
		return ScanSheet{}, err
	}

	wo, err := h.workOrders.Get(ctx, query.WorkOrderID())
	if err != nil {
		return ScanSheet{}, err
	}

	sheet := ScanSheet{
		WorkOrderID:     wo.ID(),
		WorkOrderNumber: wo.Number(),
	}
	if p, err := h.projects.Get(ctx, wo.ProjectID()); err == nil {
		sheet.ProjectName = p.Name()
	}
	for _, pi := range wo.Instances() {
		sheet.Steps = append(sheet.Steps, ScanSheetStep{
			StepIndex:  pi.StepIndex(),
			StepName:   pi.StepName(),
			Status:     pi.Status(),
			StartToken: pi.StartToken().String(),
			EndToken:   pi.EndToken().String(),
		})
	}
	return sheet, nil
}
