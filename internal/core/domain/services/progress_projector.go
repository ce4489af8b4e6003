package services

import (
	"math"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"
)

// Progress is the dashboard view of one work order.
type Progress struct {
	WorkOrderID      kernel.UUID
	WorkOrderNumber  string
	ProjectID        kernel.UUID
	Status           workorder.Status
	CurrentStepIndex int
	CurrentStepName  string
	CurrentStepState workorder.Status
	TotalSteps       int
	CompletedCount   int
	Percentage       int
}

// ProgressProjector derives work-order progress from the work order's own
// instances. The owning project's step template never enters the calculation.
//
// Percentage rules:
//   - 100 when the work order is completed
//   - 0 while no step has been started
//   - otherwise round(current/total*100), kept within 1..99
type ProgressProjector struct{}

func NewProgressProjector() ProgressProjector {
	return ProgressProjector{}
}

// Project computes the progress of wo. Nothing is cached; calling it again on
// the same state yields the same value.
func (ProgressProjector) Project(wo *workorder.WorkOrder) (Progress, error) {
	if err := wo.Validate(); err != nil {
		return Progress{}, err
	}

	instances := wo.Instances()
	current := wo.CurrentInstance()

	completed := 0
	started := false
	for _, pi := range instances {
		if pi.Status() == workorder.Completed {
			completed++
		}
		if pi.StartedAt() != nil {
			started = true
		}
	}

	return Progress{
		WorkOrderID:      wo.ID(),
		WorkOrderNumber:  wo.Number(),
		ProjectID:        wo.ProjectID(),
		Status:           wo.Status(),
		CurrentStepIndex: wo.CurrentStepIndex(),
		CurrentStepName:  current.StepName(),
		CurrentStepState: current.Status(),
		TotalSteps:       len(instances),
		CompletedCount:   completed,
		Percentage:       percentage(wo.Status(), started, wo.CurrentStepIndex(), len(instances)),
	}, nil
}

func percentage(status workorder.Status, started bool, current, total int) int {
	switch {
	case status == workorder.Completed:
		return 100
	case !started || total == 0:
		return 0
	}

	p := int(math.Round(float64(current) / float64(total) * 100))
	return min(max(p, 1), 99)
}
