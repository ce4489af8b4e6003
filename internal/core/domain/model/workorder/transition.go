package workorder

import (
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
)

// Transition is the outcome of an accepted scan: enough for the scanning
// device to render a confirmation and for observers to record it.
type Transition struct {
	WorkOrderID     kernel.UUID
	WorkOrderNumber string
	ProjectID       kernel.UUID

	StepIndex int
	StepName  string
	Kind      scantoken.Kind
	Status    Status

	Operator string
	At       time.Time

	WorkOrderStatus  Status
	CurrentStepIndex int
	TotalSteps       int
}
