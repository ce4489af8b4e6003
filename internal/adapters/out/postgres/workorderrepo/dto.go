// Package workorderrepo persists work order aggregates together with their
// process instances.
package workorderrepo

import (
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"

	"github.com/google/uuid"
)

// WorkOrderDTO is the work_orders row. Version guards concurrent scans.
type WorkOrderDTO struct {
	ID               uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Number           string               `gorm:"type:varchar(64);not null;uniqueIndex"`
	ProjectID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	CurrentStepIndex int                  `gorm:"type:int;not null"`
	Status           int                  `gorm:"type:smallint;not null;index"`
	CreatedAt        time.Time            `gorm:"not null;autoCreateTime:false"`
	Version          int64                `gorm:"not null;default:0"`
	Instances        []ProcessInstanceDTO `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE"`
}

func (WorkOrderDTO) TableName() string {
	return "work_orders"
}

// ProcessInstanceDTO is one step of a work order. (work_order_id, step_index)
// is unique.
type ProcessInstanceDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	WorkOrderID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_process_instances_step"`
	StepIndex   int        `gorm:"type:int;not null;uniqueIndex:idx_process_instances_step"`
	StepName    string     `gorm:"type:varchar(255);not null"`
	Status      int        `gorm:"type:smallint;not null"`
	StartToken  string     `gorm:"type:varchar(128);not null"`
	EndToken    string     `gorm:"type:varchar(128);not null"`
	StartedAt   *time.Time `gorm:"index"`
	EndedAt     *time.Time `gorm:"index"`
	Operator    string     `gorm:"type:varchar(255);not null;default:''"`
}

func (ProcessInstanceDTO) TableName() string {
	return "process_instances"
}

func fromDomain(wo *workorder.WorkOrder) WorkOrderDTO {
	id := wo.ID().Bytes()
	instances := make([]ProcessInstanceDTO, 0, wo.TotalSteps())
	for _, pi := range wo.Instances() {
		instances = append(instances, ProcessInstanceDTO{
			ID:          pi.ID().Bytes(),
			WorkOrderID: id,
			StepIndex:   pi.StepIndex(),
			StepName:    pi.StepName(),
			Status:      int(pi.Status()),
			StartToken:  pi.StartToken().String(),
			EndToken:    pi.EndToken().String(),
			StartedAt:   pi.StartedAt(),
			EndedAt:     pi.EndedAt(),
			Operator:    pi.Operator(),
		})
	}

	return WorkOrderDTO{
		ID:               id,
		Number:           wo.Number(),
		ProjectID:        wo.ProjectID().Bytes(),
		CurrentStepIndex: wo.CurrentStepIndex(),
		Status:           int(wo.Status()),
		CreatedAt:        wo.CreatedAt(),
		Version:          wo.Version(),
		Instances:        instances,
	}
}

// toDomain expects Instances ordered by step index.
func toDomain(dto WorkOrderDTO) (*workorder.WorkOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	projectID, err := kernel.UUIDFromBytes(dto.ProjectID[:])
	if err != nil {
		return nil, err
	}

	instances := make([]*workorder.ProcessInstance, 0, len(dto.Instances))
	for _, idto := range dto.Instances {
		pi, err := instanceToDomain(idto)
		if err != nil {
			return nil, err
		}
		instances = append(instances, pi)
	}

	return workorder.RestoreWorkOrder(
		id, dto.Number, projectID, instances,
		dto.CurrentStepIndex, workorder.Status(dto.Status), dto.CreatedAt.UTC(), dto.Version,
	)
}

func instanceToDomain(dto ProcessInstanceDTO) (*workorder.ProcessInstance, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	startToken, err := scantoken.Parse(dto.StartToken)
	if err != nil {
		return nil, err
	}
	endToken, err := scantoken.Parse(dto.EndToken)
	if err != nil {
		return nil, err
	}

	return workorder.RestoreProcessInstance(
		id, dto.StepIndex, dto.StepName, workorder.Status(dto.Status),
		startToken, endToken, utc(dto.StartedAt), utc(dto.EndedAt), dto.Operator,
	)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
