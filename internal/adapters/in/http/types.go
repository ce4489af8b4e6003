package http

import (
	"math"
	"time"

	"shopfloor/internal/core/application/usecases/queries"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/domain/services"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Request and response bodies of the /api/v1 routes, mirroring the
// components of openapi.yaml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ScanRequest struct {
	Token          string `json:"token"`
	TransitionKind string `json:"transitionKind,omitempty"`
	Operator       string `json:"operator,omitempty"`
}

type Transition struct {
	WorkOrderID      openapi_types.UUID `json:"workOrderId"`
	WorkOrderNumber  string             `json:"workOrderNumber"`
	ProjectID        openapi_types.UUID `json:"projectId"`
	StepIndex        int                `json:"stepIndex"`
	StepName         string             `json:"stepName"`
	TransitionKind   string             `json:"transitionKind"`
	Status           string             `json:"status"`
	Operator         string             `json:"operator"`
	At               time.Time          `json:"at"`
	WorkOrderStatus  string             `json:"workOrderStatus"`
	CurrentStepIndex int                `json:"currentStepIndex"`
	TotalSteps       int                `json:"totalSteps"`
}

type NewProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	DefaultSteps []string `json:"defaultSteps,omitempty"`
}

type Project struct {
	ID           openapi_types.UUID `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	DefaultSteps []string           `json:"defaultSteps"`
	CreatedAt    time.Time          `json:"createdAt"`
}

type NewWorkOrder struct {
	Number          string             `json:"number"`
	ProjectID       openapi_types.UUID `json:"projectId"`
	Steps           []string           `json:"steps,omitempty"`
	UseProjectSteps bool               `json:"useProjectSteps,omitempty"`
}

type Progress struct {
	WorkOrderID       openapi_types.UUID `json:"workOrderId"`
	WorkOrderNumber   string             `json:"workOrderNumber"`
	ProjectID         openapi_types.UUID `json:"projectId"`
	ProjectName       string             `json:"projectName,omitempty"`
	Status            string             `json:"status"`
	CurrentStepIndex  int                `json:"currentStepIndex"`
	CurrentStepName   string             `json:"currentStepName,omitempty"`
	CurrentStepStatus string             `json:"currentStepStatus,omitempty"`
	TotalSteps        int                `json:"totalSteps"`
	CompletedCount    int                `json:"completedCount"`
	Percentage        int                `json:"percentage"`
}

type ProcessInstance struct {
	ID              openapi_types.UUID `json:"id"`
	StepIndex       int                `json:"stepIndex"`
	StepName        string             `json:"stepName"`
	Status          string             `json:"status"`
	Operator        string             `json:"operator,omitempty"`
	StartedAt       *time.Time         `json:"startedAt,omitempty"`
	EndedAt         *time.Time         `json:"endedAt,omitempty"`
	DurationMinutes *float64           `json:"durationMinutes,omitempty"`
}

type WorkOrder struct {
	ID               openapi_types.UUID `json:"id"`
	Number           string             `json:"number"`
	ProjectID        openapi_types.UUID `json:"projectId"`
	ProjectName      string             `json:"projectName,omitempty"`
	Status           string             `json:"status"`
	CurrentStepIndex int                `json:"currentStepIndex"`
	CreatedAt        time.Time          `json:"createdAt"`
	Version          int64              `json:"version"`
	Progress         Progress           `json:"progress"`
	Instances        []ProcessInstance  `json:"instances"`
}

type ScanSheetStep struct {
	StepIndex  int    `json:"stepIndex"`
	StepName   string `json:"stepName"`
	Status     string `json:"status"`
	StartToken string `json:"startToken"`
	EndToken   string `json:"endToken"`
}

type ScanSheet struct {
	WorkOrderID     openapi_types.UUID `json:"workOrderId"`
	WorkOrderNumber string             `json:"workOrderNumber"`
	ProjectName     string             `json:"projectName,omitempty"`
	Steps           []ScanSheetStep    `json:"steps"`
}

type DurationRecord struct {
	ProjectID       openapi_types.UUID `json:"projectId"`
	ProjectName     string             `json:"projectName,omitempty"`
	WorkOrderID     openapi_types.UUID `json:"workOrderId"`
	WorkOrderNumber string             `json:"workOrderNumber"`
	StepIndex       int                `json:"stepIndex"`
	StepName        string             `json:"stepName"`
	Operator        string             `json:"operator,omitempty"`
	StartedAt       time.Time          `json:"startedAt"`
	EndedAt         time.Time          `json:"endedAt"`
	DurationMinutes float64            `json:"durationMinutes"`
}

// roundMinutes keeps two decimals, as the printed duration report does.
func roundMinutes(minutes float64) float64 {
	return math.Round(minutes*100) / 100
}

func toTransition(tr workorder.Transition) Transition {
	return Transition{
		WorkOrderID:      tr.WorkOrderID.Bytes(),
		WorkOrderNumber:  tr.WorkOrderNumber,
		ProjectID:        tr.ProjectID.Bytes(),
		StepIndex:        tr.StepIndex,
		StepName:         tr.StepName,
		TransitionKind:   tr.Kind.String(),
		Status:           tr.Status.String(),
		Operator:         tr.Operator,
		At:               tr.At,
		WorkOrderStatus:  tr.WorkOrderStatus.String(),
		CurrentStepIndex: tr.CurrentStepIndex,
		TotalSteps:       tr.TotalSteps,
	}
}

func toProject(p *project.Project) Project {
	steps := p.DefaultSteps()
	if steps == nil {
		steps = []string{}
	}
	return Project{
		ID:           p.ID().Bytes(),
		Name:         p.Name(),
		Description:  p.Description(),
		DefaultSteps: steps,
		CreatedAt:    p.CreatedAt(),
	}
}

func toProgress(p services.Progress, projectName string) Progress {
	out := Progress{
		WorkOrderID:      p.WorkOrderID.Bytes(),
		WorkOrderNumber:  p.WorkOrderNumber,
		ProjectID:        p.ProjectID.Bytes(),
		ProjectName:      projectName,
		Status:           p.Status.String(),
		CurrentStepIndex: p.CurrentStepIndex,
		CurrentStepName:  p.CurrentStepName,
		TotalSteps:       p.TotalSteps,
		CompletedCount:   p.CompletedCount,
		Percentage:       p.Percentage,
	}
	if p.CurrentStepState != workorder.Unknown {
		out.CurrentStepStatus = p.CurrentStepState.String()
	}
	return out
}

func toWorkOrder(d queries.WorkOrderDetail) WorkOrder {
	wo := d.WorkOrder
	instances := make([]ProcessInstance, 0, wo.TotalSteps())
	for _, pi := range wo.Instances() {
		item := ProcessInstance{
			ID:        pi.ID().Bytes(),
			StepIndex: pi.StepIndex(),
			StepName:  pi.StepName(),
			Status:    pi.Status().String(),
			Operator:  pi.Operator(),
			StartedAt: pi.StartedAt(),
			EndedAt:   pi.EndedAt(),
		}
		if elapsed, ok := pi.Duration(); ok {
			minutes := roundMinutes(elapsed.Minutes())
			item.DurationMinutes = &minutes
		}
		instances = append(instances, item)
	}

	return WorkOrder{
		ID:               wo.ID().Bytes(),
		Number:           wo.Number(),
		ProjectID:        wo.ProjectID().Bytes(),
		ProjectName:      d.ProjectName,
		Status:           wo.Status().String(),
		CurrentStepIndex: wo.CurrentStepIndex(),
		CreatedAt:        wo.CreatedAt(),
		Version:          wo.Version(),
		Progress:         toProgress(d.Progress, d.ProjectName),
		Instances:        instances,
	}
}

func toScanSheet(s queries.ScanSheet) ScanSheet {
	steps := make([]ScanSheetStep, 0, len(s.Steps))
	for _, step := range s.Steps {
		steps = append(steps, ScanSheetStep{
			StepIndex:  step.StepIndex,
			StepName:   step.StepName,
			Status:     step.Status.String(),
			StartToken: step.StartToken,
			EndToken:   step.EndToken,
		})
	}
	return ScanSheet{
		WorkOrderID:     s.WorkOrderID.Bytes(),
		WorkOrderNumber: s.WorkOrderNumber,
		ProjectName:     s.ProjectName,
		Steps:           steps,
	}
}

func toDurationRecord(r services.DurationRecord) DurationRecord {
	return DurationRecord{
		ProjectID:       r.ProjectID.Bytes(),
		ProjectName:     r.ProjectName,
		WorkOrderID:     r.WorkOrderID.Bytes(),
		WorkOrderNumber: r.WorkOrderNumber,
		StepIndex:       r.StepIndex,
		StepName:        r.StepName,
		Operator:        r.Operator,
		StartedAt:       r.StartedAt,
		EndedAt:         r.EndedAt,
		DurationMinutes: roundMinutes(r.Minutes),
	}
}
