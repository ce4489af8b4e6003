package memory

import (
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
)

// Records are value snapshots of aggregates. The store never keeps pointers
// handed out to callers.

type instanceRecord struct {
	id         kernel.UUID
	stepIndex  int
	stepName   string
	status     workorder.Status
	startToken scantoken.Token
	endToken   scantoken.Token
	startedAt  *time.Time
	endedAt    *time.Time
	operator   string
}

type workOrderRecord struct {
	id               kernel.UUID
	number           string
	projectID        kernel.UUID
	currentStepIndex int
	status           workorder.Status
	createdAt        time.Time
	version          int64
	instances        []instanceRecord
}

type projectRecord struct {
	id           kernel.UUID
	name         string
	description  string
	defaultSteps []string
	createdAt    time.Time
}

type tokenRecord struct {
	workOrderID kernel.UUID
	stepIndex   int
	kind        scantoken.Kind
}

func workOrderToRecord(wo *workorder.WorkOrder, version int64) workOrderRecord {
	rec := workOrderRecord{
		id:               wo.ID(),
		number:           wo.Number(),
		projectID:        wo.ProjectID(),
		currentStepIndex: wo.CurrentStepIndex(),
		status:           wo.Status(),
		createdAt:        wo.CreatedAt(),
		version:          version,
	}
	for _, pi := range wo.Instances() {
		rec.instances = append(rec.instances, instanceRecord{
			id:         pi.ID(),
			stepIndex:  pi.StepIndex(),
			stepName:   pi.StepName(),
			status:     pi.Status(),
			startToken: pi.StartToken(),
			endToken:   pi.EndToken(),
			startedAt:  pi.StartedAt(),
			endedAt:    pi.EndedAt(),
			operator:   pi.Operator(),
		})
	}
	return rec
}

func (r workOrderRecord) toDomain() (*workorder.WorkOrder, error) {
	instances := make([]*workorder.ProcessInstance, 0, len(r.instances))
	for _, ir := range r.instances {
		pi, err := workorder.RestoreProcessInstance(
			ir.id, ir.stepIndex, ir.stepName, ir.status,
			ir.startToken, ir.endToken, ir.startedAt, ir.endedAt, ir.operator,
		)
		if err != nil {
			return nil, err
		}
		instances = append(instances, pi)
	}
	return workorder.RestoreWorkOrder(
		r.id, r.number, r.projectID, instances,
		r.currentStepIndex, r.status, r.createdAt, r.version,
	)
}

func projectToRecord(p *project.Project) projectRecord {
	return projectRecord{
		id:           p.ID(),
		name:         p.Name(),
		description:  p.Description(),
		defaultSteps: p.DefaultSteps(),
		createdAt:    p.CreatedAt(),
	}
}

func (r projectRecord) toDomain() (*project.Project, error) {
	return project.RestoreProject(r.id, r.name, r.description, r.defaultSteps, r.createdAt)
}

func (r tokenRecord) toDomain() (scantoken.Binding, error) {
	return scantoken.NewBinding(r.workOrderID, r.stepIndex, r.kind)
}
