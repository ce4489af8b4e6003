// Package queries contains read operations of the CQRS architecture. Query
// handlers never mutate state; they project work orders through the domain
// services.
package queries

import (
	"context"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/ports"
)

type (
	// WorkOrderReader is the read side of ports.WorkOrderRepository.
	WorkOrderReader interface {
		Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error)
		List(ctx context.Context, filter ports.WorkOrderFilter) ([]*workorder.WorkOrder, error)
	}

	// ProjectReader is the read side of ports.ProjectRepository.
	ProjectReader interface {
		Get(ctx context.Context, id kernel.UUID) (*project.Project, error)
		List(ctx context.Context) ([]*project.Project, error)
	}
)
