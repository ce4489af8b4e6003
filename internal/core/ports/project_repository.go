package ports

import (
	"context"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
)

// ProjectRepository persists projects.
type ProjectRepository interface {
	Add(ctx context.Context, p *project.Project) error

	// Get returns errs.ErrObjectNotFound for unknown projects.
	Get(ctx context.Context, id kernel.UUID) (*project.Project, error)

	// List returns all projects ordered by name.
	List(ctx context.Context) ([]*project.Project, error)

	Delete(ctx context.Context, id kernel.UUID) error

	// ExistsName reports whether a project name is already taken.
	ExistsName(ctx context.Context, name string) (bool, error)
}
