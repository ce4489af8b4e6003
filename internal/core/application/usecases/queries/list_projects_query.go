package queries

import (
	"context"
	"errors"

	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/pkg/guard"
)

var ErrListProjectsQueryIsNotConstructed = errors.New(
	"ListProjectsQuery must be created via NewListProjectsQuery constructor",
)

// ListProjectsQuery lists all projects ordered by name.
type ListProjectsQuery struct {
	guard guard.ConstructorGuard
}

func NewListProjectsQuery() ListProjectsQuery {
	return ListProjectsQuery{guard: guard.NewConstructorGuard()}
}

func (q ListProjectsQuery) Validate() error {
	return q.guard.Validate(ErrListProjectsQueryIsNotConstructed)
}

type ListProjectsQueryHandler struct {
	projects ProjectReader
}

func NewListProjectsQueryHandler(projects ProjectReader) ListProjectsQueryHandler {
	return ListProjectsQueryHandler{projects: projects}
}

func (h ListProjectsQueryHandler) Handle(ctx context.Context, query ListProjectsQuery) ([]*project.Project, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.projects.List(ctx)
}
