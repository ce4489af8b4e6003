package queries

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/pkg/guard"
)

var ErrGetDashboardOverviewQueryIsNotConstructed = errors.New(
	"GetDashboardOverviewQuery must be created via NewGetDashboardOverviewQuery constructor",
)

// GetDashboardOverviewQuery lists the progress of many work orders. A nil
// project and an Unknown status match everything.
type GetDashboardOverviewQuery struct {
	projectID *kernel.UUID
	status    workorder.Status

	guard guard.ConstructorGuard
}

func NewGetDashboardOverviewQuery(projectID *kernel.UUID, status workorder.Status) (GetDashboardOverviewQuery, error) {
	if projectID != nil {
		if err := projectID.Validate(); err != nil {
			return GetDashboardOverviewQuery{}, err
		}
	}
	if status != workorder.Unknown {
		if err := status.Validate(); err != nil {
			return GetDashboardOverviewQuery{}, err
		}
	}
	return GetDashboardOverviewQuery{
		projectID: projectID,
		status:    status,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetDashboardOverviewQuery) Validate() error {
	return q.guard.Validate(ErrGetDashboardOverviewQueryIsNotConstructed)
}

func (q GetDashboardOverviewQuery) ProjectID() *kernel.UUID {
	return q.projectID
}

func (q GetDashboardOverviewQuery) Status() workorder.Status {
	return q.status
}
