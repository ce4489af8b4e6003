package queries

import (
	"context"
	"errors"
	"sort"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/ports"
	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"
)

var ErrListStalledStepsQueryIsNotConstructed = errors.New(
	"ListStalledStepsQuery must be created via NewListStalledStepsQuery constructor",
)

// ListStalledStepsQuery finds steps that have been in progress for at least
// threshold at the given instant.
type ListStalledStepsQuery struct {
	threshold time.Duration
	now       time.Time

	guard guard.ConstructorGuard
}

func NewListStalledStepsQuery(threshold time.Duration, now time.Time) (ListStalledStepsQuery, error) {
	if threshold <= 0 {
		return ListStalledStepsQuery{}, errs.NewValueIsOutOfRangeError("threshold", threshold, time.Nanosecond, "unbounded")
	}
	if now.IsZero() {
		return ListStalledStepsQuery{}, errs.NewValueIsRequiredError("now")
	}
	return ListStalledStepsQuery{threshold: threshold, now: now, guard: guard.NewConstructorGuard()}, nil
}

func (q ListStalledStepsQuery) Validate() error {
	return q.guard.Validate(ErrListStalledStepsQueryIsNotConstructed)
}

// StalledStep is an in-progress step older than the threshold.
type StalledStep struct {
	WorkOrderID     kernel.UUID
	WorkOrderNumber string
	StepIndex       int
	StepName        string
	Operator        string
	StartedAt       time.Time
	Elapsed         time.Duration
}

type ListStalledStepsQueryHandler struct {
	workOrders WorkOrderReader
}

func NewListStalledStepsQueryHandler(workOrders WorkOrderReader) ListStalledStepsQueryHandler {
	return ListStalledStepsQueryHandler{workOrders: workOrders}
}

// Handle returns stalled steps, longest running first.
func (h ListStalledStepsQueryHandler) Handle(ctx context.Context, query ListStalledStepsQuery) ([]StalledStep, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	wos, err := h.workOrders.List(ctx, ports.WorkOrderFilter{Status: workorder.InProgress})
	if err != nil {
		return nil, err
	}

	stalled := make([]StalledStep, 0)
	for _, wo := range wos {
		pi := wo.CurrentInstance()
		if pi == nil || pi.Status() != workorder.InProgress || pi.StartedAt() == nil {
			continue
		}
		elapsed := query.now.Sub(*pi.StartedAt())
		if elapsed < query.threshold {
			continue
		}
		stalled = append(stalled, StalledStep{
			WorkOrderID:     wo.ID(),
			WorkOrderNumber: wo.Number(),
			StepIndex:       pi.StepIndex(),
			StepName:        pi.StepName(),
			Operator:        pi.Operator(),
			StartedAt:       *pi.StartedAt(),
			Elapsed:         elapsed,
		})
	}

	sort.SliceStable(stalled, func(i, j int) bool {
		return stalled[i].Elapsed > stalled[j].Elapsed
	})
	return stalled, nil
}
