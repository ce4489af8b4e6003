package services_test

import (
	"testing"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 6, 1, 7, 30, 0, 0, time.UTC)

func newWorkOrder(t *testing.T, number string, projectID kernel.UUID, steps ...string) *workorder.WorkOrder {
	t.Helper()
	wo, err := workorder.NewWorkOrder(kernel.NewUUID(), number, projectID, steps, t0,
		func(b scantoken.Binding) (scantoken.Token, error) { return scantoken.DefaultGenerator().Generate(b) })
	require.NoError(t, err)
	return wo
}

func scan(t *testing.T, wo *workorder.WorkOrder, step int, kind scantoken.Kind, at time.Time) {
	t.Helper()
	_, err := wo.ApplyTransition(step, kind, "op-1", at)
	require.NoError(t, err)
}

func TestProgressProjector_Project(t *testing.T) {
	projector := services.NewProgressProjector()
	wo := newWorkOrder(t, "WO-1", kernel.NewUUID(), "Prep", "Machining")

	p, err := projector.Project(wo)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Percentage)
	assert.Equal(t, 2, p.TotalSteps)
	assert.Equal(t, "Prep", p.CurrentStepName)
	assert.Equal(t, workorder.Pending, p.Status)

	scan(t, wo, 0, scantoken.Start, t0)
	p, err = projector.Project(wo)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Percentage, "started work is never reported as 0%")
	assert.Equal(t, workorder.InProgress, p.CurrentStepState)

	scan(t, wo, 0, scantoken.End, t0.Add(time.Minute))
	p, err = projector.Project(wo)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Percentage)
	assert.Equal(t, 1, p.CompletedCount)
	assert.Equal(t, "Machining", p.CurrentStepName)

	scan(t, wo, 1, scantoken.Start, t0.Add(2*time.Minute))
	scan(t, wo, 1, scantoken.End, t0.Add(3*time.Minute))
	p, err = projector.Project(wo)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Percentage)
	assert.Equal(t, workorder.Completed, p.Status)
	assert.Equal(t, "Machining", p.CurrentStepName)
	assert.Equal(t, 2, p.CompletedCount)
}

func TestProgressProjector_NeverReaches100BeforeCompletion(t *testing.T) {
	steps := make([]string, 300)
	for i := range steps {
		steps[i] = "step"
	}
	wo := newWorkOrder(t, "WO-long", kernel.NewUUID(), steps...)
	for i := 0; i < 299; i++ {
		scan(t, wo, i, scantoken.Start, t0)
		scan(t, wo, i, scantoken.End, t0)
	}

	p, err := services.NewProgressProjector().Project(wo)

	require.NoError(t, err)
	assert.Equal(t, 99, p.Percentage)
	assert.Equal(t, 300, p.TotalSteps)
}

func TestProgressProjector_BlockedWorkOrder(t *testing.T) {
	wo := newWorkOrder(t, "WO-2", kernel.NewUUID(), "A", "B", "C", "D")
	scan(t, wo, 0, scantoken.Start, t0)
	scan(t, wo, 0, scantoken.End, t0)
	require.NoError(t, wo.Block(1))

	p, err := services.NewProgressProjector().Project(wo)

	require.NoError(t, err)
	assert.Equal(t, workorder.Blocked, p.Status)
	assert.Equal(t, 25, p.Percentage)
}

func TestProgressProjector_RejectsZeroValue(t *testing.T) {
	_, err := services.NewProgressProjector().Project(&workorder.WorkOrder{})
	require.ErrorIs(t, err, workorder.ErrWorkOrderIsNotConstructed)
}
