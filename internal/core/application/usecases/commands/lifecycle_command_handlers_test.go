package commands_test

import (
	"testing"

	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/ports"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteWorkOrderCommandHandler_Handle(t *testing.T) {
	f := newEngineFixture()
	wo := f.createWorkOrder(t, "WO-1", "Prep", "Machining")
	h := commands.NewDeleteWorkOrderCommandHandler(
		scanUoWFactoryFunc(func() commands.ScanUoW { return f.factory.Create() }))

	cmd, err := commands.NewDeleteWorkOrderCommand(wo.ID())
	require.NoError(t, err)
	require.NoError(t, h.Handle(t.Context(), cmd))

	_, err = f.store.WorkOrders().Get(t.Context(), wo.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	for _, pi := range wo.Instances() {
		_, err = f.store.Tokens().Resolve(t.Context(), pi.StartToken())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	}

	require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrObjectNotFound)
}

func TestDeleteProjectCommandHandler_Handle(t *testing.T) {
	f := newEngineFixture()
	first := f.createWorkOrder(t, "WO-1", "Prep")
	other := f.createWorkOrder(t, "WO-2", "Prep")

	cmd, err := commands.NewDeleteProjectCommand(first.ProjectID())
	require.NoError(t, err)

	removed, err := commands.NewDeleteProjectCommandHandler(f.uowFactory()).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = f.store.Projects().Get(t.Context(), first.ProjectID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	remaining, err := f.store.WorkOrders().List(t.Context(), ports.WorkOrderFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.True(t, remaining[0].ID().IsEqual(other.ID()))
}

func TestCreateProjectCommandHandler_DuplicateName(t *testing.T) {
	f := newEngineFixture()
	h := commands.NewCreateProjectCommandHandler(
		projectUoWFactoryFunc(func() commands.ProjectUoW { return f.factory.Create() }), f.clock)

	cmd, err := commands.NewCreateProjectCommand(kernel.NewUUID(), "Gearbox", "housings", []string{"Cut", "Weld"})
	require.NoError(t, err)
	p, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cut", "Weld"}, p.DefaultSteps())

	again, err := commands.NewCreateProjectCommand(kernel.NewUUID(), "Gearbox", "", nil)
	require.NoError(t, err)
	_, err = h.Handle(t.Context(), again)
	require.ErrorIs(t, err, commands.ErrProjectNameIsTaken)
}

func TestNewSetStepBlockedCommand(t *testing.T) {
	_, err := commands.NewSetStepBlockedCommand(kernel.NewUUID(), -1, true)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	cmd, err := commands.NewSetStepBlockedCommand(kernel.NewUUID(), 2, false)
	require.NoError(t, err)
	assert.Equal(t, 2, cmd.StepIndex())
	assert.False(t, cmd.Blocked())
}
