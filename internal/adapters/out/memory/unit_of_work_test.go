package memory_test

import (
	"context"
	"testing"
	"time"

	"shopfloor/internal/adapters/out/memory"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/ports"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)

func createWorkOrder(t *testing.T, ctx context.Context, factory ports.UnitOfWorkFactory, number string, steps ...string) *workorder.WorkOrder {
	t.Helper()
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	registry := uow.TokenRegistry()
	wo, err := workorder.NewWorkOrder(kernel.NewUUID(), number, kernel.NewUUID(), steps, t0,
		func(b scantoken.Binding) (scantoken.Token, error) { return registry.Register(ctx, b) })
	require.NoError(t, err)
	require.NoError(t, uow.WorkOrderRepository().Add(ctx, wo))
	require.NoError(t, uow.Commit(ctx))
	return wo
}

func TestUnitOfWork_AddAndGet(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	wo := createWorkOrder(t, ctx, factory, "WO-1", "Prep", "Machining")

	loaded, err := store.WorkOrders().Get(ctx, wo.ID())
	require.NoError(t, err)
	assert.Equal(t, wo.Number(), loaded.Number())
	assert.Equal(t, wo.TotalSteps(), loaded.TotalSteps())
	assert.Equal(t, wo.Instances()[1].StartToken(), loaded.Instances()[1].StartToken())

	binding, err := store.Tokens().Resolve(ctx, loaded.Instances()[1].EndToken())
	require.NoError(t, err)
	assert.True(t, binding.WorkOrderID().IsEqual(wo.ID()))
	assert.Equal(t, 1, binding.StepIndex())
	assert.Equal(t, scantoken.End, binding.Kind())
}

func TestUnitOfWork_StagedChangesAreIsolated(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	p, err := project.NewProject(kernel.NewUUID(), "Gearbox", "", nil, t0)
	require.NoError(t, err)
	require.NoError(t, uow.ProjectRepository().Add(ctx, p))

	_, err = uow.ProjectRepository().Get(ctx, p.ID())
	require.NoError(t, err, "own writes are visible")

	_, err = store.Projects().Get(ctx, p.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	require.NoError(t, uow.Rollback(ctx))
	_, err = store.Projects().Get(ctx, p.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestUnitOfWork_VersionConflict(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	wo := createWorkOrder(t, ctx, factory, "WO-1", "Prep")

	first := factory.Create()
	second := factory.Create()
	require.NoError(t, first.Begin(ctx))
	require.NoError(t, second.Begin(ctx))

	a, err := first.WorkOrderRepository().GetForUpdate(ctx, wo.ID())
	require.NoError(t, err)
	b, err := second.WorkOrderRepository().GetForUpdate(ctx, wo.ID())
	require.NoError(t, err)

	_, err = a.ApplyTransition(0, scantoken.Start, "alice", t0)
	require.NoError(t, err)
	_, err = b.ApplyTransition(0, scantoken.Start, "bob", t0)
	require.NoError(t, err)

	require.NoError(t, first.WorkOrderRepository().Update(ctx, a))
	require.NoError(t, second.WorkOrderRepository().Update(ctx, b))

	require.NoError(t, first.Commit(ctx))
	require.ErrorIs(t, second.Commit(ctx), errs.ErrVersionIsInvalid)

	stored, err := store.WorkOrders().Get(ctx, wo.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version())
	assert.Equal(t, "alice", stored.Instances()[0].Operator())
}

func TestUnitOfWork_UpdateWithStaleVersion(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	wo := createWorkOrder(t, ctx, factory, "WO-1", "Prep")

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	loaded, err := uow.WorkOrderRepository().GetForUpdate(ctx, wo.ID())
	require.NoError(t, err)
	require.NoError(t, uow.WorkOrderRepository().Update(ctx, loaded))

	require.ErrorIs(t, uow.WorkOrderRepository().Update(ctx, loaded), errs.ErrVersionIsInvalid)
}

func TestUnitOfWork_DuplicateNumberRejectedAtCommit(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	createWorkOrder(t, ctx, factory, "WO-1", "Prep")

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	dup, err := workorder.NewWorkOrder(kernel.NewUUID(), "WO-1", kernel.NewUUID(), []string{"A"}, t0,
		func(b scantoken.Binding) (scantoken.Token, error) { return scantoken.DefaultGenerator().Generate(b) })
	require.NoError(t, err)
	require.NoError(t, uow.WorkOrderRepository().Add(ctx, dup))

	require.ErrorIs(t, uow.Commit(ctx), workorder.ErrNumberIsTaken)
}

func TestUnitOfWork_DuplicateProjectNameRejectedAtCommit(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	first, second := factory.Create(), factory.Create()
	require.NoError(t, first.Begin(ctx))
	require.NoError(t, second.Begin(ctx))
	for _, uow := range []ports.UnitOfWork{first, second} {
		p, err := project.NewProject(kernel.NewUUID(), "Gearbox", "", nil, t0)
		require.NoError(t, err)
		require.NoError(t, uow.ProjectRepository().Add(ctx, p))
	}

	require.NoError(t, first.Commit(ctx))
	require.ErrorIs(t, second.Commit(ctx), project.ErrNameIsTaken)

	projects, err := store.Projects().List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestUnitOfWork_DeleteAndRevoke(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	wo := createWorkOrder(t, ctx, factory, "WO-1", "Prep")
	token := wo.Instances()[0].StartToken()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.TokenRegistry().Revoke(ctx, wo.ID()))
	require.NoError(t, uow.WorkOrderRepository().Delete(ctx, wo.ID()))
	require.NoError(t, uow.Commit(ctx))

	_, err := store.WorkOrders().Get(ctx, wo.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	_, err = store.Tokens().Resolve(ctx, token)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestTokenRegistry_RejectsSecondTokenForBinding(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	binding, err := scantoken.NewBinding(kernel.NewUUID(), 0, scantoken.Start)
	require.NoError(t, err)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err = uow.TokenRegistry().Register(ctx, binding)
	require.NoError(t, err)

	_, err = uow.TokenRegistry().Register(ctx, binding)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestUnitOfWork_WritesRequireBegin(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	p, err := project.NewProject(kernel.NewUUID(), "Gearbox", "", nil, t0)
	require.NoError(t, err)

	require.ErrorIs(t, store.Projects().Add(ctx, p), memory.ErrNoActiveTransaction)
	require.ErrorIs(t, memory.NewUnitOfWorkFactory(store).Create().Commit(ctx), memory.ErrNoActiveTransaction)
}

func TestWorkOrderRepository_List(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	first := createWorkOrder(t, ctx, factory, "WO-1", "A")
	createWorkOrder(t, ctx, factory, "WO-2", "A")

	all, err := store.WorkOrders().List(ctx, ports.WorkOrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	projectID := first.ProjectID()
	own, err := store.WorkOrders().List(ctx, ports.WorkOrderFilter{ProjectID: &projectID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "WO-1", own[0].Number())

	done, err := store.WorkOrders().List(ctx, ports.WorkOrderFilter{Status: workorder.Completed})
	require.NoError(t, err)
	assert.Empty(t, done)

	taken, err := store.WorkOrders().ExistsNumber(ctx, "WO-2")
	require.NoError(t, err)
	assert.True(t, taken)
}
