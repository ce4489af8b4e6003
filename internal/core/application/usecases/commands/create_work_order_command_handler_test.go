package commands_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newProject(t *testing.T, steps ...string) *project.Project {
	t.Helper()
	p, err := project.NewProject(kernel.NewUUID(), "Gearbox", "", steps, createdAt)
	require.NoError(t, err)
	return p
}

func someToken(t *testing.T) scantoken.Token {
	t.Helper()
	tok, err := scantoken.Parse("S.0.0.0")
	require.NoError(t, err)
	return tok
}

func TestCreateWorkOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	p := newProject(t, "Cut", "Weld", "Paint")
	cmd, err := commands.NewCreateWorkOrderCommand(kernel.NewUUID(), "WO-1", p.ID(), []string{"Prep", "Machining"}, false)
	require.NoError(t, err)

	projects := new(MockProjectRepository)
	workOrders := new(MockWorkOrderRepository)
	registry := new(MockTokenRegistry)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ProjectRepository").Return(projects).Once()
	projects.On("Get", ctx, p.ID()).Return(p, nil).Once()
	uow.On("WorkOrderRepository").Return(workOrders).Once()
	workOrders.On("ExistsNumber", ctx, "WO-1").Return(false, nil).Once()
	uow.On("TokenRegistry").Return(registry).Once()
	registry.On("Register", ctx, mock.AnythingOfType("scantoken.Binding")).Return(someToken(t), nil).Times(4)
	workOrders.On("Add", ctx, mock.AnythingOfType("*workorder.WorkOrder")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateWorkOrderCommandHandler(factory, fixedClock{now: createdAt})
	wo, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, wo.TotalSteps(), "project template must not replace explicit steps")
	assert.Equal(t, "Machining", wo.Instances()[1].StepName())
	assert.Equal(t, createdAt, wo.CreatedAt())
	projects.AssertExpectations(t)
	workOrders.AssertExpectations(t)
	registry.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateWorkOrderCommandHandler_Handle_UsesProjectStepsOnRequest(t *testing.T) {
	ctx := t.Context()
	p := newProject(t, "Cut", "Weld", "Paint")
	cmd, err := commands.NewCreateWorkOrderCommand(kernel.NewUUID(), "WO-2", p.ID(), nil, true)
	require.NoError(t, err)

	projects := new(MockProjectRepository)
	workOrders := new(MockWorkOrderRepository)
	registry := new(MockTokenRegistry)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("ProjectRepository").Return(projects)
	projects.On("Get", ctx, p.ID()).Return(p, nil)
	uow.On("WorkOrderRepository").Return(workOrders)
	workOrders.On("ExistsNumber", ctx, "WO-2").Return(false, nil)
	uow.On("TokenRegistry").Return(registry)
	registry.On("Register", ctx, mock.Anything).Return(someToken(t), nil)
	workOrders.On("Add", ctx, mock.Anything).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	wo, err := commands.NewCreateWorkOrderCommandHandler(factory, fixedClock{now: createdAt}).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, wo.TotalSteps())
	registry.AssertNumberOfCalls(t, "Register", 6)
}

func TestCreateWorkOrderCommandHandler_Handle_ProjectNotFound(t *testing.T) {
	ctx := t.Context()
	projectID := kernel.NewUUID()
	cmd, err := commands.NewCreateWorkOrderCommand(kernel.NewUUID(), "WO-1", projectID, []string{"A"}, false)
	require.NoError(t, err)

	projects := new(MockProjectRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ProjectRepository").Return(projects).Once(),
		projects.On("Get", ctx, projectID).Return(nil, errs.NewObjectNotFoundError("project", projectID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err = commands.NewCreateWorkOrderCommandHandler(factory, fixedClock{now: createdAt}).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateWorkOrderCommandHandler_Handle_NumberTaken(t *testing.T) {
	ctx := t.Context()
	p := newProject(t)
	cmd, err := commands.NewCreateWorkOrderCommand(kernel.NewUUID(), "WO-1", p.ID(), []string{"A"}, false)
	require.NoError(t, err)

	projects := new(MockProjectRepository)
	workOrders := new(MockWorkOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("ProjectRepository").Return(projects)
	projects.On("Get", ctx, p.ID()).Return(p, nil)
	uow.On("WorkOrderRepository").Return(workOrders)
	workOrders.On("ExistsNumber", ctx, "WO-1").Return(true, nil)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	_, err = commands.NewCreateWorkOrderCommandHandler(factory, fixedClock{now: createdAt}).Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrWorkOrderNumberIsTaken)
	workOrders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCreateWorkOrderCommandHandler_Handle_NumberTakenOnInsert(t *testing.T) {
	ctx := t.Context()
	p := newProject(t)
	cmd, err := commands.NewCreateWorkOrderCommand(kernel.NewUUID(), "WO-1", p.ID(), []string{"A"}, false)
	require.NoError(t, err)

	projects := new(MockProjectRepository)
	workOrders := new(MockWorkOrderRepository)
	registry := new(MockTokenRegistry)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("ProjectRepository").Return(projects)
	projects.On("Get", ctx, p.ID()).Return(p, nil)
	uow.On("WorkOrderRepository").Return(workOrders)
	workOrders.On("ExistsNumber", ctx, "WO-1").Return(false, nil)
	uow.On("TokenRegistry").Return(registry)
	registry.On("Register", ctx, mock.Anything).Return(someToken(t), nil)
	workOrders.On("Add", ctx, mock.Anything).Return(fmt.Errorf("%w: WO-1", workorder.ErrNumberIsTaken))
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	_, err = commands.NewCreateWorkOrderCommandHandler(factory, fixedClock{now: createdAt}).Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrWorkOrderNumberIsTaken)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateWorkOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateWorkOrderCommand(kernel.NewUUID(), "WO-1", kernel.NewUUID(), []string{"A"}, false)
	require.NoError(t, err)

	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	_, err = commands.NewCreateWorkOrderCommandHandler(factory, fixedClock{now: createdAt}).Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateWorkOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	p := newProject(t)
	cmd, err := commands.NewCreateWorkOrderCommand(kernel.NewUUID(), "WO-1", p.ID(), []string{"A"}, false)
	require.NoError(t, err)

	projects := new(MockProjectRepository)
	workOrders := new(MockWorkOrderRepository)
	registry := new(MockTokenRegistry)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("ProjectRepository").Return(projects)
	projects.On("Get", ctx, p.ID()).Return(p, nil)
	uow.On("WorkOrderRepository").Return(workOrders)
	workOrders.On("ExistsNumber", ctx, "WO-1").Return(false, nil)
	uow.On("TokenRegistry").Return(registry)
	registry.On("Register", ctx, mock.Anything).Return(someToken(t), nil)
	workOrders.On("Add", ctx, mock.Anything).Return(nil)
	uow.On("Commit", ctx).Return(errors.New("commit error"))
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	_, err = commands.NewCreateWorkOrderCommandHandler(factory, fixedClock{now: createdAt}).Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	uow.AssertCalled(t, "Rollback", ctx)
}

func TestCreateWorkOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	h := commands.NewCreateWorkOrderCommandHandler(new(MockUoWFactory), fixedClock{now: createdAt})

	_, err := h.Handle(t.Context(), commands.CreateWorkOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCreateWorkOrderCommandIsNotConstructed)
}

func TestNewCreateWorkOrderCommand(t *testing.T) {
	id := kernel.NewUUID()
	projectID := kernel.NewUUID()

	t.Run("valid", func(t *testing.T) {
		steps := []string{"Prep"}
		cmd, err := commands.NewCreateWorkOrderCommand(id, " WO-1 ", projectID, steps, false)

		require.NoError(t, err)
		assert.Equal(t, "WO-1", cmd.Number())
		steps[0] = "changed"
		assert.Equal(t, []string{"Prep"}, cmd.Steps())
	})

	t.Run("empty steps without template", func(t *testing.T) {
		_, err := commands.NewCreateWorkOrderCommand(id, "WO-1", projectID, nil, false)
		require.ErrorIs(t, err, workorder.ErrStepsAreRequired)
	})

	t.Run("explicit steps and template", func(t *testing.T) {
		_, err := commands.NewCreateWorkOrderCommand(id, "WO-1", projectID, []string{"A"}, true)
		require.ErrorIs(t, err, commands.ErrStepsConflictWithTemplate)
	})

	t.Run("missing identifiers", func(t *testing.T) {
		_, err := commands.NewCreateWorkOrderCommand(kernel.UUID{}, "", kernel.UUID{}, []string{"A"}, false)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
