package commands_test

import (
	"errors"
	"testing"

	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewApplyScanCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cmd, err := commands.NewApplyScanCommand(" S.ab.0.cd\n", " alice ", "END")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "S.ab.0.cd", cmd.Token().String())
		assert.Equal(t, "alice", cmd.Operator())
		assert.Equal(t, scantoken.End, cmd.ExpectedKind())
	})

	t.Run("kind is optional", func(t *testing.T) {
		cmd, err := commands.NewApplyScanCommand("S.ab.0.cd", "alice", "")

		require.NoError(t, err)
		assert.Equal(t, scantoken.UnknownKind, cmd.ExpectedKind())
	})

	t.Run("all violations are reported", func(t *testing.T) {
		_, err := commands.NewApplyScanCommand("", "", "pause")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "operator identity")
	})
}

func TestApplyScanCommandHandler_Handle_StorageError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewApplyScanCommand("S.ab.0.cd", "alice", "")
	require.NoError(t, err)

	storageErr := errs.NewStorageUnavailableError("resolve token", errors.New("connection refused"))
	registry := new(MockTokenRegistry)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TokenRegistry").Return(registry).Once(),
		registry.On("Resolve", ctx, cmd.Token()).Return(nil, storageErr).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockScanUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err = commands.NewApplyScanCommandHandler(factory, fixedClock{now: createdAt}).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrStorageUnavailable)
	uow.AssertExpectations(t)
	registry.AssertExpectations(t)
}

func TestApplyScanCommandHandler_Handle_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := t.Context()
	woID := kernel.NewUUID()
	binding, err := scantoken.NewBinding(woID, 0, scantoken.Start)
	require.NoError(t, err)
	cmd, err := commands.NewApplyScanCommand("S.ab.0.cd", "alice", "")
	require.NoError(t, err)

	registry := new(MockTokenRegistry)
	registry.On("Resolve", ctx, cmd.Token()).Return(binding, nil)
	workOrders := new(MockWorkOrderRepository)
	for i := 0; i < 5; i++ {
		wo, err := workorder.NewWorkOrder(woID, "WO-1", kernel.NewUUID(), []string{"Prep"}, createdAt,
			func(b scantoken.Binding) (scantoken.Token, error) { return scantoken.DefaultGenerator().Generate(b) })
		require.NoError(t, err)
		workOrders.On("GetForUpdate", ctx, woID).Return(wo, nil).Once()
	}
	workOrders.On("Update", ctx, mock.Anything).Return(errs.NewVersionIsInvalidError("work order"))

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("TokenRegistry").Return(registry)
	uow.On("WorkOrderRepository").Return(workOrders)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockScanUoWFactory)
	factory.On("Create").Return(uow)

	_, err = commands.NewApplyScanCommandHandler(factory, fixedClock{now: createdAt}).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	workOrders.AssertNumberOfCalls(t, "Update", 5)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
