package commands_test

import (
	"context"
	"time"

	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockWorkOrderRepository struct{ mock.Mock }

func (m *MockWorkOrderRepository) Add(ctx context.Context, wo *workorder.WorkOrder) error {
	args := m.Called(ctx, wo)
	return args.Error(0)
}

func (m *MockWorkOrderRepository) Update(ctx context.Context, wo *workorder.WorkOrder) error {
	args := m.Called(ctx, wo)
	return args.Error(0)
}

func (m *MockWorkOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkOrderRepository) Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, id)
	wo, _ := args.Get(0).(*workorder.WorkOrder)
	return wo, args.Error(1)
}

func (m *MockWorkOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, id)
	wo, _ := args.Get(0).(*workorder.WorkOrder)
	return wo, args.Error(1)
}

func (m *MockWorkOrderRepository) List(ctx context.Context, filter ports.WorkOrderFilter) ([]*workorder.WorkOrder, error) {
	args := m.Called(ctx, filter)
	wos, _ := args.Get(0).([]*workorder.WorkOrder)
	return wos, args.Error(1)
}

func (m *MockWorkOrderRepository) ExistsNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

type MockProjectRepository struct{ mock.Mock }

func (m *MockProjectRepository) Add(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Get(ctx context.Context, id kernel.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*project.Project)
	return p, args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]*project.Project)
	return ps, args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) ExistsName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

type MockTokenRegistry struct{ mock.Mock }

func (m *MockTokenRegistry) Register(ctx context.Context, b scantoken.Binding) (scantoken.Token, error) {
	args := m.Called(ctx, b)
	tok, _ := args.Get(0).(scantoken.Token)
	return tok, args.Error(1)
}

func (m *MockTokenRegistry) Resolve(ctx context.Context, token scantoken.Token) (scantoken.Binding, error) {
	args := m.Called(ctx, token)
	b, _ := args.Get(0).(scantoken.Binding)
	return b, args.Error(1)
}

func (m *MockTokenRegistry) Revoke(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) WorkOrderRepository() ports.WorkOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkOrderRepository)
}

func (m *MockUoW) ProjectRepository() ports.ProjectRepository {
	args := m.Called()
	return args.Get(0).(ports.ProjectRepository)
}

func (m *MockUoW) TokenRegistry() ports.TokenRegistry {
	args := m.Called()
	return args.Get(0).(ports.TokenRegistry)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockScanUoWFactory struct{ mock.Mock }

func (m *MockScanUoWFactory) Create() commands.ScanUoW {
	args := m.Called()
	return args.Get(0).(commands.ScanUoW)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
