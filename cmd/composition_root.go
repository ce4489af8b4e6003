package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpadapter "shopfloor/internal/adapters/in/http"
	"shopfloor/internal/adapters/in/ws"
	"shopfloor/internal/adapters/out/memory"
	"shopfloor/internal/adapters/out/metrics"
	"shopfloor/internal/adapters/out/postgres"
	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/application/usecases/queries"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/ports"
	"shopfloor/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	clock      kernel.Clock
	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	workOrders queries.WorkOrderReader
	projects   queries.ProjectReader
	recorder   *metrics.Recorder
	hub        *ws.Hub
}

// NewCompositionRoot connects the configured storage driver. For postgres
// the connection is verified before returning.
func NewCompositionRoot(ctx context.Context, config Config, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		config:   config,
		logger:   logger,
		clock:    kernel.SystemClock{},
		recorder: metrics.NewRecorder(),
		hub:      ws.NewHub(logger),
	}

	switch config.StorageDriver {
	case StorageDriverMemory:
		store := memory.NewStore()
		root.uowFactory = memory.NewUnitOfWorkFactory(store)
		root.workOrders = store.WorkOrders()
		root.projects = store.Projects()
	case StorageDriverPostgres:
		db, err := postgres.Open(ctx, config.DBOptions().DSN(), logger)
		if err != nil {
			return nil, err
		}
		factory := postgres.NewGormUnitOfWorkFactory(db, scantoken.DefaultGenerator())
		// Outside Begin the repositories read through the pool.
		reader := factory.Create()
		root.gormDB = db
		root.uowFactory = factory
		root.workOrders = reader.WorkOrderRepository()
		root.projects = reader.ProjectRepository()
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", config.StorageDriver)
	}

	logger.InfoContext(ctx, "storage ready", "driver", config.StorageDriver)
	return root, nil
}

// Migrate creates or updates the schema. It does nothing for the memory driver.
func (c *CompositionRoot) Migrate() error {
	if c.gormDB == nil {
		return nil
	}
	return postgres.Migrate(c.gormDB)
}

// GormDB is nil for the memory driver.
func (c *CompositionRoot) GormDB() *gorm.DB {
	return c.gormDB
}

func (c *CompositionRoot) Recorder() *metrics.Recorder {
	return c.recorder
}

func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

// Close disconnects websocket clients and the database pool.
func (c *CompositionRoot) Close() error {
	c.hub.Close()
	if c.gormDB == nil {
		return nil
	}
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *CompositionRoot) scanUoWFactory() commands.ScanUoWFactory {
	return FuncScanUoWFactory(func() commands.ScanUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) projectUoWFactory() commands.ProjectUoWFactory {
	return FuncProjectUoWFactory(func() commands.ProjectUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

// CreateApplyScanCommandHandler returns the engine with the metrics recorder
// and the live feed attached.
func (c *CompositionRoot) CreateApplyScanCommandHandler() commands.ApplyScanCommandHandler {
	return commands.NewApplyScanCommandHandler(c.scanUoWFactory(), c.clock, c.recorder, c.hub)
}

func (c *CompositionRoot) CreateCreateProjectCommandHandler() commands.CreateProjectCommandHandler {
	return commands.NewCreateProjectCommandHandler(c.projectUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateDeleteProjectCommandHandler() commands.DeleteProjectCommandHandler {
	return commands.NewDeleteProjectCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreateCreateWorkOrderCommandHandler() commands.CreateWorkOrderCommandHandler {
	return commands.NewCreateWorkOrderCommandHandler(c.fullUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateDeleteWorkOrderCommandHandler() commands.DeleteWorkOrderCommandHandler {
	return commands.NewDeleteWorkOrderCommandHandler(c.scanUoWFactory())
}

func (c *CompositionRoot) CreateSetStepBlockedCommandHandler() commands.SetStepBlockedCommandHandler {
	return commands.NewSetStepBlockedCommandHandler(c.scanUoWFactory())
}

func (c *CompositionRoot) CreateListProjectsQueryHandler() queries.ListProjectsQueryHandler {
	return queries.NewListProjectsQueryHandler(c.projects)
}

func (c *CompositionRoot) CreateGetDashboardOverviewQueryHandler() queries.GetDashboardOverviewQueryHandler {
	return queries.NewGetDashboardOverviewQueryHandler(c.workOrders, c.projects)
}

func (c *CompositionRoot) CreateGetWorkOrderQueryHandler() queries.GetWorkOrderQueryHandler {
	return queries.NewGetWorkOrderQueryHandler(c.workOrders, c.projects)
}

func (c *CompositionRoot) CreateGetWorkOrderProgressQueryHandler() queries.GetWorkOrderProgressQueryHandler {
	return queries.NewGetWorkOrderProgressQueryHandler(c.workOrders)
}

func (c *CompositionRoot) CreateGetScanSheetQueryHandler() queries.GetScanSheetQueryHandler {
	return queries.NewGetScanSheetQueryHandler(c.workOrders, c.projects)
}

func (c *CompositionRoot) CreateListDurationsQueryHandler() queries.ListDurationsQueryHandler {
	return queries.NewListDurationsQueryHandler(c.workOrders, c.projects)
}

func (c *CompositionRoot) CreateListStalledStepsQueryHandler() queries.ListStalledStepsQueryHandler {
	return queries.NewListStalledStepsQueryHandler(c.workOrders)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		ApplyScan:       c.CreateApplyScanCommandHandler(),
		CreateProject:   c.CreateCreateProjectCommandHandler(),
		DeleteProject:   c.CreateDeleteProjectCommandHandler(),
		CreateWorkOrder: c.CreateCreateWorkOrderCommandHandler(),
		DeleteWorkOrder: c.CreateDeleteWorkOrderCommandHandler(),
		SetStepBlocked:  c.CreateSetStepBlockedCommandHandler(),

		ListProjects:      c.CreateListProjectsQueryHandler(),
		DashboardOverview: c.CreateGetDashboardOverviewQueryHandler(),
		GetWorkOrder:      c.CreateGetWorkOrderQueryHandler(),
		GetProgress:       c.CreateGetWorkOrderProgressQueryHandler(),
		GetScanSheet:      c.CreateGetScanSheetQueryHandler(),
		ListDurations:     c.CreateListDurationsQueryHandler(),
	}, c.recorder)
}

func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	return httpadapter.NewRouter(ctx, c.CreateServer(), httpadapter.Options{
		Metrics: c.recorder.Handler(),
		Live:    c.hub,
		Logger:  c.logger,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewProgressMetricsJob(
			c.config.MetricsSchedule,
			c.CreateGetDashboardOverviewQueryHandler(),
			c.recorder,
			c.logger,
		),
		jobs.NewStalledStepsJob(
			c.config.StalledSchedule,
			c.config.StalledAfter,
			c.CreateListStalledStepsQueryHandler(),
			c.recorder,
			c.clock,
			c.logger,
		),
	)
}

type FuncScanUoWFactory func() commands.ScanUoW

func (f FuncScanUoWFactory) Create() commands.ScanUoW {
	return f()
}

type FuncProjectUoWFactory func() commands.ProjectUoW

func (f FuncProjectUoWFactory) Create() commands.ProjectUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
