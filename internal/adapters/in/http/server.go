package http

import (
	"net/http"
	"strings"

	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/application/usecases/queries"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/workorder"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	// Command handlers
	ApplyScan       commands.ApplyScanCommandHandler
	CreateProject   commands.CreateProjectCommandHandler
	DeleteProject   commands.DeleteProjectCommandHandler
	CreateWorkOrder commands.CreateWorkOrderCommandHandler
	DeleteWorkOrder commands.DeleteWorkOrderCommandHandler
	SetStepBlocked  commands.SetStepBlockedCommandHandler

	// Query handlers
	ListProjects      queries.ListProjectsQueryHandler
	DashboardOverview queries.GetDashboardOverviewQueryHandler
	GetWorkOrder      queries.GetWorkOrderQueryHandler
	GetProgress       queries.GetWorkOrderProgressQueryHandler
	GetScanSheet      queries.GetScanSheetQueryHandler
	ListDurations     queries.ListDurationsQueryHandler
}

// RejectionObserver is told about every scan the engine refused.
type RejectionObserver interface {
	ObserveRejection(err error)
}

// Server implements ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers   Handlers
	rejections RejectionObserver
}

// NewServer creates a new HTTP server with the required command and query handlers.
// rejections may be nil.
func NewServer(handlers Handlers, rejections RejectionObserver) *Server {
	return &Server{
		handlers:   handlers,
		rejections: rejections,
	}
}

var _ ServerInterface = (*Server)(nil)

// ApplyScan handles POST /api/v1/scans.
func (s *Server) ApplyScan(ctx echo.Context, params ApplyScanParams) error {
	var body ScanRequest
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	operator := body.Operator
	if params.XOperatorIdentity != nil && strings.TrimSpace(*params.XOperatorIdentity) != "" {
		operator = *params.XOperatorIdentity
	}

	cmd, err := commands.NewApplyScanCommand(body.Token, operator, body.TransitionKind)
	if err != nil {
		return err
	}

	tr, err := s.handlers.ApplyScan.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if s.rejections != nil {
			s.rejections.ObserveRejection(err)
		}
		return err
	}

	return ctx.JSON(http.StatusOK, toTransition(tr))
}

// ListProjects handles GET /api/v1/projects.
func (s *Server) ListProjects(ctx echo.Context) error {
	projects, err := s.handlers.ListProjects.Handle(ctx.Request().Context(), queries.NewListProjectsQuery())
	if err != nil {
		return err
	}

	response := make([]Project, 0, len(projects))
	for _, p := range projects {
		response = append(response, toProject(p))
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateProject handles POST /api/v1/projects.
func (s *Server) CreateProject(ctx echo.Context) error {
	var body NewProject
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewCreateProjectCommand(kernel.NewUUID(), body.Name, body.Description, body.DefaultSteps)
	if err != nil {
		return err
	}

	p, err := s.handlers.CreateProject.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toProject(p))
}

// DeleteProject handles DELETE /api/v1/projects/{projectId}.
func (s *Server) DeleteProject(ctx echo.Context, projectID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(projectID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteProjectCommand(id)
	if err != nil {
		return err
	}

	if _, err = s.handlers.DeleteProject.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ListWorkOrders handles GET /api/v1/work-orders - the dashboard.
func (s *Server) ListWorkOrders(ctx echo.Context, params ListWorkOrdersParams) error {
	projectID, err := optionalID(params.ProjectID)
	if err != nil {
		return err
	}

	status := workorder.Unknown
	if params.Status != nil {
		if status, err = workorder.ParseStatus(*params.Status); err != nil {
			return err
		}
	}

	query, err := queries.NewGetDashboardOverviewQuery(projectID, status)
	if err != nil {
		return err
	}

	rows, err := s.handlers.DashboardOverview.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]Progress, 0, len(rows))
	for _, row := range rows {
		response = append(response, toProgress(row.Progress, row.ProjectName))
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateWorkOrder handles POST /api/v1/work-orders.
func (s *Server) CreateWorkOrder(ctx echo.Context) error {
	var body NewWorkOrder
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	projectID, err := kernel.UUIDFromBytes(body.ProjectID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateWorkOrderCommand(kernel.NewUUID(), body.Number, projectID, body.Steps, body.UseProjectSteps)
	if err != nil {
		return err
	}

	wo, err := s.handlers.CreateWorkOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	detail, err := s.handlers.GetWorkOrder.DetailOf(ctx.Request().Context(), wo)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toWorkOrder(detail))
}

// GetWorkOrder handles GET /api/v1/work-orders/{workOrderId}.
func (s *Server) GetWorkOrder(ctx echo.Context, workOrderID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(workOrderID[:])
	if err != nil {
		return err
	}

	query, err := queries.NewGetWorkOrderQuery(id)
	if err != nil {
		return err
	}

	detail, err := s.handlers.GetWorkOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toWorkOrder(detail))
}

// DeleteWorkOrder handles DELETE /api/v1/work-orders/{workOrderId}.
func (s *Server) DeleteWorkOrder(ctx echo.Context, workOrderID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(workOrderID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteWorkOrderCommand(id)
	if err != nil {
		return err
	}

	if err = s.handlers.DeleteWorkOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetWorkOrderProgress handles GET /api/v1/work-orders/{workOrderId}/progress.
func (s *Server) GetWorkOrderProgress(ctx echo.Context, workOrderID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(workOrderID[:])
	if err != nil {
		return err
	}

	query, err := queries.NewGetWorkOrderProgressQuery(id)
	if err != nil {
		return err
	}

	progress, err := s.handlers.GetProgress.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toProgress(progress, ""))
}

// GetScanSheet handles GET /api/v1/work-orders/{workOrderId}/scan-sheet.
func (s *Server) GetScanSheet(ctx echo.Context, workOrderID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(workOrderID[:])
	if err != nil {
		return err
	}

	query, err := queries.NewGetScanSheetQuery(id)
	if err != nil {
		return err
	}

	sheet, err := s.handlers.GetScanSheet.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toScanSheet(sheet))
}

// BlockStep handles PUT /api/v1/work-orders/{workOrderId}/steps/{stepIndex}/block.
func (s *Server) BlockStep(ctx echo.Context, workOrderID openapi_types.UUID, stepIndex int) error {
	return s.setStepBlocked(ctx, workOrderID, stepIndex, true)
}

// UnblockStep handles DELETE /api/v1/work-orders/{workOrderId}/steps/{stepIndex}/block.
func (s *Server) UnblockStep(ctx echo.Context, workOrderID openapi_types.UUID, stepIndex int) error {
	return s.setStepBlocked(ctx, workOrderID, stepIndex, false)
}

func (s *Server) setStepBlocked(ctx echo.Context, workOrderID openapi_types.UUID, stepIndex int, blocked bool) error {
	id, err := kernel.UUIDFromBytes(workOrderID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewSetStepBlockedCommand(id, stepIndex, blocked)
	if err != nil {
		return err
	}

	wo, err := s.handlers.SetStepBlocked.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	detail, err := s.handlers.GetWorkOrder.DetailOf(ctx.Request().Context(), wo)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toWorkOrder(detail))
}

// ListDurations handles GET /api/v1/reports/durations.
func (s *Server) ListDurations(ctx echo.Context, params ListDurationsParams) error {
	projectID, err := optionalID(params.ProjectID)
	if err != nil {
		return err
	}
	workOrderID, err := optionalID(params.WorkOrderID)
	if err != nil {
		return err
	}
	var order string
	if params.Order != nil {
		order = *params.Order
	}

	query, err := queries.NewListDurationsQuery(projectID, workOrderID, order)
	if err != nil {
		return err
	}

	records, err := s.handlers.ListDurations.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]DurationRecord, 0, len(records))
	for _, r := range records {
		response = append(response, toDurationRecord(r))
	}
	return ctx.JSON(http.StatusOK, response)
}

func optionalID(id *openapi_types.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil //nolint:nilnil // absent filter
	}
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
