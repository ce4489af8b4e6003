package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// ApplyScanParams defines parameters for ApplyScan.
type ApplyScanParams struct {
	XOperatorIdentity *string
}

// ListWorkOrdersParams defines parameters for ListWorkOrders.
type ListWorkOrdersParams struct {
	ProjectID *openapi_types.UUID
	Status    *string
}

// ListDurationsParams defines parameters for ListDurations.
type ListDurationsParams struct {
	ProjectID   *openapi_types.UUID
	WorkOrderID *openapi_types.UUID
	Order       *string
}

// ServerInterface represents all server handlers of openapi.yaml.
type ServerInterface interface {
	ApplyScan(ctx echo.Context, params ApplyScanParams) error
	ListProjects(ctx echo.Context) error
	CreateProject(ctx echo.Context) error
	DeleteProject(ctx echo.Context, projectID openapi_types.UUID) error
	ListWorkOrders(ctx echo.Context, params ListWorkOrdersParams) error
	CreateWorkOrder(ctx echo.Context) error
	GetWorkOrder(ctx echo.Context, workOrderID openapi_types.UUID) error
	DeleteWorkOrder(ctx echo.Context, workOrderID openapi_types.UUID) error
	GetWorkOrderProgress(ctx echo.Context, workOrderID openapi_types.UUID) error
	GetScanSheet(ctx echo.Context, workOrderID openapi_types.UUID) error
	BlockStep(ctx echo.Context, workOrderID openapi_types.UUID, stepIndex int) error
	UnblockStep(ctx echo.Context, workOrderID openapi_types.UUID, stepIndex int) error
	ListDurations(ctx echo.Context, params ListDurationsParams) error
}

// serverInterfaceWrapper converts echo contexts to parameters.
type serverInterfaceWrapper struct {
	handler ServerInterface
}

func pathUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

func pathInt(ctx echo.Context, name string) (int, error) {
	var v int
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return v, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return v, nil
}

func queryParam(ctx echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func (w *serverInterfaceWrapper) ApplyScan(ctx echo.Context) error {
	var params ApplyScanParams

	headers := ctx.Request().Header
	if valueList, found := headers[http.CanonicalHeaderKey("X-Operator-Identity")]; found {
		if n := len(valueList); n != 1 {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Expected one value for X-Operator-Identity, got %d", n))
		}
		var operator string
		err := runtime.BindStyledParameterWithOptions("simple", "X-Operator-Identity", valueList[0], &operator,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: false})
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter X-Operator-Identity: %s", err))
		}
		params.XOperatorIdentity = &operator
	}

	return w.handler.ApplyScan(ctx, params)
}

func (w *serverInterfaceWrapper) ListProjects(ctx echo.Context) error {
	return w.handler.ListProjects(ctx)
}

func (w *serverInterfaceWrapper) CreateProject(ctx echo.Context) error {
	return w.handler.CreateProject(ctx)
}

func (w *serverInterfaceWrapper) DeleteProject(ctx echo.Context) error {
	projectID, err := pathUUID(ctx, "projectId")
	if err != nil {
		return err
	}
	return w.handler.DeleteProject(ctx, projectID)
}

func (w *serverInterfaceWrapper) ListWorkOrders(ctx echo.Context) error {
	var params ListWorkOrdersParams
	if err := queryParam(ctx, "projectId", &params.ProjectID); err != nil {
		return err
	}
	if err := queryParam(ctx, "status", &params.Status); err != nil {
		return err
	}
	return w.handler.ListWorkOrders(ctx, params)
}

func (w *serverInterfaceWrapper) CreateWorkOrder(ctx echo.Context) error {
	return w.handler.CreateWorkOrder(ctx)
}

func (w *serverInterfaceWrapper) GetWorkOrder(ctx echo.Context) error {
	workOrderID, err := pathUUID(ctx, "workOrderId")
	if err != nil {
		return err
	}
	return w.handler.GetWorkOrder(ctx, workOrderID)
}

func (w *serverInterfaceWrapper) DeleteWorkOrder(ctx echo.Context) error {
	workOrderID, err := pathUUID(ctx, "workOrderId")
	if err != nil {
		return err
	}
	return w.handler.DeleteWorkOrder(ctx, workOrderID)
}

func (w *serverInterfaceWrapper) GetWorkOrderProgress(ctx echo.Context) error {
	workOrderID, err := pathUUID(ctx, "workOrderId")
	if err != nil {
		return err
	}
	return w.handler.GetWorkOrderProgress(ctx, workOrderID)
}

func (w *serverInterfaceWrapper) GetScanSheet(ctx echo.Context) error {
	workOrderID, err := pathUUID(ctx, "workOrderId")
	if err != nil {
		return err
	}
	return w.handler.GetScanSheet(ctx, workOrderID)
}

func (w *serverInterfaceWrapper) BlockStep(ctx echo.Context) error {
	workOrderID, err := pathUUID(ctx, "workOrderId")
	if err != nil {
		return err
	}
	stepIndex, err := pathInt(ctx, "stepIndex")
	if err != nil {
		return err
	}
	return w.handler.BlockStep(ctx, workOrderID, stepIndex)
}

func (w *serverInterfaceWrapper) UnblockStep(ctx echo.Context) error {
	workOrderID, err := pathUUID(ctx, "workOrderId")
	if err != nil {
		return err
	}
	stepIndex, err := pathInt(ctx, "stepIndex")
	if err != nil {
		return err
	}
	return w.handler.UnblockStep(ctx, workOrderID, stepIndex)
}

func (w *serverInterfaceWrapper) ListDurations(ctx echo.Context) error {
	var params ListDurationsParams
	if err := queryParam(ctx, "projectId", &params.ProjectID); err != nil {
		return err
	}
	if err := queryParam(ctx, "workOrderId", &params.WorkOrderID); err != nil {
		return err
	}
	if err := queryParam(ctx, "order", &params.Order); err != nil {
		return err
	}
	return w.handler.ListDurations(ctx, params)
}

// RegisterHandlers adds each server route to the group.
func RegisterHandlers(g *echo.Group, si ServerInterface) {
	w := &serverInterfaceWrapper{handler: si}

	g.POST("/scans", w.ApplyScan)
	g.GET("/projects", w.ListProjects)
	g.POST("/projects", w.CreateProject)
	g.DELETE("/projects/:projectId", w.DeleteProject)
	g.GET("/work-orders", w.ListWorkOrders)
	g.POST("/work-orders", w.CreateWorkOrder)
	g.GET("/work-orders/:workOrderId", w.GetWorkOrder)
	g.DELETE("/work-orders/:workOrderId", w.DeleteWorkOrder)
	g.GET("/work-orders/:workOrderId/progress", w.GetWorkOrderProgress)
	g.GET("/work-orders/:workOrderId/scan-sheet", w.GetScanSheet)
	g.PUT("/work-orders/:workOrderId/steps/:stepIndex/block", w.BlockStep)
	g.DELETE("/work-orders/:workOrderId/steps/:stepIndex/block", w.UnblockStep)
	g.GET("/reports/durations", w.ListDurations)
}

// Options carries the operational endpoints mounted next to the API.
type Options struct {
	Metrics http.Handler
	Live    http.Handler
	Logger  *slog.Logger
}

// NewRouter builds the echo instance: /api/v1 validated against the
// OpenAPI document, plus /health, /metrics, /live/transitions and /swagger.
func NewRouter(ctx context.Context, server ServerInterface, opts Options) (*echo.Echo, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	doc, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	if err = registerSwagger(doc); err != nil {
		return nil, err
	}
	validator, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error.Error())
				logger.WarnContext(c.Request().Context(), "request", attrs...)
				return nil
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics))
	}
	if opts.Live != nil {
		e.GET("/live/transitions", echo.WrapHandler(opts.Live))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", validator)
	RegisterHandlers(api, server)

	return e, nil
}
