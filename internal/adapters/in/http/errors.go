package http

import (
	"errors"
	"log/slog"
	"net/http"

	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/core/domain/model/scantoken"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// StatusCode maps an application error to its HTTP status.
func StatusCode(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, scantoken.ErrUnknownToken),
		errors.Is(err, workorder.ErrInstanceNotFound),
		errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, workorder.ErrOutOfSequence),
		errors.Is(err, workorder.ErrAlreadyStarted),
		errors.Is(err, workorder.ErrAlreadyCompleted),
		errors.Is(err, workorder.ErrNotStarted),
		errors.Is(err, workorder.ErrAlreadyBlocked),
		errors.Is(err, workorder.ErrNotBlocked),
		errors.Is(err, commands.ErrProjectNameIsTaken),
		errors.Is(err, commands.ErrWorkOrderNumberIsTaken),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, workorder.ErrStepsAreRequired),
		errors.Is(err, commands.ErrStepsConflictWithTemplate),
		errors.Is(err, project.ErrDefaultStepsAreEmpty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler renders every failure as an Error body. Internal errors are
// logged and their details hidden from the client.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := StatusCode(err)
		message := err.Error()
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", code,
				"error", err,
			)
			if code == http.StatusInternalServerError {
				message = http.StatusText(code)
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, Error{Code: code, Message: message})
		}
		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", writeErr)
		}
	}
}
