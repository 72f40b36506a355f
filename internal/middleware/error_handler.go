package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "contas/internal/errors"
	"contas/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var apiErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_errors_total",
		Help: "Total number of API errors by code, route and status",
	},
	[]string{"code", "route", "status"},
)

// CustomHTTPErrorHandler renders errors that reach echo as the standard error
// envelope. Handlers answer their own domain errors; what arrives here is
// routing errors, validator failures, timeouts and anything unexpected.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	resp, status := errorResponseFor(err, traceID)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(c.Request().Context(), level, "HTTP error occurred",
		"trace_id", traceID,
		"error_code", resp.Error.Code,
		"status", status,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
	)

	apiErrorsTotal.WithLabelValues(resp.Error.Code, c.Path(), strconv.Itoa(status)).Inc()

	if sendErr := c.JSON(status, resp); sendErr != nil {
		slog.Error("Failed to send error response", "trace_id", traceID, "error", sendErr)
	}
}

func errorResponseFor(err error, traceID string) (*apperrors.ErrorResponse, int) {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		resp := apperrors.NewErrorResponse(mapHTTPStatusToErrorCode(httpErr.Code), traceID,
			apperrors.WithMessage(fmt.Sprint(httpErr.Message)))
		return resp, httpErr.Code
	case errors.Is(err, context.DeadlineExceeded):
		resp := apperrors.NewErrorResponse(apperrors.SystemTimeout, traceID)
		return resp, resp.GetHTTPStatus()
	}

	if fieldErrors, ok := validation.FieldErrors(err); ok {
		return apperrors.NewValidationError(fieldErrors, traceID), http.StatusBadRequest
	}

	resp, _ := apperrors.WrapSystemError(err, traceID)
	return resp, resp.GetHTTPStatus()
}

func mapHTTPStatusToErrorCode(status int) apperrors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return apperrors.ValidationGeneral
	case http.StatusUnauthorized:
		return apperrors.AuthMissingToken
	case http.StatusForbidden:
		return apperrors.AuthAccountLocked
	case http.StatusNotFound:
		return apperrors.SystemNotFound
	case http.StatusTooManyRequests:
		return apperrors.SystemRateLimitExceeded
	case http.StatusInternalServerError:
		return apperrors.SystemInternalError
	case http.StatusServiceUnavailable:
		return apperrors.SystemServiceUnavailable
	case http.StatusGatewayTimeout:
		return apperrors.SystemTimeout
	default:
		return apperrors.SystemUnexpectedError
	}
}
