package handlers

import (
	"log/slog"
	"net/http"

	"contas/internal/errors"

	"github.com/labstack/echo/v4"
)

// TraceIDContextKey mirrors the key the RequestID middleware stores under.
const TraceIDContextKey = "trace_id"

// SuccessResponse wraps every 2xx body: {"data": ..., "meta": ...}.
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type ErrorResponse = errors.ErrorResponse

func traceIDOf(c echo.Context) string {
	id, _ := c.Get(TraceIDContextKey).(string)
	return id
}

// SendError answers with code. The HTTP status follows from the code, so
// SendError(c, errors.ExpenseNotFound) is a 404.
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	resp := errors.NewErrorResponse(code, traceIDOf(c), opts...)
	return c.JSON(resp.GetHTTPStatus(), resp)
}

// SendSystemError answers SYSTEM_001 and keeps err in the log only.
func SendSystemError(c echo.Context, err error) error {
	resp, cause := errors.WrapSystemError(err, traceIDOf(c))
	slog.ErrorContext(c.Request().Context(), "request failed",
		"trace_id", resp.Error.TraceID,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", cause)
	return c.JSON(http.StatusInternalServerError, resp)
}
