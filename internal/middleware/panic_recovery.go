package middleware

import (
	"log/slog"
	"runtime/debug"

	"contas/internal/errors"
	"contas/internal/handlers"

	"github.com/labstack/echo/v4"
)

// PanicRecovery answers a panicking handler with SYSTEM_001 unless the
// response is already on the wire. The stack goes to the log, never to the
// client.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = recovered(c, r)
				}
			}()
			return next(c)
		}
	}
}

func recovered(c echo.Context, value any) error {
	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
		c.Set(TraceIDContextKey, traceID)
	}

	slog.ErrorContext(c.Request().Context(), "Panic recovered",
		"trace_id", traceID,
		"panic", value,
		"stack_trace", string(debug.Stack()),
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
	)

	if c.Response().Committed {
		return nil
	}
	if err := handlers.SendError(c, errors.SystemInternalError); err != nil {
		slog.Error("Failed to send panic recovery response", "trace_id", traceID, "error", err)
	}
	return nil
}
