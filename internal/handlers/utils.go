package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = errors.New("unauthorized")

// getUserIDFromContext reads the user ID set by the auth middleware
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.UUID{}, ErrUnauthorized
	}
	return userID, nil
}

// getIntQueryParam returns the named query parameter, the default when it is
// absent, and ok=false when it is present but not an integer.
func getIntQueryParam(c echo.Context, name string, defaultValue int) (int, bool) {
	param := strings.TrimSpace(c.QueryParam(name))
	if param == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(param)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parseIDParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

func getClientIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return c.RealIP()
}

// clampPage normalises offset/limit pagination.
func clampPage(offset, limit, defaultLimit, maxLimit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return offset, limit
}
