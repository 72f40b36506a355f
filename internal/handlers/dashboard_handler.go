package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/services"

	"github.com/labstack/echo/v4"
)

// HorizonLimits bounds the months query parameter.
type HorizonLimits struct {
	Default int
	Max     int
}

// DashboardHandler serves the stored-ledger dashboard and the stateless
// snapshot forecast.
type DashboardHandler struct {
	dashboardService services.DashboardServiceInterface
	limits           HorizonLimits
}

func NewDashboardHandler(dashboardService services.DashboardServiceInterface, limits HorizonLimits) *DashboardHandler {
	if limits.Default < 1 {
		limits.Default = 3
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}
	return &DashboardHandler{dashboardService: dashboardService, limits: limits}
}

// GetDashboard handles GET /api/v1/dashboard?months=N
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	months, ok := h.horizon(c)
	if !ok {
		return h.sendInvalidHorizon(c)
	}

	resp, err := h.dashboardService.GetDashboard(c.Request().Context(), userID, months)
	if err != nil {
		return sendDashboardError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// ComputeForecast handles POST /api/v1/forecast?months=N. The body is a
// snapshot of categories, expenses and incomes; malformed records come back
// as diagnostics rather than errors.
func (h *DashboardHandler) ComputeForecast(c echo.Context) error {
	months, ok := h.horizon(c)
	if !ok {
		return h.sendInvalidHorizon(c)
	}

	var req dto.ForecastRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ForecastInvalidSnapshot, apperrors.WithDetails("Request body is not a JSON snapshot"))
	}

	resp, err := h.dashboardService.ComputeForecast(c.Request().Context(), &req, months)
	if err != nil {
		return sendDashboardError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

func (h *DashboardHandler) horizon(c echo.Context) (int, bool) {
	months, ok := getIntQueryParam(c, "months", h.limits.Default)
	if !ok || months < 1 || months > h.limits.Max {
		return 0, false
	}
	return months, true
}

func (h *DashboardHandler) sendInvalidHorizon(c echo.Context) error {
	return SendError(c, apperrors.ForecastInvalidHorizon,
		apperrors.WithDetails(fmt.Sprintf("months must be an integer between 1 and %d", h.limits.Max)))
}

func sendDashboardError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidEvaluationTime):
		return SendError(c, apperrors.ForecastInvalidNow, apperrors.WithDetails(err.Error()))
	case errors.Is(err, services.ErrEmptyForecastRequest):
		return SendError(c, apperrors.ForecastInvalidSnapshot)
	case errors.Is(err, context.DeadlineExceeded):
		return SendError(c, apperrors.SystemTimeout)
	default:
		return SendSystemError(c, err)
	}
}
