package handlers

import (
	"net/http"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/services"

	"github.com/labstack/echo/v4"
)

// IncomeHandler serves the caller's incomes. Every route is scoped to the
// authenticated user; another user's income is reported as not found.
type IncomeHandler struct {
	incomeService services.IncomeServiceInterface
}

func NewIncomeHandler(incomeService services.IncomeServiceInterface) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// ListIncomes handles GET /api/v1/incomes
//
// Query parameters: type, category, start_date, end_date. paid is ignored.
func (h *IncomeHandler) ListIncomes(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	var query dto.LedgerQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	incomes, err := h.incomeService.ListIncomes(c.Request().Context(), userID, &query)
	if err != nil {
		return sendLedgerError(c, err, apperrors.IncomeNotFound, apperrors.IncomeInvalid)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toIncomeResponses(incomes),
		Meta: map[string]int{"total": len(incomes)},
	})
}

// GetIncome handles GET /api/v1/incomes/:id
func (h *IncomeHandler) GetIncome(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	income, err := h.incomeService.GetIncome(id, userID)
	if err != nil {
		return sendLedgerError(c, err, apperrors.IncomeNotFound, apperrors.IncomeInvalid)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: toIncomeResponse(income)})
}

// CreateIncome handles POST /api/v1/incomes
func (h *IncomeHandler) CreateIncome(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	var req dto.IncomeRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	income, err := h.incomeService.CreateIncome(userID, &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return sendLedgerError(c, err, apperrors.IncomeNotFound, apperrors.IncomeInvalid)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toIncomeResponse(income),
		Message: "Income created successfully",
	})
}

// UpdateIncome handles PUT /api/v1/incomes/:id
func (h *IncomeHandler) UpdateIncome(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	var req dto.IncomeRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	income, err := h.incomeService.UpdateIncome(id, userID, &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return sendLedgerError(c, err, apperrors.IncomeNotFound, apperrors.IncomeInvalid)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: toIncomeResponse(income)})
}

// DeleteIncome handles DELETE /api/v1/incomes/:id
func (h *IncomeHandler) DeleteIncome(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	if err := h.incomeService.DeleteIncome(id, userID, getClientIP(c), c.Request().UserAgent()); err != nil {
		return sendLedgerError(c, err, apperrors.IncomeNotFound, apperrors.IncomeInvalid)
	}

	return c.NoContent(http.StatusNoContent)
}
