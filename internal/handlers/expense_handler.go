package handlers

import (
	"errors"
	"net/http"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/services"

	"github.com/labstack/echo/v4"
)

// ExpenseHandler serves the caller's expenses. Every route is scoped to the
// authenticated user; another user's expense is reported as not found.
type ExpenseHandler struct {
	expenseService services.ExpenseServiceInterface
}

func NewExpenseHandler(expenseService services.ExpenseServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ListExpenses handles GET /api/v1/expenses
//
// Query parameters: type, category, paid, start_date, end_date
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
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

	expenses, err := h.expenseService.ListExpenses(c.Request().Context(), userID, &query)
	if err != nil {
		return sendLedgerError(c, err, apperrors.ExpenseNotFound, apperrors.ExpenseInvalid)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toExpenseResponses(expenses),
		Meta: map[string]int{"total": len(expenses)},
	})
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	expense, err := h.expenseService.GetExpense(id, userID)
	if err != nil {
		return sendLedgerError(c, err, apperrors.ExpenseNotFound, apperrors.ExpenseInvalid)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: toExpenseResponse(expense)})
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	var req dto.ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	expense, err := h.expenseService.CreateExpense(userID, &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return sendLedgerError(c, err, apperrors.ExpenseNotFound, apperrors.ExpenseInvalid)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toExpenseResponse(expense),
		Message: "Expense created successfully",
	})
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	var req dto.ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	expense, err := h.expenseService.UpdateExpense(id, userID, &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return sendLedgerError(c, err, apperrors.ExpenseNotFound, apperrors.ExpenseInvalid)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: toExpenseResponse(expense)})
}

// TogglePaid handles POST /api/v1/expenses/:id/toggle-paid
func (h *ExpenseHandler) TogglePaid(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	expense, err := h.expenseService.TogglePaid(id, userID, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return sendLedgerError(c, err, apperrors.ExpenseNotFound, apperrors.ExpenseInvalid)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: toExpenseResponse(expense)})
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	if err := h.expenseService.DeleteExpense(id, userID, getClientIP(c), c.Request().UserAgent()); err != nil {
		return sendLedgerError(c, err, apperrors.ExpenseNotFound, apperrors.ExpenseInvalid)
	}

	return c.NoContent(http.StatusNoContent)
}

// sendLedgerError maps expense and income service errors. An unknown
// category reference is a bad request, not a missing resource.
func sendLedgerError(c echo.Context, err error, notFound, invalid apperrors.ErrorCode) error {
	switch {
	case errors.Is(err, services.ErrExpenseNotFound), errors.Is(err, services.ErrIncomeNotFound):
		return SendError(c, notFound)
	case errors.Is(err, services.ErrCategoryNotFound):
		return SendError(c, invalid, apperrors.WithDetails("category does not exist"))
	case errors.Is(err, services.ErrInvalidLedgerEntry):
		return SendError(c, invalid, apperrors.WithDetails(err.Error()))
	case errors.Is(err, services.ErrInvalidLedgerQuery):
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails(err.Error()))
	default:
		return SendSystemError(c, err)
	}
}
