package handlers

import (
	"net/http"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints. The routes are only
// registered when APP_ENV=development.
type DevHandler struct {
	generator services.SampleDataGeneratorInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(generator services.SampleDataGeneratorInterface) *DevHandler {
	return &DevHandler{generator: generator}
}

// GenerateSampleData seeds the caller's ledger with fake categories,
// expenses and incomes.
//
// Method: POST /api/v1/dev/sample-data
// Body (optional): {"months": 6, "categories": 5, "entries_per_month": 8}
//
// Success Response: 201 Created with the created counts
func (h *DevHandler) GenerateSampleData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	var req dto.SampleDataRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	resp, err := h.generator.Generate(c.Request().Context(), userID, &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    resp,
		Message: "Sample data generated successfully",
	})
}
