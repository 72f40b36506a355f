package handlers

import (
	"errors"
	"net/http"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandler serves the shared category list
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toCategoryResponses(categories),
		Meta: map[string]int{"total": len(categories)},
	})
}

// GetCategory handles GET /api/v1/categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	category, err := h.categoryService.GetCategory(id)
	if err != nil {
		return h.sendCategoryError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: toCategoryResponse(category)})
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryService.CreateCategory(&req, userID, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return h.sendCategoryError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toCategoryResponse(category),
		Message: "Category created successfully",
	})
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryService.UpdateCategory(id, &req, userID, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return h.sendCategoryError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: toCategoryResponse(category)})
}

// DeleteCategory handles DELETE /api/v1/categories/:id. Entries that
// referenced the category become uncategorized.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, apperrors.ValidationInvalidID)
	}

	if err := h.categoryService.DeleteCategory(id, userID, getClientIP(c), c.Request().UserAgent()); err != nil {
		return h.sendCategoryError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) sendCategoryError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		return SendError(c, apperrors.CategoryNotFound)
	case errors.Is(err, services.ErrInvalidCategory):
		return SendError(c, apperrors.CategoryInvalid, apperrors.WithDetails(err.Error()))
	default:
		return SendSystemError(c, err)
	}
}
