package handlers

import (
	"net/http"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

// AuditHandler exposes the caller's own activity trail
type AuditHandler struct {
	auditService services.AuditServiceInterface
}

func NewAuditHandler(auditService services.AuditServiceInterface) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListActivity handles GET /api/v1/audit-logs?offset=0&limit=20
func (h *AuditHandler) ListActivity(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	offset, ok := getIntQueryParam(c, "offset", 0)
	if !ok {
		return SendError(c, apperrors.ValidationInvalidFormat, apperrors.WithDetails("offset must be an integer"))
	}
	limit, ok := getIntQueryParam(c, "limit", defaultAuditPageSize)
	if !ok {
		return SendError(c, apperrors.ValidationInvalidFormat, apperrors.WithDetails("limit must be an integer"))
	}
	offset, limit = clampPage(offset, limit, defaultAuditPageSize, maxAuditPageSize)

	logs, total, err := h.auditService.GetUserActivity(userID, offset, limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toAuditLogResponses(logs),
		Meta: dto.PaginationMeta{Offset: offset, Limit: limit, Total: total},
	})
}
