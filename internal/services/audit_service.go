package services

import (
	"errors"
	"fmt"
	"log/slog"

	"contas/internal/models"
	"contas/internal/repositories"

	"github.com/google/uuid"
)

// AuditService handles audit logging operations
type AuditService struct {
	repo   repositories.AuditLogRepositoryInterface
	logger *slog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditLogRepositoryInterface, logger *slog.Logger) AuditServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

var (
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidAuditLog = errors.New("invalid audit log")
)

var validAuditActions = map[string]bool{
	models.AuditActionRegister:      true,
	models.AuditActionLogin:         true,
	models.AuditActionFailedLogin:   true,
	models.AuditActionAccountLocked: true,
	models.AuditActionCreate:        true,
	models.AuditActionUpdate:        true,
	models.AuditActionDelete:        true,
	models.AuditActionPaidToggled:   true,
	models.AuditActionSampleData:    true,
}

// ValidateActivityType validates that the action is one of the known audit actions
func ValidateActivityType(action string) error {
	if !validAuditActions[action] {
		return fmt.Errorf("invalid activity type: %s", action)
	}
	return nil
}

// CreateAuditLog creates a new audit log entry with validation
func (s *AuditService) CreateAuditLog(log *models.AuditLog) error {
	if log == nil {
		return ErrInvalidAuditLog
	}

	if err := ValidateActivityType(log.Action); err != nil {
		return err
	}

	if err := s.repo.Create(log); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// Record stores an audit entry and never fails the caller. Storage errors
// are logged.
func (s *AuditService) Record(log *models.AuditLog) {
	if err := s.CreateAuditLog(log); err != nil {
		attrs := []any{"error", err}
		if log != nil {
			attrs = append(attrs, "action", log.Action, "resource", log.Resource, "resource_id", log.ResourceID)
		}
		s.logger.Error("failed to create audit log", attrs...)
	}
}

// GetUserActivity returns a page of the user's audit trail, newest first
func (s *AuditService) GetUserActivity(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}

	logs, total, err := s.repo.GetByUserID(userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get user activity: %w", err)
	}

	return logs, total, nil
}

// auditEntry builds an audit log attributed to userID.
func auditEntry(userID uuid.UUID, action, resource, resourceID, ipAddress, userAgent string) *models.AuditLog {
	entry := &models.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
	if userID != uuid.Nil {
		entry.UserID = &userID
	}
	return entry
}
