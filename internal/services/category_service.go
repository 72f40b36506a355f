package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"contas/internal/dto"
	"contas/internal/models"
	"contas/internal/repositories"

	"github.com/google/uuid"
)

var ErrInvalidCategory = errors.New("invalid category")

// CategoryService manages categories. Categories are global, so any
// authenticated user may edit them; every change is audited with its author.
// Deleting a category leaves its expenses and incomes uncategorized.
type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	auditService AuditServiceInterface
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
}

func NewCategoryService(
	categoryRepo repositories.CategoryRepositoryInterface,
	auditService AuditServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) CategoryServiceInterface {
	return &CategoryService{
		categoryRepo: categoryRepo,
		auditService: auditService,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(req *dto.CategoryRequest, userID uuid.UUID, ipAddress, userAgent string) (*models.Category, error) {
	category := &models.Category{}
	if err := applyCategory(category, req); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.afterWrite(userID, category.ID, models.AuditActionCreate, ipAddress, userAgent)
	return category, nil
}

func (s *CategoryService) UpdateCategory(id uuid.UUID, req *dto.CategoryRequest, userID uuid.UUID, ipAddress, userAgent string) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if err := applyCategory(category, req); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(category); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.afterWrite(userID, category.ID, models.AuditActionUpdate, ipAddress, userAgent)
	return category, nil
}

func (s *CategoryService) DeleteCategory(id, userID uuid.UUID, ipAddress, userAgent string) error {
	if err := s.categoryRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.afterWrite(userID, id, models.AuditActionDelete, ipAddress, userAgent)
	return nil
}

func applyCategory(category *models.Category, req *dto.CategoryRequest) error {
	category.Name = strings.TrimSpace(req.Name)
	category.Description = req.Description
	category.Icon = req.Icon
	category.Color = req.Color

	if err := category.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}
	return nil
}

func (s *CategoryService) afterWrite(userID, categoryID uuid.UUID, action, ipAddress, userAgent string) {
	s.auditService.Record(auditEntry(userID, action, models.AuditResourceCategory, categoryID.String(), ipAddress, userAgent))
	s.metrics.IncrementCounter("ledger_operation", map[string]string{"resource": models.AuditResourceCategory, "operation": action})
	s.logger.Info("category changed", "category_id", categoryID, "user_id", userID, "action", action)
}
