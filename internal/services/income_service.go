package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contas/internal/dto"
	"contas/internal/models"
	"contas/internal/repositories"

	"github.com/google/uuid"
)

var ErrIncomeNotFound = errors.New("income not found")

type IncomeService struct {
	incomeRepo   repositories.IncomeRepositoryInterface
	categoryRepo repositories.CategoryRepositoryInterface
	auditService AuditServiceInterface
	dashboards   DashboardInvalidatorInterface
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
}

func NewIncomeService(
	incomeRepo repositories.IncomeRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	auditService AuditServiceInterface,
	dashboards DashboardInvalidatorInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) IncomeServiceInterface {
	return &IncomeService{
		incomeRepo:   incomeRepo,
		categoryRepo: categoryRepo,
		auditService: auditService,
		dashboards:   dashboards,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *IncomeService) ListIncomes(ctx context.Context, userID uuid.UUID, query *dto.LedgerQuery) ([]models.Income, error) {
	filters, err := ledgerFilters(query)
	if err != nil {
		return nil, err
	}
	// incomes carry no paid flag
	filters.Paid = nil

	incomes, err := s.incomeRepo.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	return incomes, nil
}

func (s *IncomeService) GetIncome(id, userID uuid.UUID) (*models.Income, error) {
	income, err := s.incomeRepo.GetByID(id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrIncomeNotFound) {
			return nil, ErrIncomeNotFound
		}
		return nil, fmt.Errorf("failed to get income: %w", err)
	}
	return income, nil
}

func (s *IncomeService) CreateIncome(userID uuid.UUID, req *dto.IncomeRequest, ipAddress, userAgent string) (*models.Income, error) {
	income := &models.Income{LedgerEntry: models.LedgerEntry{UserID: userID}}
	if err := s.apply(income, req); err != nil {
		return nil, err
	}

	if err := s.incomeRepo.Create(income); err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}

	s.afterWrite(income.UserID, income.ID, models.AuditActionCreate, ipAddress, userAgent)
	return income, nil
}

func (s *IncomeService) UpdateIncome(id, userID uuid.UUID, req *dto.IncomeRequest, ipAddress, userAgent string) (*models.Income, error) {
	income, err := s.GetIncome(id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.apply(income, req); err != nil {
		return nil, err
	}

	if err := s.incomeRepo.Update(income); err != nil {
		if errors.Is(err, repositories.ErrIncomeNotFound) {
			return nil, ErrIncomeNotFound
		}
		return nil, fmt.Errorf("failed to update income: %w", err)
	}

	s.afterWrite(income.UserID, income.ID, models.AuditActionUpdate, ipAddress, userAgent)
	return income, nil
}

func (s *IncomeService) DeleteIncome(id, userID uuid.UUID, ipAddress, userAgent string) error {
	if err := s.incomeRepo.Delete(id, userID); err != nil {
		if errors.Is(err, repositories.ErrIncomeNotFound) {
			return ErrIncomeNotFound
		}
		return fmt.Errorf("failed to delete income: %w", err)
	}

	s.afterWrite(userID, id, models.AuditActionDelete, ipAddress, userAgent)
	return nil
}

func (s *IncomeService) apply(income *models.Income, req *dto.IncomeRequest) error {
	incomeType := entryTypeOrDefault(req.IncomeType)
	fields, err := ledgerFields(&req.LedgerEntryRequest, incomeType)
	if err != nil {
		return err
	}
	if err := ensureCategory(s.categoryRepo, fields.CategoryID); err != nil {
		return err
	}

	fields.ID = income.ID
	fields.UserID = income.UserID
	fields.CreatedAt = income.CreatedAt
	income.LedgerEntry = fields
	income.IncomeType = incomeType
	income.Category = nil

	if err := income.Validate(); err != nil {
		return invalidEntry("%v", err)
	}
	return nil
}

func (s *IncomeService) afterWrite(userID, incomeID uuid.UUID, action, ipAddress, userAgent string) {
	s.auditService.Record(auditEntry(userID, action, models.AuditResourceIncome, incomeID.String(), ipAddress, userAgent))
	s.dashboards.Invalidate(userID)
	s.metrics.IncrementCounter("ledger_operation", map[string]string{"resource": models.AuditResourceIncome, "operation": action})
	s.logger.Debug("income changed", "income_id", incomeID, "user_id", userID, "action", action)
}
