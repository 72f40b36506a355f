package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"contas/internal/dto"
	"contas/internal/models"
	"contas/internal/repositories"

	"github.com/google/uuid"
)

var ErrExpenseNotFound = errors.New("expense not found")

// ExpenseService manages expenses owned by a single user per call
type ExpenseService struct {
	expenseRepo  repositories.ExpenseRepositoryInterface
	categoryRepo repositories.CategoryRepositoryInterface
	auditService AuditServiceInterface
	dashboards   DashboardInvalidatorInterface
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
	now          func() time.Time
}

func NewExpenseService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	auditService AuditServiceInterface,
	dashboards DashboardInvalidatorInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ExpenseServiceInterface {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		auditService: auditService,
		dashboards:   dashboards,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *ExpenseService) ListExpenses(ctx context.Context, userID uuid.UUID, query *dto.LedgerQuery) ([]models.Expense, error) {
	filters, err := ledgerFilters(query)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

func (s *ExpenseService) GetExpense(id, userID uuid.UUID) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

func (s *ExpenseService) CreateExpense(userID uuid.UUID, req *dto.ExpenseRequest, ipAddress, userAgent string) (*models.Expense, error) {
	expense := &models.Expense{LedgerEntry: models.LedgerEntry{UserID: userID}}
	if err := s.apply(expense, req); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Create(expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.afterWrite(expense, models.AuditActionCreate, ipAddress, userAgent)
	return expense, nil
}

// UpdateExpense replaces every editable field of the expense
func (s *ExpenseService) UpdateExpense(id, userID uuid.UUID, req *dto.ExpenseRequest, ipAddress, userAgent string) (*models.Expense, error) {
	expense, err := s.GetExpense(id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.apply(expense, req); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Update(expense); err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.afterWrite(expense, models.AuditActionUpdate, ipAddress, userAgent)
	return expense, nil
}

// TogglePaid flips the paid flag. Paying stamps today's date.
func (s *ExpenseService) TogglePaid(id, userID uuid.UUID, ipAddress, userAgent string) (*models.Expense, error) {
	expense, err := s.GetExpense(id, userID)
	if err != nil {
		return nil, err
	}

	expense.MarkPaid(!expense.Paid, s.now())

	if err := s.expenseRepo.UpdatePaid(expense); err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update paid status: %w", err)
	}

	entry := auditEntry(userID, models.AuditActionPaidToggled, models.AuditResourceExpense, expense.ID.String(), ipAddress, userAgent)
	s.auditService.Record(entry.With("paid", expense.Paid))
	s.dashboards.Invalidate(userID)
	s.metrics.IncrementCounter("ledger_operation", map[string]string{"resource": models.AuditResourceExpense, "operation": models.AuditActionPaidToggled})

	return expense, nil
}

func (s *ExpenseService) DeleteExpense(id, userID uuid.UUID, ipAddress, userAgent string) error {
	if err := s.expenseRepo.Delete(id, userID); err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	s.auditService.Record(auditEntry(userID, models.AuditActionDelete, models.AuditResourceExpense, id.String(), ipAddress, userAgent))
	s.dashboards.Invalidate(userID)
	s.metrics.IncrementCounter("ledger_operation", map[string]string{"resource": models.AuditResourceExpense, "operation": models.AuditActionDelete})
	return nil
}

// apply copies the request onto expense and validates the result. A paid
// expense without a paid date is stamped with today.
func (s *ExpenseService) apply(expense *models.Expense, req *dto.ExpenseRequest) error {
	expenseType := entryTypeOrDefault(req.ExpenseType)
	fields, err := ledgerFields(&req.LedgerEntryRequest, expenseType)
	if err != nil {
		return err
	}
	if err := ensureCategory(s.categoryRepo, fields.CategoryID); err != nil {
		return err
	}

	fields.ID = expense.ID
	fields.UserID = expense.UserID
	fields.CreatedAt = expense.CreatedAt
	expense.LedgerEntry = fields
	expense.ExpenseType = expenseType
	expense.Category = nil

	expense.Paid = req.Paid
	expense.PaidDate = nil
	if req.Paid {
		paidOn := today(s.now())
		if req.PaidDate != nil && *req.PaidDate != "" {
			d, err := time.Parse(dateLayout, *req.PaidDate)
			if err != nil {
				return invalidEntry("paid_date %q is not YYYY-MM-DD", *req.PaidDate)
			}
			paidOn = d
		}
		expense.PaidDate = &paidOn
	}

	if err := expense.Validate(); err != nil {
		return invalidEntry("%v", err)
	}
	return nil
}

func (s *ExpenseService) afterWrite(expense *models.Expense, action, ipAddress, userAgent string) {
	s.auditService.Record(auditEntry(expense.UserID, action, models.AuditResourceExpense, expense.ID.String(), ipAddress, userAgent))
	s.dashboards.Invalidate(expense.UserID)
	s.metrics.IncrementCounter("ledger_operation", map[string]string{"resource": models.AuditResourceExpense, "operation": action})
	s.logger.Debug("expense saved", "expense_id", expense.ID, "user_id", expense.UserID, "action", action)
}
