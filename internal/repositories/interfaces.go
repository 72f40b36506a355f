package repositories

import (
	"context"

	"contas/internal/models"

	"github.com/google/uuid"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	UpdateLoginState(user *models.User) error
}

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(category *models.Category) error
	Delete(id uuid.UUID) error
	Exists(id uuid.UUID) (bool, error)
}

// ExpenseRepositoryInterface defines the contract for expense repository operations.
// Every read and write is scoped to the owning user.
type ExpenseRepositoryInterface interface {
	Create(expense *models.Expense) error
	CreateBatch(expenses []models.Expense) error
	GetByID(id, userID uuid.UUID) (*models.Expense, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filters models.LedgerFilters) ([]models.Expense, error)
	Update(expense *models.Expense) error
	UpdatePaid(expense *models.Expense) error
	Delete(id, userID uuid.UUID) error
}

// IncomeRepositoryInterface defines the contract for income repository operations
type IncomeRepositoryInterface interface {
	Create(income *models.Income) error
	CreateBatch(incomes []models.Income) error
	GetByID(id, userID uuid.UUID) (*models.Income, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filters models.LedgerFilters) ([]models.Income, error)
	Update(income *models.Income) error
	Delete(id, userID uuid.UUID) error
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
}
