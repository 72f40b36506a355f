package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contas/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrExpenseNotFound = errors.New("expense not found")

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	db    *gorm.DB
	store ledgerStore[models.Expense]
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepositoryInterface {
	return &ExpenseRepository{
		db: db,
		store: ledgerStore[models.Expense]{
			db:         db,
			kind:       "expense",
			typeColumn: "expense_type",
			notFound:   ErrExpenseNotFound,
		},
	}
}

func (r *ExpenseRepository) Create(expense *models.Expense) error {
	return r.store.create(expense)
}

func (r *ExpenseRepository) CreateBatch(expenses []models.Expense) error {
	return r.store.createBatch(expenses)
}

// GetByID returns the expense only when it belongs to userID
func (r *ExpenseRepository) GetByID(id, userID uuid.UUID) (*models.Expense, error) {
	return r.store.get(id, userID)
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters models.LedgerFilters) ([]models.Expense, error) {
	return r.store.list(ctx, userID, filters)
}

func (r *ExpenseRepository) Update(expense *models.Expense) error {
	return r.store.update(expense)
}

// UpdatePaid persists only the paid flag and paid date
func (r *ExpenseRepository) UpdatePaid(expense *models.Expense) error {
	if expense == nil {
		return errors.New("expense cannot be nil")
	}

	updates := map[string]interface{}{
		"paid":       expense.Paid,
		"paid_date":  expense.PaidDate,
		"updated_at": time.Now(),
	}

	result := r.db.Model(&models.Expense{}).
		Where("id = ? AND user_id = ?", expense.ID, expense.UserID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update paid status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(id, userID uuid.UUID) error {
	return r.store.delete(id, userID)
}
