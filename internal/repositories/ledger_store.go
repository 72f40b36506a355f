package repositories

import (
	"context"
	"errors"
	"fmt"

	"contas/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 100

// ledgerStore implements the user-scoped persistence shared by expenses and
// incomes. T is models.Expense or models.Income.
type ledgerStore[T any] struct {
	db         *gorm.DB
	kind       string
	typeColumn string
	notFound   error
}

func (s ledgerStore[T]) create(entry *T) error {
	if entry == nil {
		return fmt.Errorf("%s cannot be nil", s.kind)
	}
	if err := s.db.Omit(clause.Associations).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", s.kind, err)
	}
	return nil
}

func (s ledgerStore[T]) createBatch(entries []T) error {
	if len(entries) == 0 {
		return nil
	}
	if err := s.db.Omit(clause.Associations).CreateInBatches(entries, batchSize).Error; err != nil {
		return fmt.Errorf("failed to create %s batch: %w", s.kind, err)
	}
	return nil
}

func (s ledgerStore[T]) get(id, userID uuid.UUID) (*T, error) {
	entry := new(T)
	err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.kind, err)
	}
	return entry, nil
}

// list returns the user's entries newest first
func (s ledgerStore[T]) list(ctx context.Context, userID uuid.UUID, filters models.LedgerFilters) ([]T, error) {
	query := s.db.WithContext(ctx).Preload("Category").Where("user_id = ?", userID)

	if filters.Type != "" {
		query = query.Where(s.typeColumn+" = ?", filters.Type)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Paid != nil {
		query = query.Where("paid = ?", *filters.Paid)
	}
	if filters.StartDate != nil {
		query = query.Where("date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("date <= ?", *filters.EndDate)
	}

	var entries []T
	if err := query.Order("date DESC").Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", s.kind, err)
	}
	return entries, nil
}

func (s ledgerStore[T]) update(entry *T) error {
	if entry == nil {
		return fmt.Errorf("%s cannot be nil", s.kind)
	}
	if err := s.db.Omit(clause.Associations).Save(entry).Error; err != nil {
		return fmt.Errorf("failed to update %s: %w", s.kind, err)
	}
	return nil
}

func (s ledgerStore[T]) delete(id, userID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", s.kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return s.notFound
	}
	return nil
}
