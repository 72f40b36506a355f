package repositories

import (
	"context"
	"errors"

	"contas/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrIncomeNotFound = errors.New("income not found")

type IncomeRepository struct {
	store ledgerStore[models.Income]
}

func NewIncomeRepository(db *gorm.DB) IncomeRepositoryInterface {
	return &IncomeRepository{
		store: ledgerStore[models.Income]{
			db:         db,
			kind:       "income",
			typeColumn: "income_type",
			notFound:   ErrIncomeNotFound,
		},
	}
}

func (r *IncomeRepository) Create(income *models.Income) error {
	return r.store.create(income)
}

func (r *IncomeRepository) CreateBatch(incomes []models.Income) error {
	return r.store.createBatch(incomes)
}

func (r *IncomeRepository) GetByID(id, userID uuid.UUID) (*models.Income, error) {
	return r.store.get(id, userID)
}

func (r *IncomeRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters models.LedgerFilters) ([]models.Income, error) {
	return r.store.list(ctx, userID, filters)
}

func (r *IncomeRepository) Update(income *models.Income) error {
	return r.store.update(income)
}

func (r *IncomeRepository) Delete(id, userID uuid.UUID) error {
	return r.store.delete(id, userID)
}
