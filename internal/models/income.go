package models

import (
	"time"

	"contas/internal/forecast"

	"gorm.io/gorm"
)

type Income struct {
	LedgerEntry
	IncomeType string `gorm:"type:varchar(20);not null;default:'ONE_TIME'" json:"income_type"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

func (i *Income) BeforeCreate(tx *gorm.DB) error {
	i.prepare()
	if i.IncomeType == "" {
		i.IncomeType = TransactionTypeOneTime
	}
	return i.Validate()
}

func (i *Income) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	i.UpdatedAt = time.Now()
	return i.Validate()
}

func (i *Income) Validate() error {
	return i.validate(i.IncomeType)
}

func (i *Income) ToForecast() forecast.Income {
	return forecast.Income{
		ID:          i.ID.String(),
		Description: i.Description,
		Amount:      i.Amount,
		Date:        i.Date,
		CategoryID:  i.categoryRef(),
		Type:        forecast.TransactionType(i.IncomeType),
		Recurrence:  i.recurrence(i.IncomeType),
		Installment: i.installment(i.IncomeType),
	}
}

func (i *Income) TableName() string {
	return "incomes"
}
