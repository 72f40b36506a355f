package models

import (
	"time"

	"contas/internal/forecast"

	"gorm.io/gorm"
)

// Expense is money the user owes or has spent.
type Expense struct {
	LedgerEntry
	ExpenseType string     `gorm:"type:varchar(20);not null;default:'ONE_TIME'" json:"expense_type"`
	Paid        bool       `gorm:"not null;default:false" json:"paid"`
	PaidDate    *time.Time `gorm:"type:date" json:"paid_date,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	e.prepare()
	if e.ExpenseType == "" {
		e.ExpenseType = TransactionTypeOneTime
	}
	return e.Validate()
}

func (e *Expense) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	e.UpdatedAt = time.Now()
	return e.Validate()
}

func (e *Expense) Validate() error {
	if err := e.validate(e.ExpenseType); err != nil {
		return err
	}
	if e.Paid != (e.PaidDate != nil) {
		return ErrPaidDateMismatch
	}
	return nil
}

// MarkPaid flips the paid flag. Paying stamps the paid date with on,
// un-paying clears it.
func (e *Expense) MarkPaid(paid bool, on time.Time) {
	e.Paid = paid
	if !paid {
		e.PaidDate = nil
		return
	}
	d := time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)
	e.PaidDate = &d
}

func (e *Expense) ToForecast() forecast.Expense {
	return forecast.Expense{
		ID:          e.ID.String(),
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		CategoryID:  e.categoryRef(),
		Type:        forecast.TransactionType(e.ExpenseType),
		Recurrence:  e.recurrence(e.ExpenseType),
		Installment: e.installment(e.ExpenseType),
		Paid:        e.Paid,
		PaidDate:    e.PaidDate,
	}
}

func (e *Expense) TableName() string {
	return "expenses"
}
