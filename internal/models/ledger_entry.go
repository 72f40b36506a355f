package models

import (
	"errors"
	"time"

	"contas/internal/forecast"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeOneTime     = string(forecast.TypeOneTime)
	TransactionTypeRecurring   = string(forecast.TypeRecurring)
	TransactionTypeInstallment = string(forecast.TypeInstallment)

	RecurrenceDaily   = string(forecast.PeriodDaily)
	RecurrenceMonthly = string(forecast.PeriodMonthly)
	RecurrenceYearly  = string(forecast.PeriodYearly)
)

var (
	ErrInvalidTransactionType     = errors.New("invalid transaction type")
	ErrInvalidRecurrencePeriod    = errors.New("invalid recurrence period")
	ErrInvalidAmount              = errors.New("amount must be positive")
	ErrDescriptionRequired        = errors.New("description is required")
	ErrDateRequired               = errors.New("date is required")
	ErrRecurrenceRequired         = errors.New("recurrence period and next due date are required for recurring entries")
	ErrInstallmentRequired        = errors.New("total installments and installment value are required for installment entries")
	ErrInvalidInstallmentCounters = errors.New("current installment must be between 1 and total installments")
	ErrInvalidInstallmentValue    = errors.New("installment value must be positive")
	ErrPaidDateMismatch           = errors.New("paid date must be set exactly when the expense is paid")
)

// IsValidTransactionType accepts ONE_TIME, RECURRING and INSTALLMENT.
func IsValidTransactionType(t string) bool {
	return forecast.TransactionType(t).IsValid()
}

func IsValidRecurrencePeriod(p string) bool {
	return forecast.RecurrencePeriod(p).IsValid()
}

// LedgerEntry holds the columns shared by expenses and incomes.
type LedgerEntry struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID         *uuid.UUID          `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Amount             decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description        string              `gorm:"type:varchar(200);not null" json:"description"`
	Date               time.Time           `gorm:"type:date;not null;index" json:"date"`
	RecurrencePeriod   *string             `gorm:"type:varchar(10)" json:"recurrence_period,omitempty"`
	NextDueDate        *time.Time          `gorm:"type:date" json:"next_due_date,omitempty"`
	TotalInstallments  *int                `json:"total_installments,omitempty"`
	CurrentInstallment *int                `json:"current_installment,omitempty"`
	InstallmentValue   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"installment_value,omitempty"`
	CreatedAt          time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"not null" json:"updated_at"`
}

func (e *LedgerEntry) prepare() {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
}

// validate applies the per-type rules. Installment entries without a current
// installment start at 1.
func (e *LedgerEntry) validate(entryType string) error {
	if !IsValidTransactionType(entryType) {
		return ErrInvalidTransactionType
	}
	if e.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if e.Description == "" {
		return ErrDescriptionRequired
	}
	if e.Date.IsZero() {
		return ErrDateRequired
	}

	switch entryType {
	case TransactionTypeRecurring:
		if e.RecurrencePeriod == nil || e.NextDueDate == nil {
			return ErrRecurrenceRequired
		}
		if !IsValidRecurrencePeriod(*e.RecurrencePeriod) {
			return ErrInvalidRecurrencePeriod
		}
	case TransactionTypeInstallment:
		if e.TotalInstallments == nil || !e.InstallmentValue.Valid {
			return ErrInstallmentRequired
		}
		if e.CurrentInstallment == nil {
			one := 1
			e.CurrentInstallment = &one
		}
		if *e.CurrentInstallment < 1 || *e.CurrentInstallment > *e.TotalInstallments {
			return ErrInvalidInstallmentCounters
		}
		if !e.InstallmentValue.Decimal.IsPositive() {
			return ErrInvalidInstallmentValue
		}
	}
	return nil
}

func (e *LedgerEntry) categoryRef() string {
	if e.CategoryID == nil {
		return ""
	}
	return e.CategoryID.String()
}

func (e *LedgerEntry) recurrence(entryType string) *forecast.Recurrence {
	if entryType != TransactionTypeRecurring {
		return nil
	}
	r := &forecast.Recurrence{}
	if e.RecurrencePeriod != nil {
		r.Period = forecast.RecurrencePeriod(*e.RecurrencePeriod)
	}
	if e.NextDueDate != nil {
		r.NextDueDate = *e.NextDueDate
	}
	return r
}

func (e *LedgerEntry) installment(entryType string) *forecast.Installment {
	if entryType != TransactionTypeInstallment {
		return nil
	}
	in := &forecast.Installment{Current: 1, Value: e.InstallmentValue.Decimal}
	if e.CurrentInstallment != nil {
		in.Current = *e.CurrentInstallment
	}
	if e.TotalInstallments != nil {
		in.Total = *e.TotalInstallments
	}
	return in
}

// LedgerFilters narrows expense and income listings.
type LedgerFilters struct {
	Type       string
	CategoryID *uuid.UUID
	Paid       *bool
	StartDate  *time.Time
	EndDate    *time.Time
}
