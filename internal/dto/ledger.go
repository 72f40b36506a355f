package dto

import "time"

// CategoryRequest creates or replaces a category
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" validate:"max=50"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// LedgerEntryRequest holds the fields shared by expense and income requests.
// Amounts are decimal strings and dates are YYYY-MM-DD.
type LedgerEntryRequest struct {
	Description        string  `json:"description" validate:"required,max=200"`
	Amount             string  `json:"amount" validate:"required,decimal_amount"`
	Date               string  `json:"date" validate:"required,datetime=2006-01-02"`
	Category           *string `json:"category" validate:"omitempty,uuid"`
	RecurrencePeriod   *string `json:"recurrence_period" validate:"omitempty,recurrence_period"`
	NextDueDate        *string `json:"next_due_date" validate:"omitempty,datetime=2006-01-02"`
	TotalInstallments  *int    `json:"total_installments" validate:"omitempty,min=1"`
	CurrentInstallment *int    `json:"current_installment" validate:"omitempty,min=1"`
	InstallmentValue   *string `json:"installment_value" validate:"omitempty,decimal_amount"`
}

type ExpenseRequest struct {
	LedgerEntryRequest
	ExpenseType string  `json:"expense_type" validate:"omitempty,transaction_type"`
	Paid        bool    `json:"paid"`
	PaidDate    *string `json:"paid_date" validate:"omitempty,datetime=2006-01-02"`
}

type IncomeRequest struct {
	LedgerEntryRequest
	IncomeType string `json:"income_type" validate:"omitempty,transaction_type"`
}

// LedgerQuery filters expense and income listings
type LedgerQuery struct {
	Type      string `query:"type" validate:"omitempty,transaction_type"`
	Category  string `query:"category" validate:"omitempty,uuid"`
	Paid      string `query:"paid" validate:"omitempty,oneof=true false"`
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type LedgerEntryResponse struct {
	ID                 string    `json:"id"`
	User               string    `json:"user"`
	Category           *string   `json:"category"`
	CategoryName       string    `json:"category_name,omitempty"`
	Amount             string    `json:"amount"`
	Description        string    `json:"description"`
	Date               string    `json:"date"`
	RecurrencePeriod   *string   `json:"recurrence_period"`
	NextDueDate        *string   `json:"next_due_date"`
	TotalInstallments  *int      `json:"total_installments"`
	CurrentInstallment *int      `json:"current_installment"`
	InstallmentValue   *string   `json:"installment_value"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ExpenseResponse struct {
	LedgerEntryResponse
	ExpenseType string  `json:"expense_type"`
	Paid        bool    `json:"paid"`
	PaidDate    *string `json:"paid_date"`
}

type IncomeResponse struct {
	LedgerEntryResponse
	IncomeType string `json:"income_type"`
}

// SampleDataRequest asks for a generated ledger in development
type SampleDataRequest struct {
	Months          int `json:"months" validate:"omitempty,min=1,max=24"`
	Categories      int `json:"categories" validate:"omitempty,min=1,max=20"`
	EntriesPerMonth int `json:"entries_per_month" validate:"omitempty,min=1,max=50"`
}

type SampleDataResponse struct {
	Categories int `json:"categories"`
	Expenses   int `json:"expenses"`
	Incomes    int `json:"incomes"`
}
