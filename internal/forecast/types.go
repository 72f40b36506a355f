package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tags the variant of an expense or income.
type TransactionType string

const (
	TypeOneTime     TransactionType = "ONE_TIME"
	TypeRecurring   TransactionType = "RECURRING"
	TypeInstallment TransactionType = "INSTALLMENT"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeOneTime, TypeRecurring, TypeInstallment:
		return true
	}
	return false
}

type RecurrencePeriod string

const (
	PeriodDaily   RecurrencePeriod = "DAILY"
	PeriodMonthly RecurrencePeriod = "MONTHLY"
	PeriodYearly  RecurrencePeriod = "YEARLY"
)

func (p RecurrencePeriod) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// UpcomingWindowDays is the calendar-day look-ahead for upcoming expenses.
const UpcomingWindowDays = 30

// RecentLimit is the number of records kept in the recent lists.
const RecentLimit = 5

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Recurrence is the payload of a RECURRING record. NextDueDate is zero when
// unknown, which is only acceptable for incomes.
type Recurrence struct {
	Period      RecurrencePeriod `json:"recurrence_period,omitempty"`
	NextDueDate time.Time        `json:"next_due_date"`
}

// Installment is the payload of an INSTALLMENT record. Current is 1-based.
type Installment struct {
	Current int             `json:"current_installment"`
	Total   int             `json:"total_installments"`
	Value   decimal.Decimal `json:"installment_value"`
}

// Expense is an outflow. A zero Date means the record has no anchor date.
type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CategoryID  string          `json:"category,omitempty"`
	Type        TransactionType `json:"expense_type"`
	Recurrence  *Recurrence     `json:"recurrence,omitempty"`
	Installment *Installment    `json:"installment,omitempty"`
	Paid        bool            `json:"paid"`
	PaidDate    *time.Time      `json:"paid_date,omitempty"`
}

// Income is an inflow.
type Income struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CategoryID  string          `json:"category,omitempty"`
	Type        TransactionType `json:"income_type"`
	Recurrence  *Recurrence     `json:"recurrence,omitempty"`
	Installment *Installment    `json:"installment,omitempty"`
}

// Snapshot is the immutable input of a computation. The engine never
// modifies the slices it receives.
type Snapshot struct {
	Expenses   []Expense  `json:"expenses"`
	Incomes    []Income   `json:"incomes"`
	Categories []Category `json:"categories"`
}

type CategoryTotal struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
}

// ForecastItem is one line of a month's forecast details.
type ForecastItem struct {
	RecordID    string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Installment string          `json:"installment,omitempty"`
}

type ForecastDetails struct {
	Recurring    []ForecastItem `json:"recurring"`
	Installments []ForecastItem `json:"installments"`
	OneTime      []ForecastItem `json:"one_time"`
	Incomes      []ForecastItem `json:"incomes"`
}

// MonthlyForecast holds the expected flows for one calendar month.
type MonthlyForecast struct {
	Month            string          `json:"month"`
	Year             int             `json:"year"`
	MonthNumber      int             `json:"month_number"`
	ExpectedIncomes  decimal.Decimal `json:"expected_incomes"`
	ExpectedExpenses decimal.Decimal `json:"expected_expenses"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
	Details          ForecastDetails `json:"details"`
}

// Dashboard is the aggregate result of ComputeDashboard.
type Dashboard struct {
	TotalExpenses      decimal.Decimal   `json:"total_expenses"`
	TotalIncomes       decimal.Decimal   `json:"total_incomes"`
	Balance            decimal.Decimal   `json:"balance"`
	PaidExpenses       decimal.Decimal   `json:"paid_expenses"`
	UnpaidExpenses     decimal.Decimal   `json:"unpaid_expenses"`
	OverdueExpenses    decimal.Decimal   `json:"overdue_expenses"`
	UpcomingExpenses   decimal.Decimal   `json:"upcoming_expenses"`
	CategoriesCount    int               `json:"categories_count"`
	RecentExpenses     []Expense         `json:"recent_expenses"`
	RecentIncomes      []Income          `json:"recent_incomes"`
	ExpensesByCategory []CategoryTotal   `json:"expenses_by_category"`
	IncomesByCategory  []CategoryTotal   `json:"incomes_by_category"`
	MonthlyForecasts   []MonthlyForecast `json:"monthly_forecasts"`
	Diagnostics        []Diagnostic      `json:"diagnostics"`
}
