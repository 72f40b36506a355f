// Package forecast computes dashboard aggregates and a month-by-month
// projection of expenses and incomes. It performs no I/O and keeps no state;
// every call works on the snapshot it is given.
package forecast

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const displayPlaces = 2

// ComputeDashboard aggregates the snapshot as seen at now and projects
// horizonMonths calendar months starting with the month that contains now.
// Malformed records are excluded and reported in Dashboard.Diagnostics.
func ComputeDashboard(s Snapshot, now time.Time, horizonMonths int) Dashboard {
	categories, diags := indexCategories(s.Categories)
	expenses, incomes, recordDiags := screen(s, categories)
	diags = append(diags, recordDiags...)

	d := Dashboard{
		CategoriesCount: len(categories),
		RecentExpenses:  recentExpenses(expenses),
		RecentIncomes:   recentIncomes(incomes),
	}

	var totalInc, paid, unpaid, overdue, upcoming decimal.Decimal
	expByCat := make(map[string]decimal.Decimal, len(categories))
	incByCat := make(map[string]decimal.Decimal, len(categories))
	horizon := now.AddDate(0, 0, UpcomingWindowDays)

	for _, e := range expenses {
		if e.Paid {
			paid = paid.Add(e.Amount)
		} else {
			unpaid = unpaid.Add(e.Amount)
			if e.Date.Before(now) {
				overdue = overdue.Add(e.Amount)
			}
		}

		due := e.Date
		if e.Type == TypeRecurring {
			due = e.Recurrence.NextDueDate
		}
		if due.After(now) && !due.After(horizon) {
			upcoming = upcoming.Add(e.Amount)
		}

		if _, ok := categories[e.CategoryID]; ok && e.CategoryID != "" {
			expByCat[e.CategoryID] = expByCat[e.CategoryID].Add(e.Amount)
		}
	}

	for _, i := range incomes {
		totalInc = totalInc.Add(i.Amount)
		if _, ok := categories[i.CategoryID]; ok && i.CategoryID != "" {
			incByCat[i.CategoryID] = incByCat[i.CategoryID].Add(i.Amount)
		}
	}

	// Amounts were rounded per record by screen, so these sums are exact.
	d.PaidExpenses = paid
	d.UnpaidExpenses = unpaid
	d.TotalExpenses = paid.Add(unpaid)
	d.TotalIncomes = totalInc.Round(displayPlaces)
	d.Balance = d.TotalIncomes.Sub(d.TotalExpenses)
	d.OverdueExpenses = overdue.Round(displayPlaces)
	d.UpcomingExpenses = upcoming.Round(displayPlaces)
	d.ExpensesByCategory = categoryTotals(s.Categories, categories, expByCat)
	d.IncomesByCategory = categoryTotals(s.Categories, categories, incByCat)

	d.MonthlyForecasts = make([]MonthlyForecast, 0, max(horizonMonths, 0))
	if horizonMonths <= 0 {
		diags = append(diags, Diagnostic{
			Kind:    KindSnapshot,
			Code:    CodeInvalidHorizon,
			Field:   "horizon_months",
			Message: fmt.Sprintf("horizon must be positive, got %d", horizonMonths),
		})
	}

	current := monthOf(now)
	for i := 0; i < horizonMonths; i++ {
		d.MonthlyForecasts = append(d.MonthlyForecasts, forecastMonth(current.add(i), current, expenses, incomes))
	}

	if diags == nil {
		diags = []Diagnostic{}
	}
	d.Diagnostics = diags
	return d
}

// ForecastForMonth projects the calendar month containing baseDate. Records
// are screened the same way ComputeDashboard screens them: malformed records
// and repeated ids are skipped. Without categories no reference is stale.
func ForecastForMonth(baseDate time.Time, expenses []Expense, incomes []Income, now time.Time) MonthlyForecast {
	validExp, validInc, _ := screen(Snapshot{Expenses: expenses, Incomes: incomes}, nil)
	return forecastMonth(monthOf(baseDate), monthOf(now), validExp, validInc)
}

// forecastMonth expects records that already went through screen.
func forecastMonth(target, current monthIndex, expenses []Expense, incomes []Income) MonthlyForecast {
	f := MonthlyForecast{
		Month:       target.label(),
		Year:        target.year(),
		MonthNumber: int(target.month()),
		Details: ForecastDetails{
			Recurring:    []ForecastItem{},
			Installments: []ForecastItem{},
			OneTime:      []ForecastItem{},
			Incomes:      []ForecastItem{},
		},
	}

	var expected decimal.Decimal
	for _, e := range expenses {
		paid := e.Paid
		// Recurring payments only settle the current cycle.
		if paid && e.Type == TypeRecurring && target != current {
			paid = false
		}
		if paid {
			continue
		}

		switch e.Type {
		case TypeRecurring:
			due := e.Recurrence.NextDueDate
			if target >= current && target <= monthOf(due) {
				expected = expected.Add(e.Amount)
				f.Details.Recurring = append(f.Details.Recurring, ForecastItem{
					RecordID:    e.ID,
					Description: e.Description,
					Amount:      e.Amount,
					Date:        due,
				})
			}
		case TypeInstallment:
			in := e.Installment
			month := monthOf(e.Date).add(in.Current - 1)
			if month == target && in.Current <= in.Total {
				expected = expected.Add(in.Value)
				f.Details.Installments = append(f.Details.Installments, ForecastItem{
					RecordID:    e.ID,
					Description: e.Description,
					Amount:      in.Value,
					Date:        dueIn(e.Date, month),
					Installment: fmt.Sprintf("%d/%d", in.Current, in.Total),
				})
			}
		default:
			if monthOf(e.Date) == target {
				expected = expected.Add(e.Amount)
				f.Details.OneTime = append(f.Details.OneTime, ForecastItem{
					RecordID:    e.ID,
					Description: e.Description,
					Amount:      e.Amount,
					Date:        e.Date,
				})
			}
		}
	}

	var income decimal.Decimal
	for _, i := range incomes {
		start := monthOf(i.Date)
		include := start == target
		if i.Type == TypeRecurring {
			include = start <= target
		}
		if !include {
			continue
		}
		income = income.Add(i.Amount)
		f.Details.Incomes = append(f.Details.Incomes, ForecastItem{
			RecordID:    i.ID,
			Description: i.Description,
			Amount:      i.Amount,
			Date:        i.Date,
		})
	}

	f.ExpectedExpenses = expected.Round(displayPlaces)
	f.ExpectedIncomes = income.Round(displayPlaces)
	f.ProjectedBalance = f.ExpectedIncomes.Sub(f.ExpectedExpenses)
	return f
}

func indexCategories(list []Category) (map[string]Category, []Diagnostic) {
	index := make(map[string]Category, len(list))
	var diags []Diagnostic
	for _, c := range list {
		if _, dup := index[c.ID]; dup {
			diags = append(diags, Diagnostic{
				RecordID: c.ID,
				Kind:     KindCategory,
				Code:     CodeDuplicateRecordID,
				Field:    "id",
				Message:  "category id appears more than once",
			})
			continue
		}
		index[c.ID] = c
	}
	return index, diags
}

// screen rounds amounts to cents, drops malformed and duplicate records and
// flags stale category references. Stale records are kept. A nil categories
// map disables the stale check. Rounded records are copies; the snapshot is
// left untouched.
func screen(s Snapshot, categories map[string]Category) ([]Expense, []Income, []Diagnostic) {
	seen := make(map[string]RecordKind, len(s.Expenses)+len(s.Incomes))
	diags := []Diagnostic{}

	admit := func(kind RecordKind, id, categoryID string) bool {
		if prev, dup := seen[id]; dup && id != "" {
			diags = append(diags, Diagnostic{
				RecordID: id,
				Kind:     kind,
				Code:     CodeDuplicateRecordID,
				Field:    "id",
				Message:  fmt.Sprintf("id already used by another %s", prev),
			})
			return false
		}
		seen[id] = kind
		if categoryID == "" || categories == nil {
			return true
		}
		if _, ok := categories[categoryID]; !ok {
			diags = append(diags, Diagnostic{
				RecordID: id,
				Kind:     kind,
				Code:     CodeStaleCategory,
				Field:    "category",
				Message:  fmt.Sprintf("category %q does not exist, treated as uncategorized", categoryID),
			})
		}
		return true
	}

	expenses := make([]Expense, 0, len(s.Expenses))
	for _, e := range s.Expenses {
		e.Amount = e.Amount.Round(displayPlaces)
		e.Installment = roundInstallment(e.Installment)
		if d, bad := checkExpense(e); bad {
			diags = append(diags, d)
			continue
		}
		if admit(KindExpense, e.ID, e.CategoryID) {
			expenses = append(expenses, e)
		}
	}

	incomes := make([]Income, 0, len(s.Incomes))
	for _, i := range s.Incomes {
		i.Amount = i.Amount.Round(displayPlaces)
		i.Installment = roundInstallment(i.Installment)
		if d, bad := checkIncome(i); bad {
			diags = append(diags, d)
			continue
		}
		if admit(KindIncome, i.ID, i.CategoryID) {
			incomes = append(incomes, i)
		}
	}

	return expenses, incomes, diags
}

func roundInstallment(in *Installment) *Installment {
	if in == nil {
		return nil
	}
	c := *in
	c.Value = c.Value.Round(displayPlaces)
	return &c
}

func categoryTotals(order []Category, index map[string]Category, sums map[string]decimal.Decimal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(index))
	emitted := make(map[string]bool, len(index))
	for _, c := range order {
		if emitted[c.ID] {
			continue
		}
		emitted[c.ID] = true
		out = append(out, CategoryTotal{
			CategoryID: c.ID,
			Name:       index[c.ID].Name,
			Total:      sums[c.ID].Round(displayPlaces),
		})
	}
	return out
}

func recentExpenses(list []Expense) []Expense {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b Expense) int { return b.Date.Compare(a.Date) })
	return sorted[:min(len(sorted), RecentLimit)]
}

func recentIncomes(list []Income) []Income {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b Income) int { return b.Date.Compare(a.Date) })
	return sorted[:min(len(sorted), RecentLimit)]
}
