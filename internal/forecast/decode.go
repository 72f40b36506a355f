package forecast

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// RawValue keeps the textual form of a JSON scalar that may arrive either
// quoted or bare, e.g. amounts ("12.50" or 12.5) and ids ("7" or 7).
// Anything else is kept verbatim and rejected when converted.
type RawValue string

func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	*v = RawValue(data)
	return nil
}

type RawCategory struct {
	ID          RawValue `json:"id"`
	Name        RawValue `json:"name"`
	Description RawValue `json:"description"`
}

// RawExpense is an expense as exchanged over the REST API. Every scalar is a
// RawValue so a mistyped field fails its record instead of the whole body.
type RawExpense struct {
	ID                 RawValue `json:"id"`
	Description        RawValue `json:"description"`
	Amount             RawValue `json:"amount"`
	Date               RawValue `json:"date"`
	Category           RawValue `json:"category"`
	ExpenseType        RawValue `json:"expense_type"`
	RecurrencePeriod   RawValue `json:"recurrence_period"`
	NextDueDate        RawValue `json:"next_due_date"`
	TotalInstallments  RawValue `json:"total_installments"`
	CurrentInstallment RawValue `json:"current_installment"`
	InstallmentValue   RawValue `json:"installment_value"`
	Paid               RawValue `json:"paid"`
	PaidDate           RawValue `json:"paid_date"`
}

type RawIncome struct {
	ID                 RawValue `json:"id"`
	Description        RawValue `json:"description"`
	Amount             RawValue `json:"amount"`
	Date               RawValue `json:"date"`
	Category           RawValue `json:"category"`
	IncomeType         RawValue `json:"income_type"`
	RecurrencePeriod   RawValue `json:"recurrence_period"`
	NextDueDate        RawValue `json:"next_due_date"`
	TotalInstallments  RawValue `json:"total_installments"`
	CurrentInstallment RawValue `json:"current_installment"`
	InstallmentValue   RawValue `json:"installment_value"`
}

type RawSnapshot struct {
	Expenses   []RawExpense  `json:"expenses"`
	Incomes    []RawIncome   `json:"incomes"`
	Categories []RawCategory `json:"categories"`
}

// DecodeSnapshot converts wire records into engine records. Records with an
// unparseable amount, date, counter or flag are dropped and reported; structural checks
// are left to ComputeDashboard.
func DecodeSnapshot(raw RawSnapshot) (Snapshot, []Diagnostic) {
	s := Snapshot{
		Expenses:   make([]Expense, 0, len(raw.Expenses)),
		Incomes:    make([]Income, 0, len(raw.Incomes)),
		Categories: make([]Category, 0, len(raw.Categories)),
	}
	var diags []Diagnostic

	for _, c := range raw.Categories {
		s.Categories = append(s.Categories, Category{
			ID:          string(c.ID),
			Name:        string(c.Name),
			Description: string(c.Description),
		})
	}

	for _, r := range raw.Expenses {
		p := recordParser{kind: KindExpense, id: string(r.ID)}
		e := Expense{
			ID:          p.id,
			Description: string(r.Description),
			Amount:      p.decimal("amount", r.Amount),
			Date:        p.date("date", r.Date),
			CategoryID:  string(r.Category),
			Type:        normalizeType(string(r.ExpenseType)),
			Paid:        p.boolean("paid", r.Paid),
		}
		e.Recurrence = p.recurrence(e.Type, r.RecurrencePeriod, r.NextDueDate)
		e.Installment = p.installment(e.Type, r.CurrentInstallment, r.TotalInstallments, r.InstallmentValue)
		if r.PaidDate != "" {
			pd := p.date("paid_date", r.PaidDate)
			e.PaidDate = &pd
		}
		if p.failed != nil {
			diags = append(diags, *p.failed)
			continue
		}
		s.Expenses = append(s.Expenses, e)
	}

	for _, r := range raw.Incomes {
		p := recordParser{kind: KindIncome, id: string(r.ID)}
		i := Income{
			ID:          p.id,
			Description: string(r.Description),
			Amount:      p.decimal("amount", r.Amount),
			Date:        p.date("date", r.Date),
			CategoryID:  string(r.Category),
			Type:        normalizeType(string(r.IncomeType)),
		}
		i.Recurrence = p.recurrence(i.Type, r.RecurrencePeriod, r.NextDueDate)
		i.Installment = p.installment(i.Type, r.CurrentInstallment, r.TotalInstallments, r.InstallmentValue)
		if p.failed != nil {
			diags = append(diags, *p.failed)
			continue
		}
		s.Incomes = append(s.Incomes, i)
	}

	return s, diags
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
// Calendar dates are placed at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func normalizeType(value string) TransactionType {
	v := strings.ToUpper(strings.TrimSpace(value))
	switch v {
	case "", "ONETIME":
		return TypeOneTime
	}
	return TransactionType(v)
}

// recordParser remembers the first conversion failure of a record.
type recordParser struct {
	kind   RecordKind
	id     string
	failed *Diagnostic
}

func (p *recordParser) fail(field, format string, args ...any) {
	if p.failed != nil {
		return
	}
	d := malformed(p.kind, p.id, field, format, args...)
	p.failed = &d
}

func (p *recordParser) decimal(field string, v RawValue) decimal.Decimal {
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(string(v)))
	if err != nil {
		p.fail(field, "%s %q is not a number", field, string(v))
		return decimal.Zero
	}
	return d
}

func (p *recordParser) date(field string, v RawValue) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := ParseDate(string(v))
	if err != nil {
		p.fail(field, "%s %q is not a valid date", field, string(v))
		return time.Time{}
	}
	return t
}

func (p *recordParser) integer(field string, v RawValue, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil {
		p.fail(field, "%s %q is not an integer", field, string(v))
		return def
	}
	return n
}

func (p *recordParser) boolean(field string, v RawValue) bool {
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(string(v)))
	if err != nil {
		p.fail(field, "%s %q is not a boolean", field, string(v))
		return false
	}
	return b
}

func (p *recordParser) recurrence(t TransactionType, period, next RawValue) *Recurrence {
	if t != TypeRecurring {
		return nil
	}
	return &Recurrence{
		Period:      RecurrencePeriod(strings.ToUpper(string(period))),
		NextDueDate: p.date("next_due_date", next),
	}
}

func (p *recordParser) installment(t TransactionType, current, total, value RawValue) *Installment {
	if t != TypeInstallment {
		return nil
	}
	return &Installment{
		Current: p.integer("current_installment", current, 1),
		Total:   p.integer("total_installments", total, 0),
		Value:   p.decimal("installment_value", value),
	}
}
