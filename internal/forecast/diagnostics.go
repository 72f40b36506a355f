package forecast

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DiagnosticCode string

const (
	CodeMalformedRecord   DiagnosticCode = "MALFORMED_RECORD"
	CodeStaleCategory     DiagnosticCode = "STALE_CATEGORY_REFERENCE"
	CodeInvalidHorizon    DiagnosticCode = "INVALID_HORIZON"
	CodeDuplicateRecordID DiagnosticCode = "DUPLICATE_RECORD_ID"
)

type RecordKind string

const (
	KindExpense  RecordKind = "expense"
	KindIncome   RecordKind = "income"
	KindCategory RecordKind = "category"
	KindSnapshot RecordKind = "snapshot"
)

// Diagnostic reports a data-quality problem found while computing.
// Only MALFORMED_RECORD and DUPLICATE_RECORD_ID exclude the record.
type Diagnostic struct {
	RecordID string         `json:"record_id,omitempty"`
	Kind     RecordKind     `json:"kind"`
	Code     DiagnosticCode `json:"code"`
	Field    string         `json:"field,omitempty"`
	Message  string         `json:"message"`
}

// Excludes reports whether the diagnosed record is dropped from aggregates.
func (d Diagnostic) Excludes() bool {
	return d.Code == CodeMalformedRecord || d.Code == CodeDuplicateRecordID
}

func malformed(kind RecordKind, id, field, format string, args ...any) Diagnostic {
	return Diagnostic{
		RecordID: id,
		Kind:     kind,
		Code:     CodeMalformedRecord,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	}
}

// checkExpense returns a diagnostic when e breaks a structural invariant.
func checkExpense(e Expense) (Diagnostic, bool) {
	if d, bad := checkCommon(KindExpense, e.ID, e.Amount, e.Date.IsZero(), e.Type); bad {
		return d, true
	}
	if e.Paid != (e.PaidDate != nil) {
		return malformed(KindExpense, e.ID, "paid_date", "paid is %t but paid date is %s", e.Paid, presence(e.PaidDate != nil)), true
	}
	switch e.Type {
	case TypeRecurring:
		if e.Recurrence == nil || e.Recurrence.NextDueDate.IsZero() {
			return malformed(KindExpense, e.ID, "next_due_date", "recurring expense has no next due date"), true
		}
	case TypeInstallment:
		return checkInstallment(KindExpense, e.ID, e.Installment)
	}
	return Diagnostic{}, false
}

func checkIncome(i Income) (Diagnostic, bool) {
	if d, bad := checkCommon(KindIncome, i.ID, i.Amount, i.Date.IsZero(), i.Type); bad {
		return d, true
	}
	if i.Type == TypeInstallment {
		return checkInstallment(KindIncome, i.ID, i.Installment)
	}
	return Diagnostic{}, false
}

func checkCommon(kind RecordKind, id string, amount decimal.Decimal, missingDate bool, t TransactionType) (Diagnostic, bool) {
	if !t.IsValid() {
		return malformed(kind, id, "type", "unknown transaction type %q", string(t)), true
	}
	if missingDate {
		return malformed(kind, id, "date", "record has no date"), true
	}
	if !amount.IsPositive() {
		return malformed(kind, id, "amount", "amount must be positive, got %s", amount.String()), true
	}
	return Diagnostic{}, false
}

func presence(set bool) string {
	if set {
		return "set"
	}
	return "missing"
}

func checkInstallment(kind RecordKind, id string, in *Installment) (Diagnostic, bool) {
	switch {
	case in == nil:
		return malformed(kind, id, "installment", "installment record has no installment data"), true
	case in.Current < 1:
		return malformed(kind, id, "current_installment", "current installment must be at least 1, got %d", in.Current), true
	case in.Total < in.Current:
		return malformed(kind, id, "total_installments", "total installments %d is lower than current installment %d", in.Total, in.Current), true
	case !in.Value.IsPositive():
		return malformed(kind, id, "installment_value", "installment value must be positive"), true
	}
	return Diagnostic{}, false
}
