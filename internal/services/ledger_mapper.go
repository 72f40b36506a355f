package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"contas/internal/dto"
	"contas/internal/models"
	"contas/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidLedgerEntry = errors.New("invalid ledger entry")
	ErrInvalidLedgerQuery = errors.New("invalid ledger query")
	ErrCategoryNotFound   = errors.New("category not found")
)

func invalidEntry(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidLedgerEntry, fmt.Sprintf(format, args...))
}

// ledgerFields converts the request fields shared by expenses and incomes.
// Recurrence and installment fields are kept only for their own entry type.
func ledgerFields(req *dto.LedgerEntryRequest, entryType string) (models.LedgerEntry, error) {
	var entry models.LedgerEntry

	if !models.IsValidTransactionType(entryType) {
		return entry, invalidEntry("unknown type %q", entryType)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return entry, invalidEntry("amount %q is not a decimal", req.Amount)
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return entry, invalidEntry("date %q is not YYYY-MM-DD", req.Date)
	}

	entry.Description = strings.TrimSpace(req.Description)
	entry.Amount = amount
	entry.Date = date

	if req.Category != nil && *req.Category != "" {
		id, err := uuid.Parse(*req.Category)
		if err != nil {
			return entry, invalidEntry("category %q is not a UUID", *req.Category)
		}
		entry.CategoryID = &id
	}

	switch entryType {
	case models.TransactionTypeRecurring:
		if req.RecurrencePeriod != nil {
			period := strings.ToUpper(*req.RecurrencePeriod)
			entry.RecurrencePeriod = &period
		}
		if req.NextDueDate != nil {
			due, err := time.Parse(dateLayout, *req.NextDueDate)
			if err != nil {
				return entry, invalidEntry("next_due_date %q is not YYYY-MM-DD", *req.NextDueDate)
			}
			entry.NextDueDate = &due
		}
	case models.TransactionTypeInstallment:
		entry.TotalInstallments = req.TotalInstallments
		entry.CurrentInstallment = req.CurrentInstallment
		if req.InstallmentValue != nil {
			value, err := decimal.NewFromString(strings.TrimSpace(*req.InstallmentValue))
			if err != nil {
				return entry, invalidEntry("installment_value %q is not a decimal", *req.InstallmentValue)
			}
			entry.InstallmentValue = decimal.NewNullDecimal(value)
		}
	}

	return entry, nil
}

// ledgerFilters converts list query parameters.
func ledgerFilters(query *dto.LedgerQuery) (models.LedgerFilters, error) {
	var filters models.LedgerFilters
	if query == nil {
		return filters, nil
	}

	if query.Type != "" {
		t := strings.ToUpper(query.Type)
		if !models.IsValidTransactionType(t) {
			return filters, fmt.Errorf("%w: unknown type %q", ErrInvalidLedgerQuery, query.Type)
		}
		filters.Type = t
	}
	if query.Category != "" {
		id, err := uuid.Parse(query.Category)
		if err != nil {
			return filters, fmt.Errorf("%w: category %q is not a UUID", ErrInvalidLedgerQuery, query.Category)
		}
		filters.CategoryID = &id
	}
	switch query.Paid {
	case "true":
		paid := true
		filters.Paid = &paid
	case "false":
		paid := false
		filters.Paid = &paid
	case "":
	default:
		return filters, fmt.Errorf("%w: paid must be true or false", ErrInvalidLedgerQuery)
	}
	if query.StartDate != "" {
		d, err := time.Parse(dateLayout, query.StartDate)
		if err != nil {
			return filters, fmt.Errorf("%w: start_date %q", ErrInvalidLedgerQuery, query.StartDate)
		}
		filters.StartDate = &d
	}
	if query.EndDate != "" {
		d, err := time.Parse(dateLayout, query.EndDate)
		if err != nil {
			return filters, fmt.Errorf("%w: end_date %q", ErrInvalidLedgerQuery, query.EndDate)
		}
		filters.EndDate = &d
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return filters, fmt.Errorf("%w: start_date is after end_date", ErrInvalidLedgerQuery)
	}

	return filters, nil
}

// ensureCategory rejects references to categories that do not exist.
func ensureCategory(repo repositories.CategoryRepositoryInterface, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := repo.Exists(*id)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

// entryTypeOrDefault also accepts the legacy ONETIME spelling.
func entryTypeOrDefault(t string) string {
	t = strings.ToUpper(t)
	if t == "" || t == "ONETIME" {
		return models.TransactionTypeOneTime
	}
	return t
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
