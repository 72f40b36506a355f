package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxAmountDigits matches the decimal(10,2) ledger columns.
const (
	maxAmountDigits   = 10
	maxAmountDecimals = 2
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance     *Validator
	instanceOnce sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	instanceOnce.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("decimal_amount", validateDecimalAmount)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("recurrence_period", validateRecurrencePeriod)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: v}
}

// validateDecimalAmount accepts a positive decimal string with at most two
// fractional digits that fits a decimal(10,2) column.
func validateDecimalAmount(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return false
	}
	if !amount.Equal(amount.Round(maxAmountDecimals)) {
		return false
	}
	return len(amount.Truncate(0).String()) <= maxAmountDigits-maxAmountDecimals
}

// validateTransactionType accepts ONE_TIME, RECURRING and INSTALLMENT in any
// case, plus the legacy ONETIME spelling.
func validateTransactionType(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case "ONE_TIME", "ONETIME", "RECURRING", "INSTALLMENT":
		return true
	}
	return false
}

func validateRecurrencePeriod(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case "DAILY", "MONTHLY", "YEARLY":
		return true
	}
	return false
}
