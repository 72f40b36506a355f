package handlers

import (
	"contas/internal/validation"

	"github.com/labstack/echo/v4"
)

// requestValidator plugs the shared rule set (decimal_amount,
// transaction_type, recurrence_period) into c.Validate.
type requestValidator struct {
	rules *validation.Validator
}

func NewValidator() echo.Validator {
	return requestValidator{rules: validation.GetValidator()}
}

func (v requestValidator) Validate(i interface{}) error {
	return v.rules.GetValidate().Struct(i)
}
