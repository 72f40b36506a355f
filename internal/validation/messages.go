package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// FieldErrors flattens validator errors into field -> message. The second
// result is false when err did not come from the validator.
func FieldErrors(err error) (map[string]string, bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = FormatFieldError(fe)
	}
	return fields, true
}

// FormatFieldError converts a validator.FieldError to a human-readable message
func FormatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "alphanum":
		return "must contain only alphanumeric characters"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hexcolor":
		return "must be a hex color such as #1E88E5"
	case "datetime":
		return fmt.Sprintf("must be a date in the format %s", fe.Param())
	case "decimal_amount":
		return "must be a positive amount with at most 2 decimal places"
	case "transaction_type":
		return "must be one of: ONE_TIME, RECURRING, INSTALLMENT"
	case "recurrence_period":
		return "must be one of: DAILY, MONTHLY, YEARLY"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
