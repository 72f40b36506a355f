package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat ErrorCode = "AUTH_004"
	AuthAccountLocked      ErrorCode = "AUTH_005"
	AuthUsernameTaken      ErrorCode = "AUTH_006"
	AuthEmailTaken         ErrorCode = "AUTH_007"
	AuthWeakPassword       ErrorCode = "AUTH_008"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
	ValidationInvalidDate   ErrorCode = "VALIDATION_006"
	ValidationInvalidID     ErrorCode = "VALIDATION_007"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound ErrorCode = "CATEGORY_001"
	CategoryInvalid  ErrorCode = "CATEGORY_002"
)

// Expense error codes (EXPENSE_*)
const (
	ExpenseNotFound ErrorCode = "EXPENSE_001"
	ExpenseInvalid  ErrorCode = "EXPENSE_002"
)

// Income error codes (INCOME_*)
const (
	IncomeNotFound ErrorCode = "INCOME_001"
	IncomeInvalid  ErrorCode = "INCOME_002"
)

// Forecast error codes (FORECAST_*)
const (
	ForecastInvalidHorizon  ErrorCode = "FORECAST_001"
	ForecastInvalidSnapshot ErrorCode = "FORECAST_002"
	ForecastInvalidNow      ErrorCode = "FORECAST_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemNotFound           ErrorCode = "SYSTEM_007"
	SystemTimeout            ErrorCode = "SYSTEM_008"
)

var errorMessages = map[ErrorCode]string{
	AuthInvalidCredentials: "Invalid username or password",
	AuthMissingToken:       "Authorization header is required",
	AuthExpiredToken:       "Authorization token has expired",
	AuthInvalidTokenFormat: "Invalid authorization token format",
	AuthAccountLocked:      "Account is locked after too many failed attempts",
	AuthUsernameTaken:      "A user with this username already exists",
	AuthEmailTaken:         "A user with this email already exists",
	AuthWeakPassword:       "Password does not meet the password policy",

	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",
	ValidationInvalidDate:   "Invalid date, expected YYYY-MM-DD",
	ValidationInvalidID:     "Invalid identifier format",

	CategoryNotFound: "Category not found",
	CategoryInvalid:  "Invalid category",

	ExpenseNotFound: "Expense not found",
	ExpenseInvalid:  "Invalid expense",

	IncomeNotFound: "Income not found",
	IncomeInvalid:  "Invalid income",

	ForecastInvalidHorizon:  "Forecast horizon is out of range",
	ForecastInvalidSnapshot: "Forecast snapshot could not be read",
	ForecastInvalidNow:      "Evaluation time must be YYYY-MM-DD or RFC 3339",

	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemNotFound:           "Resource not found",
	SystemTimeout:            "Request timed out",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
