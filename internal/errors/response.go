package errors

import (
	"fmt"
	"net/http"
	"sort"
)

// ErrorResponse is the envelope of every non-2xx API response:
//
//	{"error": {"code": "EXPENSE_001", "message": "...", "details": [...], "trace_id": "..."}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

type ErrorOption func(*ErrorResponse)

// WithDetails replaces the detail lines. The last WithDetails wins.
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage overrides the catalogue message for the code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			Details: []string{},
			TraceID: traceID,
		},
	}
	for _, opt := range opts {
		opt(response)
	}
	return response
}

// NewValidationError renders field errors as "field: message" lines sorted by
// field, so the response is stable across map iteration orders.
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	details := make([]string, 0, len(fieldErrors))
	for field, message := range fieldErrors {
		details = append(details, fmt.Sprintf("%s: %s", field, message))
	}
	sort.Strings(details)

	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// WrapSystemError hides err behind a generic SYSTEM_001 body and hands err
// back for server-side logging.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

var statusByCode = func() map[ErrorCode]int {
	m := make(map[ErrorCode]int)
	group := func(status int, codes ...ErrorCode) {
		for _, c := range codes {
			m[c] = status
		}
	}

	group(http.StatusBadRequest,
		ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat,
		ValidationOutOfRange, ValidationInvalidEmail, ValidationInvalidDate,
		ValidationInvalidID, AuthWeakPassword,
		CategoryInvalid, ExpenseInvalid, IncomeInvalid,
		ForecastInvalidHorizon, ForecastInvalidSnapshot, ForecastInvalidNow)
	group(http.StatusUnauthorized,
		AuthInvalidCredentials, AuthMissingToken, AuthExpiredToken, AuthInvalidTokenFormat)
	group(http.StatusForbidden, AuthAccountLocked)
	group(http.StatusNotFound, CategoryNotFound, ExpenseNotFound, IncomeNotFound, SystemNotFound)
	group(http.StatusConflict, AuthUsernameTaken, AuthEmailTaken)
	group(http.StatusTooManyRequests, SystemRateLimitExceeded)
	group(http.StatusServiceUnavailable, SystemServiceUnavailable)
	group(http.StatusGatewayTimeout, SystemTimeout)
	return m
}()

// GetHTTPStatus maps a code to its HTTP status. Unknown codes and the
// remaining SYSTEM_* codes are 500.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}

func (er *ErrorResponse) IsClientError() bool {
	status := er.GetHTTPStatus()
	return status >= 400 && status < 500
}

func (er *ErrorResponse) IsServerError() bool {
	return er.GetHTTPStatus() >= 500
}

func (er *ErrorResponse) String() string {
	return fmt.Sprintf("[%s] %s (trace: %s)", er.Error.Code, er.Error.Message, er.Error.TraceID)
}
