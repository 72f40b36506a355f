package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CodesTestSuite struct {
	suite.Suite
}

func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		code     ErrorCode
		expected string
	}{
		{AuthInvalidCredentials, "Invalid username or password"},
		{AuthAccountLocked, "Account is locked after too many failed attempts"},
		{ValidationGeneral, "Validation failed"},
		{CategoryNotFound, "Category not found"},
		{ExpenseNotFound, "Expense not found"},
		{IncomeInvalid, "Invalid income"},
		{ForecastInvalidHorizon, "Forecast horizon is out of range"},
		{SystemRateLimitExceeded, "Rate limit exceeded. Please try again later"},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, GetErrorMessage(tc.code))
		})
	}
}

func (s *CodesTestSuite) TestGetErrorMessage_InvalidCode() {
	s.Equal("An error occurred", GetErrorMessage("INVALID_CODE"))
	s.Equal("An error occurred", GetErrorMessage(""))
}

func (s *CodesTestSuite) TestIsValidErrorCode() {
	s.True(IsValidErrorCode(AuthMissingToken))
	s.True(IsValidErrorCode(ForecastInvalidSnapshot))
	s.True(IsValidErrorCode(SystemTimeout))
	s.False(IsValidErrorCode("AUTH_999"))
	s.False(IsValidErrorCode("auth_001"))
}

func (s *CodesTestSuite) TestEveryCodeHasMessageAndPrefix() {
	prefixes := []string{"AUTH_", "VALIDATION_", "CATEGORY_", "EXPENSE_", "INCOME_", "FORECAST_", "SYSTEM_"}

	for code, message := range errorMessages {
		s.NotEmpty(message, code)
		matched := false
		for _, p := range prefixes {
			if strings.HasPrefix(string(code), p) {
				matched = true
				break
			}
		}
		s.True(matched, "unexpected code family %s", code)
	}
}
