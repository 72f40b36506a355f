package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "contas/internal/errors"
	"contas/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestErrorHandler(t *testing.T) {
	suite.Run(t, new(ErrorHandlerSuite))
}

type ErrorHandlerSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *ErrorHandlerSuite) SetupTest() {
	s.echo = echo.New()
	s.echo.HTTPErrorHandler = CustomHTTPErrorHandler
}

func (s *ErrorHandlerSuite) handle(err error, traceID string) (*httptest.ResponseRecorder, apperrors.ErrorResponse) {
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil), rec)
	if traceID != "" {
		c.Set(TraceIDContextKey, traceID)
	}

	CustomHTTPErrorHandler(err, c)

	var resp apperrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func (s *ErrorHandlerSuite) TestEchoHTTPErrors() {
	testCases := []struct {
		status int
		code   apperrors.ErrorCode
	}{
		{http.StatusBadRequest, apperrors.ValidationGeneral},
		{http.StatusUnauthorized, apperrors.AuthMissingToken},
		{http.StatusForbidden, apperrors.AuthAccountLocked},
		{http.StatusNotFound, apperrors.SystemNotFound},
		{http.StatusMethodNotAllowed, apperrors.ValidationGeneral},
		{http.StatusRequestEntityTooLarge, apperrors.ValidationGeneral},
		{http.StatusUnprocessableEntity, apperrors.ValidationGeneral},
		{http.StatusTooManyRequests, apperrors.SystemRateLimitExceeded},
		{http.StatusInternalServerError, apperrors.SystemInternalError},
		{http.StatusServiceUnavailable, apperrors.SystemServiceUnavailable},
		{http.StatusGatewayTimeout, apperrors.SystemTimeout},
		{999, apperrors.SystemUnexpectedError},
	}

	for _, tc := range testCases {
		s.Run(fmt.Sprint(tc.status), func() {
			rec, resp := s.handle(echo.NewHTTPError(tc.status), "trace-1")

			s.Equal(tc.status, rec.Code)
			s.Equal(string(tc.code), resp.Error.Code)
			s.Equal("trace-1", resp.Error.TraceID)
			s.Contains(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
		})
	}
}

func (s *ErrorHandlerSuite) TestEchoMessageIsKept() {
	_, resp := s.handle(echo.NewHTTPError(http.StatusNotFound, "route /api/v1/budgets does not exist"), "trace-2")
	s.Equal("route /api/v1/budgets does not exist", resp.Error.Message)
}

func (s *ErrorHandlerSuite) TestUnexpectedErrorIsHidden() {
	rec, resp := s.handle(fmt.Errorf("failed to load incomes: %w", errors.New("pq: connection refused")), "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(string(apperrors.SystemInternalError), resp.Error.Code)
	s.Equal("unknown", resp.Error.TraceID)
	s.NotContains(rec.Body.String(), "pq:")
}

func (s *ErrorHandlerSuite) TestDeadlineExceeded() {
	rec, resp := s.handle(fmt.Errorf("failed to load expenses: %w", context.DeadlineExceeded), "trace-3")

	s.Equal(http.StatusGatewayTimeout, rec.Code)
	s.Equal(string(apperrors.SystemTimeout), resp.Error.Code)
}

func (s *ErrorHandlerSuite) TestValidationErrors() {
	type entry struct {
		Description string `json:"description" validate:"required"`
		Amount      string `json:"amount" validate:"required,decimal_amount"`
	}
	err := validation.GetValidator().GetValidate().Struct(entry{Amount: "0"})
	s.Require().Error(err)

	rec, resp := s.handle(err, "trace-4")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apperrors.ValidationGeneral), resp.Error.Code)
	s.Equal([]string{
		"amount: must be a positive amount with at most 2 decimal places",
		"description: is required",
	}, resp.Error.Details)
}

func (s *ErrorHandlerSuite) TestCommittedResponseIsLeftAlone() {
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})

	CustomHTTPErrorHandler(errors.New("late"), c)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}
