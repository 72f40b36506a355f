package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/models"
	"contas/internal/services"
	"contas/internal/services/service_mocks"
	"contas/internal/validation"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestExpenseHandler(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerSuite))
}

type ExpenseHandlerSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	expenseService *service_mocks.MockExpenseServiceInterface
	handler        *ExpenseHandler
	e              *echo.Echo
	userID         uuid.UUID
}

func (s *ExpenseHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.expenseService = service_mocks.NewMockExpenseServiceInterface(s.ctrl)
	s.handler = NewExpenseHandler(s.expenseService)
	s.e = newTestEcho()
	s.userID = uuid.New()
}

func (s *ExpenseHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ExpenseHandlerSuite) expense() *models.Expense {
	categoryID := uuid.New()
	paidOn := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return &models.Expense{
		LedgerEntry: models.LedgerEntry{
			ID:          uuid.New(),
			UserID:      s.userID,
			CategoryID:  &categoryID,
			Amount:      decimal.RequireFromString("1500"),
			Description: "Aluguel",
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		ExpenseType: models.TransactionTypeOneTime,
		Paid:        true,
		PaidDate:    &paidOn,
		Category:    &models.Category{ID: categoryID, Name: "Moradia"},
	}
}

func (s *ExpenseHandlerSuite) TestCreateExpense() {
	expense := s.expense()
	body := map[string]interface{}{
		"description":  "Aluguel",
		"amount":       "1500.00",
		"date":         "2024-01-05",
		"expense_type": "ONE_TIME",
		"paid":         true,
	}

	s.expenseService.EXPECT().
		CreateExpense(s.userID, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, req *dto.ExpenseRequest, _, _ string) (*models.Expense, error) {
			s.Equal("1500.00", req.Amount)
			s.True(req.Paid)
			return expense, nil
		})

	c, rec := newContext(s.e, http.MethodPost, "/api/v1/expenses", body, s.userID)
	s.NoError(s.handler.CreateExpense(c))
	s.Equal(http.StatusCreated, rec.Code)

	var got dto.ExpenseResponse
	decodeData(s.T(), rec, &got)
	s.Equal(expense.ID.String(), got.ID)
	s.Equal("1500.00", got.Amount)
	s.Equal("2024-01-05", got.Date)
	s.Equal("Moradia", got.CategoryName)
	s.Require().NotNil(got.PaidDate)
	s.Equal("2024-01-10", *got.PaidDate)
	s.Nil(got.RecurrencePeriod)
}

func (s *ExpenseHandlerSuite) TestCreateExpense_ValidationErrors() {
	body := map[string]interface{}{
		"description":  "Mercado",
		"amount":       "12.345",
		"date":         "05/01/2024",
		"expense_type": "WEEKLY",
	}

	c, _ := newContext(s.e, http.MethodPost, "/api/v1/expenses", body, s.userID)
	fields, ok := validation.FieldErrors(s.handler.CreateExpense(c))

	s.Require().True(ok)
	s.Contains(fields, "amount")
	s.Contains(fields, "date")
	s.Contains(fields, "expense_type")
}

func (s *ExpenseHandlerSuite) TestCreateExpense_ServiceErrors() {
	body := map[string]interface{}{"description": "Parcela", "amount": "100", "date": "2024-01-05", "expense_type": "INSTALLMENT"}

	testCases := []struct {
		name   string
		err    error
		status int
		code   apperrors.ErrorCode
	}{
		{"invalid entry", fmt.Errorf("%w: %v", services.ErrInvalidLedgerEntry, models.ErrInstallmentRequired), http.StatusBadRequest, apperrors.ExpenseInvalid},
		{"unknown category", services.ErrCategoryNotFound, http.StatusBadRequest, apperrors.ExpenseInvalid},
		{"system", fmt.Errorf("failed to create expense: %w", errBoom), http.StatusInternalServerError, apperrors.SystemInternalError},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.expenseService.EXPECT().CreateExpense(s.userID, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			c, rec := newContext(s.e, http.MethodPost, "/api/v1/expenses", body, s.userID)
			s.NoError(s.handler.CreateExpense(c))
			s.Equal(tc.status, rec.Code)
			s.Equal(string(tc.code), decodeError(s.T(), rec).Error.Code)
		})
	}
}

func (s *ExpenseHandlerSuite) TestListExpenses_BindsFilters() {
	categoryID := uuid.New()
	s.expenseService.EXPECT().
		ListExpenses(gomock.Any(), s.userID, &dto.LedgerQuery{Type: "RECURRING", Category: categoryID.String(), Paid: "false"}).
		Return([]models.Expense{*s.expense()}, nil)

	target := fmt.Sprintf("/api/v1/expenses?type=RECURRING&category=%s&paid=false", categoryID)
	c, rec := newContext(s.e, http.MethodGet, target, nil, s.userID)
	s.NoError(s.handler.ListExpenses(c))
	s.Equal(http.StatusOK, rec.Code)

	var got []dto.ExpenseResponse
	decodeData(s.T(), rec, &got)
	s.Len(got, 1)
}

func (s *ExpenseHandlerSuite) TestListExpenses_InvalidFilter() {
	c, _ := newContext(s.e, http.MethodGet, "/api/v1/expenses?paid=maybe", nil, s.userID)
	_, ok := validation.FieldErrors(s.handler.ListExpenses(c))
	s.True(ok)
}

func (s *ExpenseHandlerSuite) TestListExpenses_InvalidRange() {
	s.expenseService.EXPECT().
		ListExpenses(gomock.Any(), s.userID, gomock.Any()).
		Return(nil, fmt.Errorf("%w: start_date is after end_date", services.ErrInvalidLedgerQuery))

	c, rec := newContext(s.e, http.MethodGet, "/api/v1/expenses?start_date=2024-02-01&end_date=2024-01-01", nil, s.userID)
	s.NoError(s.handler.ListExpenses(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apperrors.ValidationGeneral), decodeError(s.T(), rec).Error.Code)
}

func (s *ExpenseHandlerSuite) TestGetExpense_NotFound() {
	id := uuid.New()
	s.expenseService.EXPECT().GetExpense(id, s.userID).Return(nil, services.ErrExpenseNotFound)

	c, rec := newContext(s.e, http.MethodGet, "/", nil, s.userID)
	s.NoError(s.handler.GetExpense(withID(c, id.String())))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(apperrors.ExpenseNotFound), decodeError(s.T(), rec).Error.Code)
}

func (s *ExpenseHandlerSuite) TestUpdateExpense() {
	expense := s.expense()
	s.expenseService.EXPECT().
		UpdateExpense(expense.ID, s.userID, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(expense, nil)

	body := map[string]interface{}{"description": "Aluguel", "amount": "1500", "date": "2024-01-05"}
	c, rec := newContext(s.e, http.MethodPut, "/", body, s.userID)
	s.NoError(s.handler.UpdateExpense(withID(c, expense.ID.String())))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ExpenseHandlerSuite) TestTogglePaid() {
	expense := s.expense()
	expense.Paid = false
	expense.PaidDate = nil
	s.expenseService.EXPECT().TogglePaid(expense.ID, s.userID, gomock.Any(), gomock.Any()).Return(expense, nil)

	c, rec := newContext(s.e, http.MethodPost, "/", nil, s.userID)
	s.NoError(s.handler.TogglePaid(withID(c, expense.ID.String())))
	s.Equal(http.StatusOK, rec.Code)

	var got dto.ExpenseResponse
	decodeData(s.T(), rec, &got)
	s.False(got.Paid)
	s.Nil(got.PaidDate)
}

func (s *ExpenseHandlerSuite) TestDeleteExpense() {
	id := uuid.New()

	s.Run("deleted", func() {
		s.expenseService.EXPECT().DeleteExpense(id, s.userID, gomock.Any(), gomock.Any()).Return(nil)

		c, rec := newContext(s.e, http.MethodDelete, "/", nil, s.userID)
		s.NoError(s.handler.DeleteExpense(withID(c, id.String())))
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("someone else's", func() {
		s.expenseService.EXPECT().DeleteExpense(id, s.userID, gomock.Any(), gomock.Any()).Return(services.ErrExpenseNotFound)

		c, rec := newContext(s.e, http.MethodDelete, "/", nil, s.userID)
		s.NoError(s.handler.DeleteExpense(withID(c, id.String())))
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
