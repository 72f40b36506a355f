package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"contas/internal/cache"
	"contas/internal/dto"
	"contas/internal/forecast"
	"contas/internal/models"
	"contas/internal/repositories/repository_mocks"
	"contas/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	categoryRepo *repository_mocks.MockCategoryRepositoryInterface
	expenseRepo  *repository_mocks.MockExpenseRepositoryInterface
	incomeRepo   *repository_mocks.MockIncomeRepositoryInterface
	metrics      *service_mocks.MockMetricsRecorderInterface
	dashboards   *cache.LRUCache[forecast.Dashboard]
	service      *DashboardService
	userID       uuid.UUID
	now          time.Time
}

func (s *DashboardServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.expenseRepo = repository_mocks.NewMockExpenseRepositoryInterface(s.ctrl)
	s.incomeRepo = repository_mocks.NewMockIncomeRepositoryInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.metrics.EXPECT().IncrementCounter(gomock.Any(), gomock.Any()).AnyTimes()
	s.metrics.EXPECT().RecordProcessingTime(gomock.Any(), gomock.Any()).AnyTimes()
	s.metrics.EXPECT().RecordGauge(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	s.dashboards = cache.NewLRUCache[forecast.Dashboard](10, time.Hour)
	s.service = NewDashboardService(s.categoryRepo, s.expenseRepo, s.incomeRepo, s.dashboards, s.metrics, slog.Default())
	s.now = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	s.service.now = func() time.Time { return s.now }
	s.userID = uuid.New()
}

func (s *DashboardServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}

func (s *DashboardServiceTestSuite) ledger() ([]models.Category, []models.Expense, []models.Income) {
	housing := models.Category{ID: uuid.New(), Name: "Moradia"}
	rent := models.Expense{
		LedgerEntry: models.LedgerEntry{
			ID:          uuid.New(),
			UserID:      s.userID,
			CategoryID:  &housing.ID,
			Amount:      decimal.RequireFromString("1500.00"),
			Description: "Aluguel",
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		ExpenseType: models.TransactionTypeOneTime,
	}
	salary := models.Income{
		LedgerEntry: models.LedgerEntry{
			ID:          uuid.New(),
			UserID:      s.userID,
			Amount:      decimal.RequireFromString("5000.00"),
			Description: "Salário",
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		IncomeType: models.TransactionTypeRecurring,
	}
	return []models.Category{housing}, []models.Expense{rent}, []models.Income{salary}
}

func (s *DashboardServiceTestSuite) expectLedger(times int) {
	categories, expenses, incomes := s.ledger()
	s.categoryRepo.EXPECT().List(gomock.Any()).Return(categories, nil).Times(times)
	s.expenseRepo.EXPECT().ListByUser(gomock.Any(), s.userID, models.LedgerFilters{}).Return(expenses, nil).Times(times)
	s.incomeRepo.EXPECT().ListByUser(gomock.Any(), s.userID, models.LedgerFilters{}).Return(incomes, nil).Times(times)
}

func (s *DashboardServiceTestSuite) TestGetDashboard_ComputesAndMemoizes() {
	s.expectLedger(2)

	first, err := s.service.GetDashboard(context.Background(), s.userID, 3)
	s.Require().NoError(err)
	s.False(first.Cached)
	s.Equal(3, first.HorizonMonths)
	s.Equal("2024-01-15T10:30:00Z", first.GeneratedAt)
	s.Equal("1500", first.TotalExpenses.String())
	s.Equal("5000", first.TotalIncomes.String())
	s.Equal("3500", first.Balance.String())
	s.Len(first.MonthlyForecasts, 3)
	s.Equal("5000", first.MonthlyForecasts[2].ExpectedIncomes.String())
	s.Require().Len(first.ExpensesByCategory, 1)
	s.Equal("Moradia", first.ExpensesByCategory[0].Name)

	second, err := s.service.GetDashboard(context.Background(), s.userID, 3)
	s.Require().NoError(err)
	s.True(second.Cached)
	s.Equal(first.Dashboard.TotalExpenses, second.Dashboard.TotalExpenses)
	s.Equal(1, s.dashboards.Size())
}

func (s *DashboardServiceTestSuite) TestGetDashboard_NewMinuteRecomputes() {
	s.expectLedger(2)

	_, err := s.service.GetDashboard(context.Background(), s.userID, 3)
	s.Require().NoError(err)

	s.now = s.now.Add(time.Minute)
	resp, err := s.service.GetDashboard(context.Background(), s.userID, 3)
	s.Require().NoError(err)
	s.False(resp.Cached)
	s.Equal(2, s.dashboards.Size())
}

func (s *DashboardServiceTestSuite) TestInvalidate_DropsOnlyThatUser() {
	s.expectLedger(1)
	_, err := s.service.GetDashboard(context.Background(), s.userID, 3)
	s.Require().NoError(err)

	other := uuid.New()
	s.dashboards.Set(other.String()+":3:x:y", forecast.Dashboard{})

	s.service.Invalidate(s.userID)
	s.Equal(1, s.dashboards.Size())
	_, ok := s.dashboards.Get(other.String() + ":3:x:y")
	s.True(ok)
}

func (s *DashboardServiceTestSuite) TestGetDashboard_RepositoryError() {
	s.categoryRepo.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))
	s.expenseRepo.EXPECT().ListByUser(gomock.Any(), s.userID, gomock.Any()).Return(nil, nil).AnyTimes()
	s.incomeRepo.EXPECT().ListByUser(gomock.Any(), s.userID, gomock.Any()).Return(nil, nil).AnyTimes()

	resp, err := s.service.GetDashboard(context.Background(), s.userID, 3)
	s.Error(err)
	s.Contains(err.Error(), "failed to load categories")
	s.Nil(resp)
}

func (s *DashboardServiceTestSuite) TestGetDashboard_CancelledContext() {
	s.expectLedger(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := s.service.GetDashboard(ctx, s.userID, 3)
	s.ErrorIs(err, context.Canceled)
	s.Nil(resp)
	s.Equal(0, s.dashboards.Size())
}

func (s *DashboardServiceTestSuite) TestComputeForecast_MergesDecodeDiagnostics() {
	req := &dto.ForecastRequest{
		RawSnapshot: forecast.RawSnapshot{
			Expenses: []forecast.RawExpense{
				{ID: forecast.RawValue("1"), Description: "Mercado", Amount: forecast.RawValue("120.50"), Date: "2024-03-10", ExpenseType: "ONE_TIME"},
				{ID: forecast.RawValue("2"), Description: "Broken", Amount: forecast.RawValue("abc"), Date: "2024-03-10", ExpenseType: "ONE_TIME"},
			},
		},
		Now: "2024-03-01",
	}

	resp, err := s.service.ComputeForecast(context.Background(), req, 1)
	s.Require().NoError(err)
	s.Equal("2024-03-01T00:00:00Z", resp.GeneratedAt)
	s.Equal("120.5", resp.TotalExpenses.String())
	s.Equal("120.5", resp.UpcomingExpenses.String())
	s.Require().Len(resp.Diagnostics, 1)
	s.Equal(forecast.CodeMalformedRecord, resp.Diagnostics[0].Code)
	s.Equal("2", resp.Diagnostics[0].RecordID)
	s.Equal(0, s.dashboards.Size())
}

func (s *DashboardServiceTestSuite) TestComputeForecast_InvalidNow() {
	resp, err := s.service.ComputeForecast(context.Background(), &dto.ForecastRequest{Now: "tomorrow"}, 3)
	s.ErrorIs(err, ErrInvalidEvaluationTime)
	s.Nil(resp)

	resp, err = s.service.ComputeForecast(context.Background(), nil, 3)
	s.ErrorIs(err, ErrEmptyForecastRequest)
	s.Nil(resp)
}

func (s *DashboardServiceTestSuite) TestComputeForecast_DefaultsToClock() {
	resp, err := s.service.ComputeForecast(context.Background(), &dto.ForecastRequest{}, 2)
	s.Require().NoError(err)
	s.Equal("2024-01-15T10:30:00Z", resp.GeneratedAt)
	s.Len(resp.MonthlyForecasts, 2)
	s.Equal("2024-01", resp.MonthlyForecasts[0].Month)
	s.NotNil(resp.Diagnostics)
}
