package services

import (
	"context"
	"time"

	"contas/internal/dto"
	"contas/internal/models"

	"github.com/google/uuid"
)

// DashboardServiceInterface computes dashboards and forecasts
type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context, userID uuid.UUID, horizonMonths int) (*dto.DashboardResponse, error)
	ComputeForecast(ctx context.Context, req *dto.ForecastRequest, horizonMonths int) (*dto.DashboardResponse, error)
}

// DashboardInvalidatorInterface drops memoized dashboards after a ledger write
type DashboardInvalidatorInterface interface {
	Invalidate(userID uuid.UUID)
}

// CategoryServiceInterface manages the shared category list
type CategoryServiceInterface interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(id uuid.UUID) (*models.Category, error)
	CreateCategory(req *dto.CategoryRequest, userID uuid.UUID, ipAddress, userAgent string) (*models.Category, error)
	UpdateCategory(id uuid.UUID, req *dto.CategoryRequest, userID uuid.UUID, ipAddress, userAgent string) (*models.Category, error)
	DeleteCategory(id, userID uuid.UUID, ipAddress, userAgent string) error
}

// ExpenseServiceInterface manages a user's expenses
type ExpenseServiceInterface interface {
	ListExpenses(ctx context.Context, userID uuid.UUID, query *dto.LedgerQuery) ([]models.Expense, error)
	GetExpense(id, userID uuid.UUID) (*models.Expense, error)
	CreateExpense(userID uuid.UUID, req *dto.ExpenseRequest, ipAddress, userAgent string) (*models.Expense, error)
	UpdateExpense(id, userID uuid.UUID, req *dto.ExpenseRequest, ipAddress, userAgent string) (*models.Expense, error)
	TogglePaid(id, userID uuid.UUID, ipAddress, userAgent string) (*models.Expense, error)
	DeleteExpense(id, userID uuid.UUID, ipAddress, userAgent string) error
}

// IncomeServiceInterface manages a user's incomes
type IncomeServiceInterface interface {
	ListIncomes(ctx context.Context, userID uuid.UUID, query *dto.LedgerQuery) ([]models.Income, error)
	GetIncome(id, userID uuid.UUID) (*models.Income, error)
	CreateIncome(userID uuid.UUID, req *dto.IncomeRequest, ipAddress, userAgent string) (*models.Income, error)
	UpdateIncome(id, userID uuid.UUID, req *dto.IncomeRequest, ipAddress, userAgent string) (*models.Income, error)
	DeleteIncome(id, userID uuid.UUID, ipAddress, userAgent string) error
}

// AuditServiceInterface defines the contract for audit logging operations
type AuditServiceInterface interface {
	CreateAuditLog(log *models.AuditLog) error
	Record(log *models.AuditLog)
	GetUserActivity(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

// SampleDataGeneratorInterface seeds a user's ledger with fake records
type SampleDataGeneratorInterface interface {
	Generate(ctx context.Context, userID uuid.UUID, req *dto.SampleDataRequest, ipAddress, userAgent string) (*dto.SampleDataResponse, error)
}

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error)
	Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error)
	Authenticate(username, password, ipAddress, userAgent string) (*models.User, error)
	GetProfile(userID uuid.UUID) (*models.User, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.AccessClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}
