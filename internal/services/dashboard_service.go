package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"contas/internal/cache"
	"contas/internal/dto"
	"contas/internal/forecast"
	"contas/internal/models"
	"contas/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidEvaluationTime = errors.New("invalid evaluation time")
	ErrEmptyForecastRequest  = errors.New("forecast request is required")
)

// DashboardService runs the forecast engine over stored ledgers and over
// client supplied snapshots. Stored dashboards are memoized per user,
// snapshot content, horizon and evaluation minute.
type DashboardService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	expenseRepo  repositories.ExpenseRepositoryInterface
	incomeRepo   repositories.IncomeRepositoryInterface
	dashboards   cache.Cache[forecast.Dashboard]
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
	now          func() time.Time
}

func NewDashboardService(
	categoryRepo repositories.CategoryRepositoryInterface,
	expenseRepo repositories.ExpenseRepositoryInterface,
	incomeRepo repositories.IncomeRepositoryInterface,
	dashboards cache.Cache[forecast.Dashboard],
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
		incomeRepo:   incomeRepo,
		dashboards:   dashboards,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// GetDashboard loads the user's ledger and computes the dashboard as of now
func (s *DashboardService) GetDashboard(ctx context.Context, userID uuid.UUID, horizonMonths int) (*dto.DashboardResponse, error) {
	start := time.Now()

	snapshot, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key, err := dashboardKey(userID, snapshot, horizonMonths, now)
	if err != nil {
		return nil, err
	}

	if d, ok := s.dashboards.Get(key); ok {
		s.metrics.IncrementCounter("dashboard_computed", map[string]string{"source": "stored", "cache": "hit"})
		return newDashboardResponse(d, now, horizonMonths, true), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := forecast.ComputeDashboard(snapshot, now, horizonMonths)
	s.dashboards.Set(key, d)

	s.metrics.IncrementCounter("dashboard_computed", map[string]string{"source": "stored", "cache": "miss"})
	s.metrics.RecordProcessingTime("dashboard_stored", time.Since(start))
	s.metrics.RecordGauge("dashboard_cache_entries", float64(s.dashboards.Size()), nil)
	s.recordDiagnostics(d.Diagnostics)

	s.logger.InfoContext(ctx, "dashboard computed",
		"user_id", userID,
		"expenses", len(snapshot.Expenses),
		"incomes", len(snapshot.Incomes),
		"horizon_months", horizonMonths,
		"diagnostics", len(d.Diagnostics),
		"duration_ms", time.Since(start).Milliseconds())

	return newDashboardResponse(d, now, horizonMonths, false), nil
}

// ComputeForecast evaluates a snapshot posted by the client. Nothing is read
// from or written to storage.
func (s *DashboardService) ComputeForecast(ctx context.Context, req *dto.ForecastRequest, horizonMonths int) (*dto.DashboardResponse, error) {
	if req == nil {
		return nil, ErrEmptyForecastRequest
	}
	start := time.Now()

	now := s.now().UTC()
	if req.Now != "" {
		parsed, err := forecast.ParseDate(req.Now)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEvaluationTime, err)
		}
		now = parsed
	}

	snapshot, decodeDiags := forecast.DecodeSnapshot(req.RawSnapshot)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := forecast.ComputeDashboard(snapshot, now, horizonMonths)
	d.Diagnostics = append(append([]forecast.Diagnostic{}, decodeDiags...), d.Diagnostics...)

	s.metrics.IncrementCounter("dashboard_computed", map[string]string{"source": "snapshot", "cache": "none"})
	s.metrics.RecordProcessingTime("dashboard_snapshot", time.Since(start))
	s.recordDiagnostics(d.Diagnostics)

	s.logger.DebugContext(ctx, "snapshot forecast computed",
		"expenses", len(snapshot.Expenses),
		"incomes", len(snapshot.Incomes),
		"horizon_months", horizonMonths,
		"diagnostics", len(d.Diagnostics))

	return newDashboardResponse(d, now, horizonMonths, false), nil
}

// Invalidate drops every memoized dashboard of the user
func (s *DashboardService) Invalidate(userID uuid.UUID) {
	prefix := userID.String() + ":"
	removed := s.dashboards.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
	if removed > 0 {
		s.metrics.RecordGauge("dashboard_cache_entries", float64(s.dashboards.Size()), nil)
	}
}

// loadSnapshot reads categories and the user's two ledgers in parallel.
func (s *DashboardService) loadSnapshot(ctx context.Context, userID uuid.UUID) (forecast.Snapshot, error) {
	var (
		categories []models.Category
		expenses   []models.Expense
		incomes    []models.Income
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if categories, err = s.categoryRepo.List(gctx); err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if expenses, err = s.expenseRepo.ListByUser(gctx, userID, models.LedgerFilters{}); err != nil {
			return fmt.Errorf("failed to load expenses: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if incomes, err = s.incomeRepo.ListByUser(gctx, userID, models.LedgerFilters{}); err != nil {
			return fmt.Errorf("failed to load incomes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return forecast.Snapshot{}, err
	}

	snapshot := forecast.Snapshot{
		Categories: make([]forecast.Category, 0, len(categories)),
		Expenses:   make([]forecast.Expense, 0, len(expenses)),
		Incomes:    make([]forecast.Income, 0, len(incomes)),
	}
	for i := range categories {
		snapshot.Categories = append(snapshot.Categories, categories[i].ToForecast())
	}
	for i := range expenses {
		snapshot.Expenses = append(snapshot.Expenses, expenses[i].ToForecast())
	}
	for i := range incomes {
		snapshot.Incomes = append(snapshot.Incomes, incomes[i].ToForecast())
	}
	return snapshot, nil
}

func (s *DashboardService) recordDiagnostics(diags []forecast.Diagnostic) {
	for _, d := range diags {
		s.metrics.IncrementCounter("forecast_diagnostic", map[string]string{"code": string(d.Code)})
	}
}

// dashboardKey is prefixed with the user ID so Invalidate can match it.
func dashboardKey(userID uuid.UUID, snapshot forecast.Snapshot, horizonMonths int, now time.Time) (string, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint snapshot: %w", err)
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s:%d:%s:%s",
		userID, horizonMonths, now.Truncate(time.Minute).Format(time.RFC3339), hex.EncodeToString(sum[:])), nil
}

func newDashboardResponse(d forecast.Dashboard, now time.Time, horizonMonths int, cached bool) *dto.DashboardResponse {
	return &dto.DashboardResponse{
		Dashboard:     d,
		GeneratedAt:   now.Format(time.RFC3339),
		HorizonMonths: horizonMonths,
		Cached:        cached,
	}
}
