package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"contas/internal/dto"
	"contas/internal/models"
	"contas/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultSampleMonths     = 3
	defaultSampleCategories = 5
	defaultSampleEntries    = 8
	paidProbabilityPercent  = 70
	sideIncomePercent       = 30
	maxSampleDay            = 28
)

var sampleCategoryPool = []struct {
	name  string
	icon  string
	color string
}{
	{"Moradia", "home", "#8E24AA"},
	{"Alimentação", "restaurant", "#E53935"},
	{"Transporte", "directions_car", "#1E88E5"},
	{"Saúde", "favorite", "#43A047"},
	{"Lazer", "sports_esports", "#FB8C00"},
	{"Educação", "school", "#3949AB"},
	{"Serviços", "bolt", "#00ACC1"},
	{"Salário", "payments", "#7CB342"},
	{"Freelance", "work", "#6D4C41"},
	{"Investimentos", "trending_up", "#546E7A"},
}

// sampleDataGenerator fills a ledger with plausible records spread over the
// last few months, including recurring and installment entries that reach
// into the forecast horizon.
type sampleDataGenerator struct {
	categoryRepo repositories.CategoryRepositoryInterface
	expenseRepo  repositories.ExpenseRepositoryInterface
	incomeRepo   repositories.IncomeRepositoryInterface
	auditService AuditServiceInterface
	dashboards   DashboardInvalidatorInterface
	metrics      MetricsRecorderInterface
	logger       *slog.Logger

	mu    sync.Mutex
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewSampleDataGenerator creates a generator. A zero seed draws a random one.
func NewSampleDataGenerator(
	categoryRepo repositories.CategoryRepositoryInterface,
	expenseRepo repositories.ExpenseRepositoryInterface,
	incomeRepo repositories.IncomeRepositoryInterface,
	auditService AuditServiceInterface,
	dashboards DashboardInvalidatorInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	seed uint64,
) SampleDataGeneratorInterface {
	return &sampleDataGenerator{
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
		incomeRepo:   incomeRepo,
		auditService: auditService,
		dashboards:   dashboards,
		metrics:      metrics,
		logger:       logger,
		faker:        gofakeit.New(seed),
		now:          time.Now,
	}
}

func (g *sampleDataGenerator) Generate(ctx context.Context, userID uuid.UUID, req *dto.SampleDataRequest, ipAddress, userAgent string) (*dto.SampleDataResponse, error) {
	months, categoryCount, perMonth := sampleSizes(req)

	g.mu.Lock()
	defer g.mu.Unlock()

	categories, created, err := g.ensureCategories(ctx, categoryCount)
	if err != nil {
		return nil, err
	}

	now := g.now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	var expenses []models.Expense
	var incomes []models.Income

	salaryDay := g.faker.IntRange(1, 10)
	incomes = append(incomes, g.income(userID, "Salário", g.amount(3000, 9000), first.AddDate(0, 0, salaryDay-1), models.TransactionTypeRecurring, categories))

	expenses = append(expenses,
		g.recurringExpense(userID, "Aluguel", g.amount(900, 2500), first, now, categories),
		g.recurringExpense(userID, "Internet", g.amount(80, 200), first, now, categories),
		g.installmentExpense(userID, first, categories),
	)

	for m := 0; m < months; m++ {
		monthStart := first.AddDate(0, m, 0)
		for i := 0; i < perMonth; i++ {
			date := g.dayIn(monthStart)
			e := g.expense(userID, g.faker.Company(), g.amount(5, 400), date, models.TransactionTypeOneTime, categories)
			if date.Before(now) && g.faker.IntRange(1, 100) <= paidProbabilityPercent {
				e.MarkPaid(true, date)
			}
			expenses = append(expenses, e)
		}
		if g.faker.IntRange(1, 100) <= sideIncomePercent {
			incomes = append(incomes, g.income(userID, "Freelance "+g.faker.ProductName(), g.amount(200, 1500), g.dayIn(monthStart), models.TransactionTypeOneTime, categories))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.expenseRepo.CreateBatch(expenses); err != nil {
		return nil, fmt.Errorf("failed to create sample expenses: %w", err)
	}
	if err := g.incomeRepo.CreateBatch(incomes); err != nil {
		return nil, fmt.Errorf("failed to create sample incomes: %w", err)
	}

	entry := auditEntry(userID, models.AuditActionSampleData, models.AuditResourceExpense, "", ipAddress, userAgent)
	g.auditService.Record(entry.
		With("expenses", len(expenses)).
		With("incomes", len(incomes)).
		With("categories", created))
	g.dashboards.Invalidate(userID)

	g.metrics.RecordGauge("sample_records", float64(len(expenses)), map[string]string{"resource": models.AuditResourceExpense})
	g.metrics.RecordGauge("sample_records", float64(len(incomes)), map[string]string{"resource": models.AuditResourceIncome})
	g.logger.InfoContext(ctx, "sample data generated",
		"user_id", userID,
		"months", months,
		"expenses", len(expenses),
		"incomes", len(incomes),
		"categories_created", created)

	return &dto.SampleDataResponse{
		Categories: created,
		Expenses:   len(expenses),
		Incomes:    len(incomes),
	}, nil
}

func sampleSizes(req *dto.SampleDataRequest) (months, categories, perMonth int) {
	months, categories, perMonth = defaultSampleMonths, defaultSampleCategories, defaultSampleEntries
	if req == nil {
		return
	}
	if req.Months > 0 {
		months = req.Months
	}
	if req.Categories > 0 {
		categories = req.Categories
	}
	if req.EntriesPerMonth > 0 {
		perMonth = req.EntriesPerMonth
	}
	return
}

// ensureCategories tops the shared category list up to want entries, reusing
// existing ones first.
func (g *sampleDataGenerator) ensureCategories(ctx context.Context, want int) ([]models.Category, int, error) {
	existing, err := g.categoryRepo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}

	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[strings.ToLower(c.Name)] = true
	}

	categories := existing
	created := 0
	for _, p := range sampleCategoryPool {
		if len(categories) >= want {
			break
		}
		if taken[strings.ToLower(p.name)] {
			continue
		}
		c := models.Category{Name: p.name, Icon: p.icon, Color: p.color}
		if err := g.categoryRepo.Create(&c); err != nil {
			return nil, 0, fmt.Errorf("failed to create sample category: %w", err)
		}
		categories = append(categories, c)
		created++
	}
	for len(categories) < want {
		c := models.Category{Name: g.faker.ProductName(), Color: g.faker.HexColor()}
		if taken[strings.ToLower(c.Name)] {
			c.Name = fmt.Sprintf("%s %d", c.Name, len(categories)+1)
		}
		taken[strings.ToLower(c.Name)] = true
		if err := g.categoryRepo.Create(&c); err != nil {
			return nil, 0, fmt.Errorf("failed to create sample category: %w", err)
		}
		categories = append(categories, c)
		created++
	}

	return categories, created, nil
}

func (g *sampleDataGenerator) expense(userID uuid.UUID, description string, amount decimal.Decimal, date time.Time, expenseType string, categories []models.Category) models.Expense {
	return models.Expense{
		LedgerEntry: models.LedgerEntry{
			UserID:      userID,
			CategoryID:  g.pickCategory(categories),
			Amount:      amount,
			Description: truncate(description, 200),
			Date:        date,
		},
		ExpenseType: expenseType,
	}
}

// recurringExpense starts at the first generated month and is next due in
// the month after now.
func (g *sampleDataGenerator) recurringExpense(userID uuid.UUID, description string, amount decimal.Decimal, first, now time.Time, categories []models.Category) models.Expense {
	day := g.faker.IntRange(1, maxSampleDay)
	e := g.expense(userID, description, amount, first.AddDate(0, 0, day-1), models.TransactionTypeRecurring, categories)
	period := models.RecurrenceMonthly
	due := time.Date(now.Year(), now.Month()+1, day, 0, 0, 0, 0, time.UTC)
	e.RecurrencePeriod = &period
	e.NextDueDate = &due
	return e
}

func (g *sampleDataGenerator) installmentExpense(userID uuid.UUID, first time.Time, categories []models.Category) models.Expense {
	total := g.faker.IntRange(3, 12)
	value := g.amount(50, 400)
	current := 1
	e := g.expense(userID, g.faker.ProductName(), value.Mul(decimal.NewFromInt(int64(total))), g.dayIn(first), models.TransactionTypeInstallment, categories)
	e.TotalInstallments = &total
	e.CurrentInstallment = &current
	e.InstallmentValue = decimal.NewNullDecimal(value)
	return e
}

func (g *sampleDataGenerator) income(userID uuid.UUID, description string, amount decimal.Decimal, date time.Time, incomeType string, categories []models.Category) models.Income {
	return models.Income{
		LedgerEntry: models.LedgerEntry{
			UserID:      userID,
			CategoryID:  g.pickCategory(categories),
			Amount:      amount,
			Description: truncate(description, 200),
			Date:        date,
		},
		IncomeType: incomeType,
	}
}

func (g *sampleDataGenerator) pickCategory(categories []models.Category) *uuid.UUID {
	if len(categories) == 0 {
		return nil
	}
	id := categories[g.faker.IntRange(0, len(categories)-1)].ID
	return &id
}

func (g *sampleDataGenerator) dayIn(monthStart time.Time) time.Time {
	return monthStart.AddDate(0, 0, g.faker.IntRange(0, maxSampleDay-1))
}

func (g *sampleDataGenerator) amount(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(g.faker.Price(min, max)).Round(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
