package main

import (
	"log/slog"
	"net/http"
	"time"

	"contas/internal/cache"
	"contas/internal/config"
	"contas/internal/forecast"
	"contas/internal/handlers"
	"contas/internal/middleware"
	"contas/internal/repositories"
	"contas/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// server bundles the echo instance with the background pieces main has to
// start and stop alongside it.
type server struct {
	echo        *echo.Echo
	cacheMgr    *cache.Manager
	rateLimiter *middleware.RateLimiter
}

func newServer(cfg *config.Config, db *gorm.DB, metrics services.MetricsRecorderInterface, logger *slog.Logger) *server {
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	incomeRepo := repositories.NewIncomeRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	dashboards := cache.NewLRUCache[forecast.Dashboard](cfg.Forecast.CacheSize, cfg.Forecast.CacheTTL)
	cacheMgr := cache.NewManager()
	cacheMgr.Register(dashboards)

	auditService := services.NewAuditService(auditRepo, logger)
	passwordService := services.NewPasswordService(cfg.Security.BCryptCost)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(userRepo, auditService, passwordService, tokenService, metrics, logger)
	dashboardService := services.NewDashboardService(categoryRepo, expenseRepo, incomeRepo, dashboards, metrics, logger)
	categoryService := services.NewCategoryService(categoryRepo, auditService, metrics, logger)
	expenseService := services.NewExpenseService(expenseRepo, categoryRepo, auditService, dashboardService, metrics, logger)
	incomeService := services.NewIncomeService(incomeRepo, categoryRepo, auditService, dashboardService, metrics, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	rateLimiter := middleware.NewRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst)

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.CORS(cfg.Server.CORSAllowOrigins))
	e.Use(echomw.BodyLimit("1M"))
	if cfg.Server.RequestTimeout > 0 {
		e.Use(echomw.ContextTimeout(cfg.Server.RequestTimeout))
	}

	healthHandler := handlers.NewHealthCheckHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	auditHandler := handlers.NewAuditHandler(auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, handlers.HorizonLimits{
		Default: cfg.Forecast.DefaultHorizonMonths,
		Max:     cfg.Forecast.MaxHorizonMonths,
	})

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	auth := api.Group("/auth", rateLimiter.Middleware())
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := api.Group("", middleware.RequireAuth(tokenService, authService))
	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/audit-logs", auditHandler.ListActivity)

	protected.GET("/categories", categoryHandler.ListCategories)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.GET("/categories/:id", categoryHandler.GetCategory)
	protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	protected.GET("/expenses", expenseHandler.ListExpenses)
	protected.POST("/expenses", expenseHandler.CreateExpense)
	protected.GET("/expenses/:id", expenseHandler.GetExpense)
	protected.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	protected.DELETE("/expenses/:id", expenseHandler.DeleteExpense)
	protected.POST("/expenses/:id/toggle-paid", expenseHandler.TogglePaid)

	protected.GET("/incomes", incomeHandler.ListIncomes)
	protected.POST("/incomes", incomeHandler.CreateIncome)
	protected.GET("/incomes/:id", incomeHandler.GetIncome)
	protected.PUT("/incomes/:id", incomeHandler.UpdateIncome)
	protected.DELETE("/incomes/:id", incomeHandler.DeleteIncome)

	protected.GET("/dashboard", dashboardHandler.GetDashboard)
	protected.POST("/forecast", dashboardHandler.ComputeForecast)

	if cfg.IsDevelopment() {
		generator := services.NewSampleDataGenerator(categoryRepo, expenseRepo, incomeRepo,
			auditService, dashboardService, metrics, logger, cfg.Forecast.SampleSeed)
		devHandler := handlers.NewDevHandler(generator)
		protected.POST("/dev/sample-data", devHandler.GenerateSampleData)
		logger.Warn("Development routes enabled", "path", "/api/v1/dev")
	}

	return &server{echo: e, cacheMgr: cacheMgr, rateLimiter: rateLimiter}
}

func (s *server) httpServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadTimeout:       s.echo.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.echo.Server.WriteTimeout,
	}
}
