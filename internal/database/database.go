package database

import (
	"fmt"
	"log/slog"
	"time"

	"contas/internal/config"
	"contas/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func New(cfg *config.DatabaseConfig) (*DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dial, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite serializes writers; a single connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Expense{},
		&models.Income{},
		&models.AuditLog{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateIndexes adds the composite indexes the ledger listings and the
// dashboard snapshot load rely on.
func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_expenses_user_type ON expenses(user_id, expense_type)",
		"CREATE INDEX IF NOT EXISTS idx_expenses_user_paid ON expenses(user_id, paid)",
		"CREATE INDEX IF NOT EXISTS idx_incomes_user_date ON incomes(user_id, date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_incomes_user_type ON incomes(user_id, income_type)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_created ON audit_logs(user_id, created_at DESC)",
	}

	var failed int
	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			slog.Warn("Failed to create index", "query", query, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d indexes could not be created", failed, len(queries))
	}
	return nil
}

// Initialize connects and brings the schema up to date. Postgres uses the SQL
// migrations when AUTO_MIGRATE=true; otherwise, and always for sqlite, GORM
// AutoMigrate creates the tables.
func Initialize(cfg *config.Config) (*DB, error) {
	db, err := New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	migrated := false
	if cfg.Database.Driver == config.DriverPostgres {
		migrated, err = runSQLMigrations(&cfg.Database)
		if err != nil {
			slog.Warn("SQL migrations failed, falling back to AutoMigrate", "error", err)
		}
	}

	if !migrated {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := db.CreateIndexes(); err != nil {
		slog.Warn("Some indexes are missing", "error", err)
	}

	slog.Info("Database initialized", "driver", cfg.Database.Driver, "sql_migrations", migrated)
	return db, nil
}

func runSQLMigrations(cfg *config.DatabaseConfig) (bool, error) {
	sqlDB, err := OpenMigrationDB(cfg)
	if err != nil {
		return false, err
	}
	defer sqlDB.Close()

	return RunMigrationsIfEnabled(sqlDB, cfg.MigrationsPath)
}
