package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"contas/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const defaultMigrationsPath = "db/migrations"

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second

	ErrMigrationsNotFound = errors.New("migrations directory not found")
)

// MigrationRunner applies the SQL migrations in db/migrations and, when
// SEED_DATABASE=true, the default categories in db/seeds.
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
}

func NewMigrationRunner(db *sql.DB, migrationsPath string) *MigrationRunner {
	if migrationsPath == "" {
		migrationsPath = defaultMigrationsPath
	}
	return &MigrationRunner{
		db:             db,
		migrationsPath: migrationsPath,
		seedsPath:      filepath.Join(filepath.Dir(migrationsPath), "seeds"),
	}
}

// OpenMigrationDB opens a dedicated lib/pq connection for the runner so the
// GORM pool is not affected by migrate's advisory locks.
func OpenMigrationDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.MigrationURL())
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (mr *MigrationRunner) WaitForDatabase() error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = mr.db.Ping(); err == nil {
			slog.Info("Database is ready", "attempts", attempt)
			return nil
		}
		slog.Warn("Database not ready", "attempt", attempt, "max_attempts", maxRetries, "error", err)
		if attempt < maxRetries {
			time.Sleep(retryInterval)
		}
	}

	return fmt.Errorf("database not ready after %d attempts: %w", maxRetries, err)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		return nil, ErrMigrationsNotFound
	}

	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending migration. A missing migrations
// directory is not an error.
func (mr *MigrationRunner) RunMigrations() error {
	m, err := mr.newMigrate()
	if errors.Is(err, ErrMigrationsNotFound) {
		slog.Info("Skipping SQL migrations, directory not found", "path", mr.migrationsPath)
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		slog.Warn("Database is dirty, forcing migration version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("Schema is up to date", "version", version)
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		newVersion, _, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get new migration version: %w", err)
		}
		slog.Info("Applied migrations", "from", version, "to", newVersion)
	}

	return nil
}

// LoadSeeds executes every db/seeds/*.sql file. Seeds are written to be
// idempotent, so a failing file is logged and skipped.
func (mr *MigrationRunner) LoadSeeds() error {
	if os.Getenv("SEED_DATABASE") != "true" {
		return nil
	}

	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		slog.Info("Skipping seeds, directory not found", "path", mr.seedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			slog.Warn("Seed file failed", "file", filepath.Base(file), "error", err)
			continue
		}
		slog.Info("Seed file applied", "file", filepath.Base(file))
	}

	return nil
}

func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// RunMigrationsIfEnabled runs the SQL migrations when AUTO_MIGRATE=true.
// It returns false when the runner did not run, so the caller can fall back
// to GORM AutoMigrate.
func RunMigrationsIfEnabled(db *sql.DB, migrationsPath string) (bool, error) {
	if os.Getenv("AUTO_MIGRATE") != "true" {
		return false, nil
	}

	runner := NewMigrationRunner(db, migrationsPath)
	if _, err := os.Stat(runner.migrationsPath); os.IsNotExist(err) {
		slog.Info("AUTO_MIGRATE set but no migrations directory", "path", runner.migrationsPath)
		return false, nil
	}

	if err := runner.WaitForDatabase(); err != nil {
		return false, fmt.Errorf("database readiness check failed: %w", err)
	}
	if err := runner.RunMigrations(); err != nil {
		return false, fmt.Errorf("migration execution failed: %w", err)
	}
	if err := runner.LoadSeeds(); err != nil {
		slog.Warn("Seed loading failed", "error", err)
	}

	return true, nil
}
