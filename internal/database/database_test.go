package database

import (
	"path/filepath"
	"testing"

	"contas/internal/config"
	"contas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnsupportedDriver(t *testing.T) {
	db, err := New(&config.DatabaseConfig{Driver: "oracle"})

	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestInitialize_SQLite(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "contas.db"),
		},
	}

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.HealthCheck())
	for _, table := range []string{"users", "categories", "expenses", "incomes", "audit_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Expense{}, "idx_expenses_user_date"))

	// indexes are idempotent
	assert.NoError(t, db.CreateIndexes())
}

func TestSetupTestDB_UserHelpers(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	user := CreateTestUser(t, db, "helena")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "helena").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, "helena@example.com", user.Email)
}
