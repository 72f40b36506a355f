package handlers

import (
	"net/http"
	"testing"

	"contas/internal/database"
	apperrors "contas/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db := database.SetupTestDB(t)
	handler := NewHealthCheckHandler(db.DB)

	t.Run("healthy", func(t *testing.T) {
		c, rec := newContext(newTestEcho(), http.MethodGet, "/health", nil, uuid.Nil)
		require.NoError(t, handler.HealthCheck(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
		assert.Contains(t, rec.Body.String(), `"database":"sqlite"`)
	})

	t.Run("database closed", func(t *testing.T) {
		require.NoError(t, db.Close())

		c, rec := newContext(newTestEcho(), http.MethodGet, "/health", nil, uuid.Nil)
		require.NoError(t, handler.HealthCheck(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, string(apperrors.SystemServiceUnavailable), decodeError(t, rec).Error.Code)
	})
}
