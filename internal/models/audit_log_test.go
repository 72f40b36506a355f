package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_With(t *testing.T) {
	entry := (&AuditLog{Action: AuditActionPaidToggled, Resource: AuditResourceExpense}).
		With("paid", true).
		With("amount", "1500.00").
		With("paid", false)

	assert.Equal(t, AuditMetadata{"paid": false, "amount": "1500.00"}, entry.Metadata)
}

func TestAuditMetadata_RoundTrip(t *testing.T) {
	v, err := AuditMetadata{"expense_id": "e-1", "paid": true}.Value()
	require.NoError(t, err)
	require.IsType(t, "", v)

	for _, src := range []interface{}{v, []byte(v.(string))} {
		var scanned AuditMetadata
		require.NoError(t, scanned.Scan(src))
		assert.Equal(t, "e-1", scanned["expense_id"])
		assert.Equal(t, true, scanned["paid"])
	}
}

func TestAuditMetadata_Empty(t *testing.T) {
	v, err := AuditMetadata{}.Value()
	assert.NoError(t, err)
	assert.Nil(t, v)

	scanned := AuditMetadata{"stale": 1}
	assert.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)

	assert.NoError(t, scanned.Scan(""))
	assert.Nil(t, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestAuditLog_BeforeCreate(t *testing.T) {
	userID := uuid.New()
	log := &AuditLog{UserID: &userID, Action: AuditActionPaidToggled, Resource: AuditResourceExpense}

	assert.NoError(t, log.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, log.ID)
	assert.False(t, log.CreatedAt.IsZero())
	assert.Equal(t, "audit_logs", log.TableName())
}
