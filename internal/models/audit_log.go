package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuditActionRegister      = "register"
	AuditActionLogin         = "login"
	AuditActionFailedLogin   = "failed_login"
	AuditActionAccountLocked = "account_locked"
	AuditActionCreate        = "create"
	AuditActionUpdate        = "update"
	AuditActionDelete        = "delete"
	AuditActionPaidToggled   = "paid_toggled"
	AuditActionSampleData    = "sample_data_generated"

	AuditResourceUser     = "user"
	AuditResourceCategory = "category"
	AuditResourceExpense  = "expense"
	AuditResourceIncome   = "income"
)

// AuditLog records one ledger or account event. UserID is nil for events
// that cannot be tied to a user, such as a login for an unknown username.
type AuditLog struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	UserID     *uuid.UUID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string        `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource   string        `gorm:"type:varchar(100);not null" json:"resource"`
	ResourceID string        `gorm:"type:varchar(255)" json:"resource_id,omitempty"`
	IPAddress  string        `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent  string        `gorm:"type:text" json:"user_agent,omitempty"`
	Metadata   AuditMetadata `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (al *AuditLog) BeforeCreate(*gorm.DB) error {
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}
	if al.CreatedAt.IsZero() {
		al.CreatedAt = time.Now().UTC()
	}
	return nil
}

// With sets one metadata key and returns the entry for chaining.
func (al *AuditLog) With(key string, value interface{}) *AuditLog {
	if al.Metadata == nil {
		al.Metadata = AuditMetadata{}
	}
	al.Metadata[key] = value
	return al
}

// AuditMetadata is a free-form JSON object kept in a text column, so the
// same schema serves PostgreSQL and SQLite.
type AuditMetadata map[string]interface{}

func (m AuditMetadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(map[string]interface{}(m))
	if err != nil {
		return nil, fmt.Errorf("marshal audit metadata: %w", err)
	}
	return string(raw), nil
}

func (m *AuditMetadata) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AuditMetadata", src)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, (*map[string]interface{})(m))
}
