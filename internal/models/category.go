package models

import (
	"errors"
	"regexp"
	"time"

	"contas/internal/forecast"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrInvalidCategoryColor = errors.New("color must be a hex value like #1E88E5")

	hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Category groups expenses and incomes. Categories are shared by all users.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Icon        string    `gorm:"type:varchar(50)" json:"icon,omitempty"`
	Color       string    `gorm:"type:varchar(20)" json:"color,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	return c.Validate()
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return c.Validate()
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	if len(c.Name) > 100 {
		return errors.New("category name too long")
	}
	if len(c.Icon) > 50 {
		return errors.New("category icon too long")
	}
	if c.Color != "" && !hexColorRegex.MatchString(c.Color) {
		return ErrInvalidCategoryColor
	}
	return nil
}

// ToForecast converts the category into the engine's input shape.
func (c *Category) ToForecast() forecast.Category {
	return forecast.Category{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
	}
}

func (c *Category) TableName() string {
	return "categories"
}
