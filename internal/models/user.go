package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a seller account.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name     string `json:"name" gorm:"type:varchar(100)" validate:"required"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash; no json tag for security

	// Pending password-reset state. An empty ResetCode means no reset is
	// pending; both fields are cleared when a reset is consumed.
	ResetCode   string    `json:"-" gorm:"type:varchar(6)"`
	ResetExpiry time.Time `json:"-"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
