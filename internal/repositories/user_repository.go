package repositories

import (
	"time"

	"dailyreport/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// SetResetCode stores a pending password-reset code and its expiry
	// instant for the user with the given email.
	SetResetCode(email, code string, expiry time.Time) error
	// UpdatePassword replaces the stored password hash and clears any
	// pending reset-code state in the same update.
	UpdatePassword(email, passwordHash string) error
}
