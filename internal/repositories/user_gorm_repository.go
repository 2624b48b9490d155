package repositories

import (
	"errors"
	"fmt"
	"time"

	"dailyreport/internal/apperrors"
	"dailyreport/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database. A duplicate email surfaces as
// apperrors.ErrConflict via GORM's translated duplicate-key error rather
// than by inspecting the driver's message text.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user with email %s: %w", user.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// SetResetCode stores a pending reset code and expiry for the user.
func (r *GORMUserRepository) SetResetCode(email, code string, expiry time.Time) error {
	res := r.db.Model(&models.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"reset_code":   code,
		"reset_expiry": expiry,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set reset code for %s: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
	}
	return nil
}

// UpdatePassword replaces the password hash and clears reset-code state.
func (r *GORMUserRepository) UpdatePassword(email, passwordHash string) error {
	res := r.db.Model(&models.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"password":     passwordHash,
		"reset_code":   "",
		"reset_expiry": time.Time{},
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update password for %s: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
	}
	return nil
}
