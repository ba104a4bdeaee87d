package repository

import (
	"errors"
	"time"

	"github.com/hedge-analytics/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository handles user data access
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by its opaque user ID
func (r *UserRepository) GetByID(userID string) (*models.User, error) {
	var user models.User
	result := r.db.Where("user_id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetActiveByUsername retrieves a user by username, restricted to
// active accounts. Deactivated users cannot log in.
func (r *UserRepository) GetActiveByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.Where("username = ? AND is_active = ?", username, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetActiveByEmail retrieves an active user by email, used when a
// login is attempted with the account email instead of the username
func (r *UserRepository) GetActiveByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Where("email = ? AND is_active = ?", email, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// ExistsByUsername checks whether a username is taken
func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks whether an email is already registered
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateLastLogin stamps the last successful login time
func (r *UserRepository) UpdateLastLogin(userID string, at time.Time) error {
	return r.db.Model(&models.User{}).Where("user_id = ?", userID).Update("last_login", at).Error
}

// UpdatePasswordByUsername replaces the stored password hash
func (r *UserRepository) UpdatePasswordByUsername(username, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("username = ?", username).Update("password_hash", passwordHash).Error
}

// UpdatePasswordByUserID replaces the stored password hash for a user ID
func (r *UserRepository) UpdatePasswordByUserID(userID, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("user_id = ?", userID).Update("password_hash", passwordHash).Error
}

// Deactivate soft-disables an account without removing its rows
func (r *UserRepository) Deactivate(userID string) error {
	return r.db.Model(&models.User{}).Where("user_id = ?", userID).Update("is_active", false).Error
}

// Delete removes a user. The analysis_history and user_settings rows go
// with it via the FK cascade; reset_codes rows for the username stay.
func (r *UserRepository) Delete(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.User{}).Error
}
