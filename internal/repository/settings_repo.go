package repository

import (
	"errors"

	"github.com/hedge-analytics/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSettingsNotFound = errors.New("user settings not found")
)

// SettingsRepository handles per-user settings data access
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Create creates a settings row
func (r *SettingsRepository) Create(settings *models.UserSettings) error {
	return r.db.Create(settings).Error
}

// GetByUserID retrieves the settings row for a user
func (r *SettingsRepository) GetByUserID(userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	result := r.db.Where("user_id = ?", userID).First(&settings)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, result.Error
	}
	return &settings, nil
}

// UpdateFields applies a partial update to a user's settings row.
// updated_at is stamped by the database trigger, so it is never part
// of the update map.
func (r *SettingsRepository) UpdateFields(userID string, fields map[string]interface{}) error {
	delete(fields, "updated_at")
	result := r.db.Model(&models.UserSettings{}).Where("user_id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingsNotFound
	}
	return nil
}
