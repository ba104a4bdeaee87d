package service

import (
	"errors"

	"github.com/hedge-analytics/internal/models"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/pkg/idgen"
)

// SettingsService handles per-user configuration
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// UpdateSettingsRequest is a partial settings update. Nil fields are
// left untouched.
type UpdateSettingsRequest struct {
	DefaultCostPrice  *float64 `json:"default_cost_price" binding:"omitempty,gt=0"`
	DefaultInventory  *float64 `json:"default_inventory" binding:"omitempty,gt=0"`
	DefaultHedgeRatio *float64 `json:"default_hedge_ratio" binding:"omitempty,gte=0,lte=1"`
	ThemeColor        *string  `json:"theme_color" binding:"omitempty,max=20"`
}

// GetOrCreate returns a user's settings, creating the default row if
// the user has none yet
func (s *SettingsService) GetOrCreate(userID string) (*models.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrSettingsNotFound) {
		return nil, err
	}

	settingID, err := idgen.NewSettingID()
	if err != nil {
		return nil, err
	}
	settings = models.NewDefaultSettings(settingID, userID)
	if err := s.settingsRepo.Create(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Update applies the non-nil fields of the request and returns the
// fresh row. updated_at comes back stamped by the database trigger.
func (s *SettingsService) Update(userID string, req *UpdateSettingsRequest) (*models.UserSettings, error) {
	fields := map[string]interface{}{}
	if req.DefaultCostPrice != nil {
		fields["default_cost_price"] = *req.DefaultCostPrice
	}
	if req.DefaultInventory != nil {
		fields["default_inventory"] = *req.DefaultInventory
	}
	if req.DefaultHedgeRatio != nil {
		fields["default_hedge_ratio"] = *req.DefaultHedgeRatio
	}
	if req.ThemeColor != nil {
		fields["theme_color"] = *req.ThemeColor
	}

	if len(fields) > 0 {
		if err := s.settingsRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	return s.settingsRepo.GetByUserID(userID)
}
