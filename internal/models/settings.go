package models

import (
	"time"
)

// Default settings assigned at signup
const (
	DefaultCostPrice  = 100000.00
	DefaultInventory  = 100.00
	DefaultHedgeRatio = 0.80
	DefaultThemeColor = "blue"
)

// UserSettings holds per-user configuration, one row per user. The
// updated_at column is maintained by the update_updated_at_column
// trigger on every UPDATE, whatever value the writer supplies.
type UserSettings struct {
	SettingID         string    `gorm:"primaryKey;size:40" json:"setting_id"`
	UserID            string    `gorm:"size:40;not null;uniqueIndex" json:"user_id"`
	DefaultCostPrice  float64   `gorm:"type:decimal(20,2);default:100000.00" json:"default_cost_price"`
	DefaultInventory  float64   `gorm:"type:decimal(20,2);default:100.00" json:"default_inventory"`
	DefaultHedgeRatio float64   `gorm:"type:decimal(5,2);default:0.80" json:"default_hedge_ratio"`
	ThemeColor        string    `gorm:"size:20;default:'blue'" json:"theme_color"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for UserSettings model
func (UserSettings) TableName() string {
	return "user_settings"
}

// NewDefaultSettings returns a settings row with signup defaults
func NewDefaultSettings(settingID, userID string) *UserSettings {
	return &UserSettings{
		SettingID:         settingID,
		UserID:            userID,
		DefaultCostPrice:  DefaultCostPrice,
		DefaultInventory:  DefaultInventory,
		DefaultHedgeRatio: DefaultHedgeRatio,
		ThemeColor:        DefaultThemeColor,
	}
}
