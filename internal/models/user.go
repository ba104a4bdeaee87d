package models

import (
	"time"
)

// SubscriptionTier represents a user's plan level
type SubscriptionTier string

const (
	TierFree SubscriptionTier = "free"
	TierPro  SubscriptionTier = "pro"
)

// User represents a registered user account. UserID is an opaque
// string ("user_<hex>") generated at signup, not a database sequence.
type User struct {
	UserID           string           `gorm:"primaryKey;size:40" json:"user_id"`
	Username         string           `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash     string           `gorm:"size:255;not null" json:"-"`
	Email            string           `gorm:"size:100;not null" json:"email"`
	CreatedAt        time.Time        `json:"created_at"`
	LastLogin        *time.Time       `json:"last_login"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	SubscriptionTier SubscriptionTier `gorm:"size:20;default:'free'" json:"subscription_tier"`

	// Relations. Settings and analyses are removed with the user;
	// reset codes reference the username only and are left behind.
	Analyses []AnalysisRecord `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Settings *UserSettings    `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
