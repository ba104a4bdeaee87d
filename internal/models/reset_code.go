package models

import (
	"time"
)

// ResetCode represents a password-reset verification code. It references
// the user by username only, with no foreign key: deleting an account
// leaves its codes behind until cleanup_expired_data reaps them.
type ResetCode struct {
	CodeID    string    `gorm:"primaryKey;size:40" json:"code_id"`
	Username  string    `gorm:"size:50;not null;index" json:"username"`
	ResetCode string    `gorm:"size:6;not null" json:"reset_code"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
}

// TableName specifies the table name for ResetCode model
func (ResetCode) TableName() string {
	return "reset_codes"
}

// IsExpired returns true if the code has passed its expiry time
func (c *ResetCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Usable returns true if the code can still be consumed
func (c *ResetCode) Usable(now time.Time) bool {
	return !c.IsUsed && !c.IsExpired(now)
}
