package repository

import (
	"errors"

	"github.com/hedge-analytics/internal/models"
	"gorm.io/gorm"
)

var (
	ErrResetCodeNotFound = errors.New("reset code not found")
)

// ResetCodeRepository handles password-reset code data access
type ResetCodeRepository struct {
	db *gorm.DB
}

// NewResetCodeRepository creates a new ResetCodeRepository
func NewResetCodeRepository(db *gorm.DB) *ResetCodeRepository {
	return &ResetCodeRepository{db: db}
}

// Create creates a new reset code
func (r *ResetCodeRepository) Create(code *models.ResetCode) error {
	return r.db.Create(code).Error
}

// GetUnused retrieves the newest unused code matching username and code
// value. Expiry is checked by the caller, not the query.
func (r *ResetCodeRepository) GetUnused(username, resetCode string) (*models.ResetCode, error) {
	var code models.ResetCode
	result := r.db.Where("username = ? AND reset_code = ? AND is_used = ?", username, resetCode, false).
		Order("created_at DESC").
		First(&code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrResetCodeNotFound
		}
		return nil, result.Error
	}
	return &code, nil
}

// MarkUsed consumes a code so it cannot be redeemed again
func (r *ResetCodeRepository) MarkUsed(codeID string) error {
	return r.db.Model(&models.ResetCode{}).Where("code_id = ?", codeID).Update("is_used", true).Error
}

// CountByUsername counts codes referencing a username, expired or not
func (r *ResetCodeRepository) CountByUsername(username string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ResetCode{}).Where("username = ?", username).Count(&count).Error
	return count, err
}
