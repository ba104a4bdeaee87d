package repository

import (
	"errors"

	"github.com/hedge-analytics/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAnalysisNotFound = errors.New("analysis record not found")
)

// AnalysisRepository handles analysis history data access
type AnalysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new AnalysisRepository
func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create appends a new analysis record
func (r *AnalysisRepository) Create(record *models.AnalysisRecord) error {
	return r.db.Create(record).Error
}

// GetByIDAndUserID retrieves a record scoped to its owner
func (r *AnalysisRepository) GetByIDAndUserID(analysisID, userID string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	result := r.db.Where("analysis_id = ? AND user_id = ?", analysisID, userID).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, result.Error
	}
	return &record, nil
}

// GetByUserIDPaginated retrieves a user's history, newest first
func (r *AnalysisRepository) GetByUserIDPaginated(userID string, page, pageSize int) ([]models.AnalysisRecord, int64, error) {
	var records []models.AnalysisRecord
	var total int64

	if err := r.db.Model(&models.AnalysisRecord{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&records)

	return records, total, result.Error
}

// DeleteByIDAndUserID removes a record scoped to its owner. Returns
// ErrAnalysisNotFound when nothing matched.
func (r *AnalysisRepository) DeleteByIDAndUserID(analysisID, userID string) error {
	result := r.db.Where("analysis_id = ? AND user_id = ?", analysisID, userID).Delete(&models.AnalysisRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

// CountByUserID counts a user's analysis records
func (r *AnalysisRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.AnalysisRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
