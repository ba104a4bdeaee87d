package repository

import (
	"errors"

	"github.com/hedge-analytics/internal/models"
	"gorm.io/gorm"
)

// StatsRepository reads the user_activity_stats view
type StatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetPaginated reads activity rows ordered by most recent analysis.
// The view only contains active users; it is recomputed per query.
func (r *StatsRepository) GetPaginated(page, pageSize int) ([]models.UserActivityStats, int64, error) {
	var rows []models.UserActivityStats
	var total int64

	if err := r.db.Table("user_activity_stats").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	result := r.db.Table("user_activity_stats").
		Order("last_analysis_time DESC NULLS LAST").
		Offset(offset).
		Limit(pageSize).
		Find(&rows)

	return rows, total, result.Error
}

// GetByUserID reads one user's activity row. Returns ErrUserNotFound
// for unknown or inactive users, which the view excludes.
func (r *StatsRepository) GetByUserID(userID string) (*models.UserActivityStats, error) {
	var row models.UserActivityStats
	result := r.db.Table("user_activity_stats").Where("user_id = ?", userID).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &row, nil
}
