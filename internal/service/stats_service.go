package service

import (
	"github.com/hedge-analytics/internal/models"
	"github.com/hedge-analytics/internal/repository"
)

// StatsService exposes the user_activity_stats view
type StatsService struct {
	statsRepo *repository.StatsRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo *repository.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// ActivityPage returns a page of per-user activity aggregates
func (s *StatsService) ActivityPage(page, pageSize int) ([]models.UserActivityStats, int64, error) {
	return s.statsRepo.GetPaginated(page, pageSize)
}

// ActivityForUser returns the aggregate row for one active user
func (s *StatsService) ActivityForUser(userID string) (*models.UserActivityStats, error) {
	return s.statsRepo.GetByUserID(userID)
}
