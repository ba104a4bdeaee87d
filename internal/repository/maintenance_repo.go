package repository

import (
	"gorm.io/gorm"
)

// MaintenanceRepository invokes database-side maintenance routines
type MaintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new MaintenanceRepository
func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// CleanupExpiredData runs the cleanup_expired_data routine, deleting
// every cache entry and reset code whose expiry has passed. Safe to
// call repeatedly; with nothing expired it is a no-op.
func (r *MaintenanceRepository) CleanupExpiredData() error {
	return r.db.Exec("SELECT cleanup_expired_data()").Error
}
