package repository

import (
	"errors"

	"github.com/hedge-analytics/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCacheEntryNotFound = errors.New("cache entry not found")
)

// CacheRepository handles market-data cache access
type CacheRepository struct {
	db *gorm.DB
}

// NewCacheRepository creates a new CacheRepository
func NewCacheRepository(db *gorm.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// GetLatest retrieves the most recently updated entry for a symbol and
// data type. Expiry is checked by the caller.
func (r *CacheRepository) GetLatest(symbol string, dataType models.DataType) (*models.CacheEntry, error) {
	var entry models.CacheEntry
	result := r.db.Where("symbol = ? AND data_type = ?", symbol, dataType).
		Order("last_updated DESC").
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCacheEntryNotFound
		}
		return nil, result.Error
	}
	return &entry, nil
}

// Replace deletes any previous entries for the symbol and data type and
// inserts the new one, in a single transaction
func (r *CacheRepository) Replace(entry *models.CacheEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("symbol = ? AND data_type = ?", entry.Symbol, entry.DataType).
			Delete(&models.CacheEntry{}).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// CountAll counts all cache entries
func (r *CacheRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.CacheEntry{}).Count(&count).Error
	return count, err
}
