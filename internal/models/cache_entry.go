package models

import (
	"time"
)

// DataType classifies what a cache entry holds
type DataType string

const (
	DataTypePrice DataType = "price"
)

// CacheEntry represents one cached market-data payload for a symbol.
// Entries are overwritten on fetch and reaped by cleanup_expired_data
// once expires_at passes.
type CacheEntry struct {
	CacheID     string    `gorm:"primaryKey;size:80" json:"cache_id"`
	Symbol      string    `gorm:"size:50;not null;index" json:"symbol"`
	DataType    DataType  `gorm:"size:20;not null" json:"data_type"`
	DataJSON    string    `gorm:"column:data_json;type:text;not null" json:"data_json"`
	LastUpdated time.Time `json:"last_updated"`
	ExpiresAt   time.Time `gorm:"index;not null" json:"expires_at"`
}

// TableName specifies the table name for CacheEntry model
func (CacheEntry) TableName() string {
	return "data_cache"
}

// IsExpired returns true if the entry has passed its expiry time
func (e *CacheEntry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// PricePoint is one element of a cached price series
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}
