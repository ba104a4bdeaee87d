package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/hedge-analytics/internal/models"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/pkg/idgen"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNoPriceData = errors.New("no price data available")
)

// SeriesFetcher provides a price series for a symbol from upstream
type SeriesFetcher interface {
	FetchPriceSeries(ctx context.Context, symbol string) ([]models.PricePoint, error)
}

// SeriesUpdate is pushed to stream subscribers after a cache refresh
type SeriesUpdate struct {
	Symbol      string    `json:"symbol"`
	LatestPrice float64   `json:"latest_price"`
	Points      int       `json:"points"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MarketService serves price series through two cache layers: a Redis
// hot layer keyed per symbol, backed by the data_cache table. On a full
// miss (or expiry) the series is refetched, the table row replaced and
// subscribers notified.
type MarketService struct {
	cacheRepo *repository.CacheRepository
	redis     *redis.Client
	fetcher   SeriesFetcher
	cacheTTL  time.Duration

	subsMux     sync.RWMutex
	subscribers map[chan SeriesUpdate]struct{}
}

// NewMarketService creates a new MarketService
func NewMarketService(
	cacheRepo *repository.CacheRepository,
	redisClient *redis.Client,
	fetcher SeriesFetcher,
	cacheTTL time.Duration,
) *MarketService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &MarketService{
		cacheRepo:   cacheRepo,
		redis:       redisClient,
		fetcher:     fetcher,
		cacheTTL:    cacheTTL,
		subscribers: make(map[chan SeriesUpdate]struct{}),
	}
}

func redisKey(symbol string) string {
	return "market:price:" + symbol
}

// GetPriceSeries returns the cached series for a symbol, refetching
// from upstream when both cache layers miss
func (s *MarketService) GetPriceSeries(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	// Hot layer
	if data, err := s.redis.Get(ctx, redisKey(symbol)).Bytes(); err == nil {
		var points []models.PricePoint
		if err := json.Unmarshal(data, &points); err == nil && len(points) > 0 {
			return points, nil
		}
	}

	// data_cache layer
	now := time.Now().UTC()
	entry, err := s.cacheRepo.GetLatest(symbol, models.DataTypePrice)
	if err == nil && !entry.IsExpired(now) {
		var points []models.PricePoint
		if err := json.Unmarshal([]byte(entry.DataJSON), &points); err == nil && len(points) > 0 {
			// Backfill the hot layer for the remaining validity window
			s.redis.Set(ctx, redisKey(symbol), entry.DataJSON, time.Until(entry.ExpiresAt))
			return points, nil
		}
	}
	if err != nil && !errors.Is(err, repository.ErrCacheEntryNotFound) {
		return nil, err
	}

	return s.Refresh(ctx, symbol)
}

// LatestPrice returns the newest point of a symbol's series
func (s *MarketService) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	points, err := s.GetPriceSeries(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, ErrNoPriceData
	}
	return points[len(points)-1].Price, nil
}

// Refresh fetches a fresh series from upstream, overwrites the cache
// row for the symbol and notifies stream subscribers
func (s *MarketService) Refresh(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	points, err := s.fetcher.FetchPriceSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrNoPriceData
	}

	data, err := json.Marshal(points)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &models.CacheEntry{
		CacheID:     idgen.NewCacheID(string(models.DataTypePrice), symbol, now),
		Symbol:      symbol,
		DataType:    models.DataTypePrice,
		DataJSON:    string(data),
		LastUpdated: now,
		ExpiresAt:   now.Add(s.cacheTTL),
	}
	if err := s.cacheRepo.Replace(entry); err != nil {
		return nil, err
	}

	s.redis.Set(ctx, redisKey(symbol), data, s.cacheTTL)

	s.broadcast(SeriesUpdate{
		Symbol:      symbol,
		LatestPrice: points[len(points)-1].Price,
		Points:      len(points),
		UpdatedAt:   now,
	})

	return points, nil
}

// Subscribe registers a channel receiving cache-refresh updates.
// Slow subscribers miss updates rather than block the refresher.
func (s *MarketService) Subscribe() chan SeriesUpdate {
	ch := make(chan SeriesUpdate, 16)
	s.subsMux.Lock()
	s.subscribers[ch] = struct{}{}
	s.subsMux.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel
func (s *MarketService) Unsubscribe(ch chan SeriesUpdate) {
	s.subsMux.Lock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.subsMux.Unlock()
}

func (s *MarketService) broadcast(update SeriesUpdate) {
	s.subsMux.RLock()
	defer s.subsMux.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- update:
		default:
		}
	}
}
