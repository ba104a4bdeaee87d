package service

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/hedge-analytics/internal/models"
)

// SyntheticFetcher generates a deterministic daily price series per
// symbol. It stands in for the real market-data upstream, which is out
// of scope; the series is a seeded random walk so repeated fetches for
// a symbol within a day agree.
type SyntheticFetcher struct {
	Days      int
	BasePrice float64
}

// NewSyntheticFetcher creates a fetcher producing 90-day series around
// a lithium-carbonate-like base price
func NewSyntheticFetcher() *SyntheticFetcher {
	return &SyntheticFetcher{
		Days:      90,
		BasePrice: 95000,
	}
}

// FetchPriceSeries implements SeriesFetcher
func (f *SyntheticFetcher) FetchPriceSeries(_ context.Context, symbol string) ([]models.PricePoint, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	h := fnv.New64a()
	h.Write([]byte(symbol))
	h.Write([]byte(today.Format("2006-01-02")))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	points := make([]models.PricePoint, 0, f.Days)
	price := f.BasePrice * (0.8 + 0.4*rng.Float64())
	for i := f.Days - 1; i >= 0; i-- {
		// Daily drift within roughly ±1.5%
		price *= 1 + (rng.Float64()-0.5)*0.03
		price = math.Round(price*100) / 100
		points = append(points, models.PricePoint{
			Date:  today.AddDate(0, 0, -i),
			Price: price,
		})
	}
	return points, nil
}
