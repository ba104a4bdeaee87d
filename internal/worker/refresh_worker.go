package worker

import (
	"context"
	"log"
	"time"

	"github.com/hedge-analytics/internal/service"
)

// RefreshWorker keeps the market cache warm for the tracked symbols so
// interactive requests rarely pay the upstream fetch
type RefreshWorker struct {
	marketService *service.MarketService
	symbols       []string
	interval      time.Duration
	stopChan      chan struct{}
}

// NewRefreshWorker creates a new RefreshWorker
func NewRefreshWorker(marketService *service.MarketService, symbols []string, interval time.Duration) *RefreshWorker {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &RefreshWorker{
		marketService: marketService,
		symbols:       symbols,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the refresh loop
func (w *RefreshWorker) Start() {
	log.Printf("Refresh worker started for %d symbols with interval: %v", len(w.symbols), w.interval)

	w.refreshAll()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.refreshAll()
		case <-w.stopChan:
			log.Println("Refresh worker stopped")
			return
		}
	}
}

// Stop stops the refresh loop
func (w *RefreshWorker) Stop() {
	close(w.stopChan)
}

func (w *RefreshWorker) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, symbol := range w.symbols {
		if _, err := w.marketService.Refresh(ctx, symbol); err != nil {
			log.Printf("Refresh worker: refresh %s failed: %v", symbol, err)
		}
	}
}
