package worker

import (
	"log"
	"time"

	"github.com/hedge-analytics/internal/repository"
)

// CleanupWorker periodically invokes the cleanup_expired_data routine.
// The routine itself defines no schedule; this worker owns it.
type CleanupWorker struct {
	maintenanceRepo *repository.MaintenanceRepository
	interval        time.Duration
	stopChan        chan struct{}
}

// NewCleanupWorker creates a new CleanupWorker
func NewCleanupWorker(maintenanceRepo *repository.MaintenanceRepository, interval time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupWorker{
		maintenanceRepo: maintenanceRepo,
		interval:        interval,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the cleanup loop. One pass runs immediately so expired
// rows from previous downtime don't wait a full interval.
func (w *CleanupWorker) Start() {
	log.Printf("Cleanup worker started with interval: %v", w.interval)

	w.runOnce()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce()
		case <-w.stopChan:
			log.Println("Cleanup worker stopped")
			return
		}
	}
}

// Stop stops the cleanup loop
func (w *CleanupWorker) Stop() {
	close(w.stopChan)
}

func (w *CleanupWorker) runOnce() {
	if err := w.maintenanceRepo.CleanupExpiredData(); err != nil {
		log.Printf("Cleanup worker: cleanup_expired_data failed: %v", err)
	}
}
