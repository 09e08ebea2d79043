package jobs

import (
	"log"
	"time"

	"github.com/restobook/restobook-backend/internal/storage"
)

// CleanupJob periodically sweeps expired login codes out of the store.
// Expiry is enforced lazily at verification time regardless; the sweep
// only keeps abandoned codes from accumulating over the process
// lifetime.
type CleanupJob struct {
	store    storage.Store
	interval time.Duration
	stop     chan struct{}
}

// NewCleanupJob creates a new cleanup job scheduler
func NewCleanupJob(store storage.Store, interval time.Duration) *CleanupJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CleanupJob{
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the sweep loop
func (j *CleanupJob) Start() {
	log.Printf("Starting login code cleanup job (every %v)", j.interval)
	go j.run()
}

// Stop halts the sweep loop
func (j *CleanupJob) Stop() {
	close(j.stop)
	log.Println("Stopping login code cleanup job...")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := j.store.SweepExpiredCodes(); removed > 0 {
				log.Printf("🧹 Swept %d expired login code(s)", removed)
			}
		case <-j.stop:
			return
		}
	}
}
