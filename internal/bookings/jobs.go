package bookings

import (
	"context"
	"log"
	"time"
)

// JobProcessor handles background jobs for booking maintenance
type JobProcessor struct {
	service Service
	config  *JobConfig
	done    chan struct{}
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	ExpiryCheckInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		ExpiryCheckInterval: 1 * time.Minute,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	go jp.startExpiryProcessor(ctx)
	log.Println("Booking background jobs started")
}

// Stop stops all background jobs
func (jp *JobProcessor) Stop() {
	close(jp.done)
	log.Println("Booking background jobs stopped")
}

// startExpiryProcessor sweeps stale pending holds. The overlap query
// already ignores stale holds, so the sweep only tidies statuses for
// reads and reports.
func (jp *JobProcessor) startExpiryProcessor(ctx context.Context) {
	ticker := time.NewTicker(jp.config.ExpiryCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			jp.processExpiredBookings(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) processExpiredBookings(ctx context.Context) {
	expired, err := jp.service.ProcessExpiredBookings(ctx)
	if err != nil {
		log.Printf("Error expiring stale bookings: %v", err)
		return
	}

	if expired > 0 {
		log.Printf("Expired %d stale pending bookings", expired)
	}
}
