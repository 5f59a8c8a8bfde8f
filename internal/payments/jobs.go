package payments

import (
	"context"
	"log"
	"time"
)

// JobProcessor re-drives unsent refunds and payouts in the background.
type JobProcessor struct {
	service Service
	period  time.Duration
	done    chan struct{}
}

// NewJobProcessor creates a new dispatch retry processor
func NewJobProcessor(service Service, period time.Duration) *JobProcessor {
	if period <= 0 {
		period = 5 * time.Minute
	}
	return &JobProcessor{
		service: service,
		period:  period,
		done:    make(chan struct{}),
	}
}

// Start starts the dispatch retry loop
func (jp *JobProcessor) Start(ctx context.Context) {
	go jp.run(ctx)
	log.Println("Payment dispatch retry job started")
}

// Stop stops the dispatch retry loop
func (jp *JobProcessor) Stop() {
	close(jp.done)
	log.Println("Payment dispatch retry job stopped")
}

func (jp *JobProcessor) run(ctx context.Context) {
	ticker := time.NewTicker(jp.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			jp.retryDispatches(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) retryDispatches(ctx context.Context) {
	sent, err := jp.service.RetryPendingDispatches(ctx)
	if err != nil {
		log.Printf("Error retrying payment dispatches: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("Sent %d pending payment dispatches", sent)
	}
}
