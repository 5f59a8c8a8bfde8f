package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundRateTiers(t *testing.T) {
	checkIn := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		cancelledAt time.Time
		want        float64
	}{
		{"ten days ahead", checkIn.AddDate(0, 0, -10), 1.0},
		{"exactly seven days", checkIn.AddDate(0, 0, -7), 1.0},
		{"just under seven days", checkIn.AddDate(0, 0, -7).Add(time.Hour), 0.5},
		{"five days ahead", checkIn.AddDate(0, 0, -5), 0.5},
		{"exactly three days", checkIn.AddDate(0, 0, -3), 0.5},
		{"just under three days", checkIn.AddDate(0, 0, -3).Add(time.Hour), 0},
		{"one day ahead", checkIn.AddDate(0, 0, -1), 0},
		{"same day", checkIn, 0},
		{"after check-in", checkIn.AddDate(0, 0, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RefundRate(checkIn, tt.cancelledAt))
		})
	}
}

func TestComputeRefund(t *testing.T) {
	checkIn := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	// Paid, 10 days ahead: full refund.
	assert.Equal(t, 3150.0, ComputeRefund(3150, PaymentPaid, checkIn, checkIn.AddDate(0, 0, -10)))

	// Paid, 5 days ahead: half, rounded to cents.
	assert.Equal(t, 1575.0, ComputeRefund(3150, PaymentPaid, checkIn, checkIn.AddDate(0, 0, -5)))
	assert.Equal(t, 500.25, ComputeRefund(1000.50, PaymentPaid, checkIn, checkIn.AddDate(0, 0, -5)))

	// Paid, 1 day ahead: nothing.
	assert.Equal(t, 0.0, ComputeRefund(3150, PaymentPaid, checkIn, checkIn.AddDate(0, 0, -1)))

	// Unpaid bookings never refund regardless of timing.
	assert.Equal(t, 0.0, ComputeRefund(3150, PaymentUnpaid, checkIn, checkIn.AddDate(0, 0, -30)))
}
