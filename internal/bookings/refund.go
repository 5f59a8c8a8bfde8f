package bookings

import "time"

// Refund policy tiers, keyed on full days between the cancellation
// instant and check-in midnight UTC:
//
//	>= 7 days  -> 100% of total
//	>= 3 days  ->  50% of total
//	<  3 days  ->   0%
const (
	fullRefundDays = 7
	halfRefundDays = 3
)

// RefundRate returns the refund fraction for a cancellation happening
// at the given instant.
func RefundRate(checkIn, cancelledAt time.Time) float64 {
	days := daysUntilCheckIn(checkIn, cancelledAt)
	switch {
	case days >= fullRefundDays:
		return 1.0
	case days >= halfRefundDays:
		return 0.5
	default:
		return 0
	}
}

// ComputeRefund returns the amount refunded to the guest when a paid
// booking is cancelled. Unpaid bookings never refund anything.
func ComputeRefund(totalAmount float64, paymentStatus PaymentStatus, checkIn, cancelledAt time.Time) float64 {
	if paymentStatus != PaymentPaid {
		return 0
	}
	return round2(totalAmount * RefundRate(checkIn, cancelledAt))
}

// daysUntilCheckIn truncates toward zero: cancelling 6 days and 23
// hours ahead counts as 6 days, not 7.
func daysUntilCheckIn(checkIn, cancelledAt time.Time) int {
	diff := checkIn.Sub(cancelledAt)
	if diff <= 0 {
		return 0
	}
	return int(diff.Hours() / 24)
}
