package bookings

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// PaymentStatus tracks whether the guest has paid for a booking.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// activeStatuses are the states that hold dates against a listing.
// Everything else releases the date range.
var activeStatuses = []Status{StatusPending, StatusConfirmed}

// IsActive reports whether the status holds dates on the listing.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// CanTransitionTo enforces the lifecycle state machine:
//
//	pending   -> confirmed | cancelled | expired
//	confirmed -> completed | cancelled
//
// Terminal states transition nowhere.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled || target == StatusExpired
	case StatusConfirmed:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}
