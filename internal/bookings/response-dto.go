package bookings

import (
	"time"

	"villagestay/internal/listings"
)

// BookingResponse is the public view of a booking.
type BookingResponse struct {
	ID         string `json:"id"`
	BookingRef string `json:"booking_ref"`
	ListingID  string `json:"listing_id"`
	TouristID  string `json:"tourist_id"`
	HostID     string `json:"host_id"`

	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Nights   int    `json:"nights"`

	BaseAmount            float64 `json:"base_amount"`
	PlatformFee           float64 `json:"platform_fee"`
	CommunityContribution float64 `json:"community_contribution"`
	HostEarnings          float64 `json:"host_earnings"`
	TotalAmount           float64 `json:"total_amount"`
	RefundAmount          float64 `json:"refund_amount,omitempty"`

	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	SpecialRequests string `json:"special_requests,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	ListingTitle string `json:"listing_title,omitempty"`
}

// PaymentIntentInfo describes the payment intent opened for a new booking.
type PaymentIntentInfo struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
}

// CreateBookingResponse pairs a fresh pending booking with its payment
// intent.
type CreateBookingResponse struct {
	Booking BookingResponse   `json:"booking"`
	Payment PaymentIntentInfo `json:"payment"`
}

// CancellationResponse reports the refund outcome of a cancellation.
type CancellationResponse struct {
	Booking      BookingResponse `json:"booking"`
	RefundAmount float64         `json:"refund_amount"`
	RefundRate   float64         `json:"refund_rate"`
}

// PaginatedBookings wraps a bookings page.
type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ToResponse converts a Booking to its public view.
func ToResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:                    b.ID.String(),
		BookingRef:            b.BookingRef,
		ListingID:             b.ListingID.String(),
		TouristID:             b.TouristID.String(),
		HostID:                b.HostID.String(),
		CheckIn:               listings.FormatDate(b.CheckIn),
		CheckOut:              listings.FormatDate(b.CheckOut),
		Guests:                b.Guests,
		Nights:                b.Nights,
		BaseAmount:            b.BaseAmount,
		PlatformFee:           b.PlatformFee,
		CommunityContribution: b.CommunityContribution,
		HostEarnings:          b.HostEarnings,
		TotalAmount:           b.TotalAmount,
		RefundAmount:          b.RefundAmount,
		Status:                b.Status,
		PaymentStatus:         b.PaymentStatus,
		SpecialRequests:       b.SpecialRequests,
		ConfirmedAt:           b.ConfirmedAt,
		CancelledAt:           b.CancelledAt,
		CompletedAt:           b.CompletedAt,
		CreatedAt:             b.CreatedAt,
	}
	if b.Listing != nil {
		resp.ListingTitle = b.Listing.Title
	}
	return resp
}
