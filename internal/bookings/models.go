package bookings

import (
	"time"

	"villagestay/internal/listings"
	"villagestay/internal/users"

	"github.com/google/uuid"
)

// Booking is the financial and legal record of a stay. Monetary fields
// are computed once at creation and never recomputed afterwards, so a
// later price change on the listing cannot alter an existing booking.
type Booking struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ListingID  uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;index"`
	TouristID  uuid.UUID `json:"tourist_id" gorm:"type:uuid;not null;index"`
	HostID     uuid.UUID `json:"host_id" gorm:"type:uuid;not null;index"`
	BookingRef string    `json:"booking_ref" gorm:"uniqueIndex;not null;size:14"`

	CheckIn  time.Time `json:"check_in" gorm:"type:date;not null"`
	CheckOut time.Time `json:"check_out" gorm:"type:date;not null"`
	Guests   int       `json:"guests" gorm:"not null;check:guests > 0"`
	Nights   int       `json:"nights" gorm:"not null;check:nights > 0"`

	BaseAmount            float64 `json:"base_amount" gorm:"type:decimal(12,2);not null"`
	PlatformFee           float64 `json:"platform_fee" gorm:"type:decimal(12,2);not null"`
	CommunityContribution float64 `json:"community_contribution" gorm:"type:decimal(12,2);not null"`
	HostEarnings          float64 `json:"host_earnings" gorm:"type:decimal(12,2);not null"`
	TotalAmount           float64 `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	RefundAmount          float64 `json:"refund_amount" gorm:"type:decimal(12,2);default:0"`

	Status        Status        `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(20);not null;default:'unpaid'"`

	SpecialRequests string `json:"special_requests" gorm:"type:text"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	Listing *listings.Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Tourist *users.User       `json:"tourist,omitempty" gorm:"foreignKey:TouristID"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsCancelled checks if the booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// NightCount returns the number of nights between check-in and
// check-out for the half-open range [CheckIn, CheckOut).
func NightCount(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
