package bookings

import (
	"villagestay/internal/listings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// CreateBookingRequest is the guest-facing booking payload. Dates use
// YYYY-MM-DD; check_out is exclusive, so a one-night stay is
// check_in=D, check_out=D+1.
type CreateBookingRequest struct {
	ListingID       string `json:"listing_id" binding:"required,uuid"`
	CheckIn         string `json:"check_in" binding:"required,bookdate"`
	CheckOut        string `json:"check_out" binding:"required,bookdate"`
	Guests          int    `json:"guests" binding:"required,min=1"`
	SpecialRequests string `json:"special_requests" binding:"max=2000"`
}

// CompletePaymentRequest carries the gateway confirmation for a
// pending booking.
type CompletePaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

// CancelBookingRequest carries an optional cancellation reason.
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// BookingListQuery holds filters for booking history endpoints.
type BookingListQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status    string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled expired"`
	ListingID string `form:"listing_id" binding:"omitempty,uuid"`
	DateFrom  string `form:"date_from" binding:"omitempty,bookdate"`
	DateTo    string `form:"date_to" binding:"omitempty,bookdate"`
}

// RegisterValidators installs the custom `bookdate` rule on gin's
// validator engine. Call once at startup.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bookdate", func(fl validator.FieldLevel) bool {
			_, err := listings.ParseDate(fl.Field().String())
			return err == nil
		})
	}
}
