package listings

// CreateListingRequest represents a host's listing creation payload.
type CreateListingRequest struct {
	Title         string  `json:"title" binding:"required,min=3,max=255"`
	Description   string  `json:"description" binding:"max=5000"`
	Location      string  `json:"location" binding:"required,min=2,max=255"`
	PricePerNight float64 `json:"price_per_night" binding:"required,gt=0"`
	MaxGuests     int     `json:"max_guests" binding:"required,min=1,max=50"`
}

// UpdateListingRequest represents a partial listing update.
type UpdateListingRequest struct {
	Title         *string  `json:"title" binding:"omitempty,min=3,max=255"`
	Description   *string  `json:"description" binding:"omitempty,max=5000"`
	Location      *string  `json:"location" binding:"omitempty,min=2,max=255"`
	PricePerNight *float64 `json:"price_per_night" binding:"omitempty,gt=0"`
	MaxGuests     *int     `json:"max_guests" binding:"omitempty,min=1,max=50"`
}

// UpdateAvailabilityRequest is the calendar command payload. The action
// is an explicit enum, never an open key/value merge into the calendar.
type UpdateAvailabilityRequest struct {
	Action   string `json:"action" binding:"required,oneof=block free"`
	CheckIn  string `json:"check_in" binding:"required,bookdate"`
	CheckOut string `json:"check_out" binding:"required,bookdate"`
}

// AvailabilityQuery is the public availability probe.
type AvailabilityQuery struct {
	CheckIn  string `form:"check_in" binding:"required,bookdate"`
	CheckOut string `form:"check_out" binding:"required,bookdate"`
}

// ListingListQuery holds browse filters.
type ListingListQuery struct {
	Page     int     `form:"page" binding:"omitempty,min=1"`
	Limit    int     `form:"limit" binding:"omitempty,min=1,max=100"`
	Location string  `form:"location"`
	MaxPrice float64 `form:"max_price" binding:"omitempty,gt=0"`
	Guests   int     `form:"guests" binding:"omitempty,min=1"`

	// Set server-side for host/admin views, never from client input.
	HostID            string `form:"-"`
	IncludeUnapproved bool   `form:"-"`
}
