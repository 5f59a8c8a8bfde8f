package listings

import "time"

// ListingResponse is the public view of a listing.
type ListingResponse struct {
	ID            string    `json:"id"`
	HostID        string    `json:"host_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight float64   `json:"price_per_night"`
	MaxGuests     int       `json:"max_guests"`
	IsActive      bool      `json:"is_active"`
	IsApproved    bool      `json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AvailabilityResponse answers an availability probe.
type AvailabilityResponse struct {
	ListingID   string `json:"listing_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	IsAvailable bool   `json:"is_available"`
}

// PaginatedListings wraps a listings page.
type PaginatedListings struct {
	Listings   []ListingResponse `json:"listings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ToResponse converts a Listing to its public view. The calendar is
// deliberately omitted; clients probe availability per date range.
func ToResponse(l *Listing) ListingResponse {
	return ListingResponse{
		ID:            l.ID.String(),
		HostID:        l.HostID.String(),
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: l.PricePerNight,
		MaxGuests:     l.MaxGuests,
		IsActive:      l.IsActive,
		IsApproved:    l.IsApproved,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}
