package listings

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a bookable rural property offered by a host.
type Listing struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	HostID        uuid.UUID `json:"host_id" gorm:"type:uuid;index;not null"`
	Title         string    `json:"title" gorm:"not null;size:255"`
	Description   string    `json:"description" gorm:"type:text"`
	Location      string    `json:"location" gorm:"not null;size:255"`
	PricePerNight float64   `json:"price_per_night" gorm:"not null;check:price_per_night > 0"`
	MaxGuests     int       `json:"max_guests" gorm:"not null;check:max_guests > 0"`

	// IsActive is the soft-delete flag; IsApproved is set by an admin.
	// A listing is bookable only when both are true.
	IsActive   bool `json:"is_active" gorm:"default:true"`
	IsApproved bool `json:"is_approved" gorm:"default:false"`

	// AvailabilityCalendar holds host-blocked dates as a sparse map of
	// ISO date -> false. Absence means the date is unconstrained by the
	// host; entries are only ever added (block) or removed (free).
	AvailabilityCalendar Calendar `json:"availability_calendar" gorm:"type:jsonb;default:'{}'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Listing
func (Listing) TableName() string {
	return "listings"
}

// IsBookable reports whether the listing can accept new bookings.
func (l *Listing) IsBookable() bool {
	return l.IsActive && l.IsApproved
}
