package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"villagestay/internal/listings"
	"villagestay/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Core booking operations
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByRef(ctx context.Context, ref string) (*Booking, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) error

	// Listing history operations
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetHostBookings(ctx context.Context, hostID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// Concurrency-safe booking creation
	CreateBookingWithAvailabilityCheck(ctx context.Context, booking *Booking, staleBefore time.Time) error

	// Availability queries
	HasActiveOverlap(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time, staleBefore time.Time) (bool, error)
	ReferenceExists(ctx context.Context, ref string) (bool, error)

	// Background maintenance
	ExpireStalePending(ctx context.Context, staleBefore time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "Booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBookingByRef(ctx context.Context, ref string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("booking_ref = ?", ref).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "Booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

// TransitionStatus moves a booking between states with a compare-and-swap
// on the current status. A concurrent transition loses the race and gets
// an invalid-state error instead of silently double-applying.
func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindInvalidState, "Booking is no longer %s", from)
	}
	return nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("tourist_id = ?", userID)
	return r.paginate(base, query)
}

func (r *repository) GetHostBookings(ctx context.Context, hostID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("host_id = ?", hostID)
	return r.paginate(base, query)
}

func (r *repository) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	base := r.db.WithContext(ctx).Model(&Booking{})
	return r.paginate(base, query)
}

func (r *repository) paginate(base *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	base = r.applyFilters(base, query)

	if err := base.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := base.
		Preload("Listing").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

// CreateBookingWithAvailabilityCheck inserts a booking atomically with
// date-range validation. The listing row is locked FOR UPDATE so
// concurrent creations on the same listing serialize; the loser of the
// race re-runs the overlap query against the winner's committed row.
func (r *repository) CreateBookingWithAvailabilityCheck(ctx context.Context, booking *Booking, staleBefore time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the listing row to serialize bookings per listing
		var listing listings.Listing
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", booking.ListingID).
			First(&listing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.KindNotFound, "Listing not found")
			}
			return fmt.Errorf("failed to lock listing: %w", err)
		}

		// 2. Check the listing can be booked at all
		if !listing.IsBookable() {
			return apperrors.New(apperrors.KindUnavailable, "Listing is not available for booking")
		}
		if booking.Guests > listing.MaxGuests {
			return apperrors.Newf(apperrors.KindValidation, "Listing accommodates at most %d guests", listing.MaxGuests)
		}

		// 3. Check host-blocked dates
		if date, blocked := listing.AvailabilityCalendar.FirstBlockedDate(booking.CheckIn, booking.CheckOut); blocked {
			return apperrors.Newf(apperrors.KindConflict, "Listing is unavailable on %s", date)
		}

		// 4. Expire stale pending holds on this listing in place. The
		// storage exclusion constraint counts pending rows, so they must
		// actually flip before an overlapping insert can land.
		err = tx.Model(&Booking{}).
			Where("listing_id = ? AND status = ? AND created_at < ?", booking.ListingID, StatusPending, staleBefore).
			Updates(map[string]interface{}{
				"status":     StatusExpired,
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to expire stale holds: %w", err)
		}

		// 5. Check overlap against live bookings
		overlaps, err := activeOverlapQuery(tx, booking.ListingID, booking.CheckIn, booking.CheckOut, staleBefore)
		if err != nil {
			return fmt.Errorf("failed to check booking overlap: %w", err)
		}
		if overlaps {
			return apperrors.New(apperrors.KindConflict, "Listing is already booked for these dates, please try different dates")
		}

		// 6. Create the booking
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
}

func (r *repository) HasActiveOverlap(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time, staleBefore time.Time) (bool, error) {
	return activeOverlapQuery(r.db.WithContext(ctx), listingID, checkIn, checkOut, staleBefore)
}

// activeOverlapQuery finds pending/confirmed bookings whose half-open
// [check_in, check_out) range intersects the probe range. Back-to-back
// stays share a turnover day without colliding.
func activeOverlapQuery(db *gorm.DB, listingID uuid.UUID, checkIn, checkOut time.Time, staleBefore time.Time) (bool, error) {
	var count int64
	err := db.Model(&Booking{}).
		Where("listing_id = ?", listingID).
		Where("status IN ?", activeStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Where("status <> ? OR created_at >= ?", StatusPending, staleBefore).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("booking_ref = ?", ref).
		Count(&count).Error
	return count > 0, err
}

// ExpireStalePending flips pending bookings older than the hold window
// to expired, releasing their date ranges.
func (r *repository) ExpireStalePending(ctx context.Context, staleBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("status = ? AND created_at < ?", StatusPending, staleBefore).
		Updates(map[string]interface{}{
			"status":     StatusExpired,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// applyFilters applies query filters to the GORM query
func (r *repository) applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.ListingID != "" {
		if listingID, err := uuid.Parse(filters.ListingID); err == nil {
			query = query.Where("listing_id = ?", listingID)
		}
	}

	if filters.DateFrom != "" {
		if dateFrom, err := listings.ParseDate(filters.DateFrom); err == nil {
			query = query.Where("check_in >= ?", dateFrom)
		}
	}

	if filters.DateTo != "" {
		if dateTo, err := listings.ParseDate(filters.DateTo); err == nil {
			query = query.Where("check_in <= ?", dateTo)
		}
	}

	return query
}

// CalculateTotalPages is a helper for pagination responses.
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
