package listings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"villagestay/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) error
	List(ctx context.Context, query ListingListQuery) ([]Listing, int64, error)

	// Calendar commands. Both run inside a transaction that locks the
	// listing row, so concurrent block/free on one listing serialize.
	BlockDates(ctx context.Context, id uuid.UUID, checkIn, checkOut time.Time) error
	FreeDates(ctx context.Context, id uuid.UUID, checkIn, checkOut time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, listing *Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var listing Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "Listing not found")
		}
		return nil, err
	}
	return &listing, nil
}

func (r *repository) Update(ctx context.Context, listing *Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).Model(&Listing{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	return nil
}

func (r *repository) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	result := r.db.WithContext(ctx).Model(&Listing{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_approved": approved,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	return nil
}

func (r *repository) List(ctx context.Context, query ListingListQuery) ([]Listing, int64, error) {
	var results []Listing
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Listing{})
	baseQuery = r.applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&results).Error

	return results, totalCount, err
}

// BlockDates sets every date in [checkIn, checkOut) to false in the
// availability calendar. Idempotent: re-blocking an already blocked
// range is a no-op at the data level.
func (r *repository) BlockDates(ctx context.Context, id uuid.UUID, checkIn, checkOut time.Time) error {
	return r.mutateCalendar(ctx, id, func(cal Calendar) {
		cal.Block(checkIn, checkOut)
	})
}

// FreeDates removes every date in [checkIn, checkOut) from the
// availability calendar. Removal, not a true entry: absence is the
// free state, so an overlapping active booking keeps its own block.
func (r *repository) FreeDates(ctx context.Context, id uuid.UUID, checkIn, checkOut time.Time) error {
	return r.mutateCalendar(ctx, id, func(cal Calendar) {
		cal.Free(checkIn, checkOut)
	})
}

func (r *repository) mutateCalendar(ctx context.Context, id uuid.UUID, mutate func(Calendar)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing Listing
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", id).
			First(&listing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.KindNotFound, "Listing not found")
			}
			return fmt.Errorf("failed to lock listing: %w", err)
		}

		if listing.AvailabilityCalendar == nil {
			listing.AvailabilityCalendar = Calendar{}
		}
		mutate(listing.AvailabilityCalendar)

		return tx.Model(&Listing{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"availability_calendar": listing.AvailabilityCalendar,
				"updated_at":            time.Now(),
			}).Error
	})
}

func (r *repository) applyFilters(query *gorm.DB, filters ListingListQuery) *gorm.DB {
	if filters.HostID != "" {
		if hostID, err := uuid.Parse(filters.HostID); err == nil {
			query = query.Where("host_id = ?", hostID)
		}
	}

	if filters.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filters.Location+"%")
	}

	if filters.MaxPrice > 0 {
		query = query.Where("price_per_night <= ?", filters.MaxPrice)
	}

	if filters.Guests > 0 {
		query = query.Where("max_guests >= ?", filters.Guests)
	}

	// Public browsing only sees bookable listings; hosts and admins can
	// opt in to the full set.
	if !filters.IncludeUnapproved {
		query = query.Where("is_active = ? AND is_approved = ?", true, true)
	}

	return query
}
