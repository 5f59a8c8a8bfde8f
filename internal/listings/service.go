package listings

import (
	"context"
	"fmt"
	"math"
	"time"

	"villagestay/internal/shared/apperrors"
	"villagestay/internal/shared/constants"
	"villagestay/pkg/cache"
	"villagestay/pkg/logger"

	"github.com/google/uuid"
)

// BookingOverlapChecker reports whether any pending/confirmed booking
// overlaps a date range on a listing. Implemented by the bookings
// package and injected after construction to avoid a circular
// dependency.
type BookingOverlapChecker interface {
	HasActiveOverlap(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) (bool, error)
}

// Service interface defines the contract for listing business logic
type Service interface {
	CreateListing(ctx context.Context, hostID uuid.UUID, req CreateListingRequest) (*Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	UpdateListing(ctx context.Context, hostID, id uuid.UUID, req UpdateListingRequest) (*Listing, error)
	DeactivateListing(ctx context.Context, hostID, id uuid.UUID) error
	ListListings(ctx context.Context, query ListingListQuery) (*PaginatedListings, error)

	// Admin moderation
	ApproveListing(ctx context.Context, id uuid.UUID) error
	RejectListing(ctx context.Context, id uuid.UUID) error

	// Availability store operations
	IsAvailable(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) (bool, error)
	UpdateAvailability(ctx context.Context, hostID, listingID uuid.UUID, req UpdateAvailabilityRequest) error
	BlockDates(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) error
	FreeDates(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) error

	SetOverlapChecker(checker BookingOverlapChecker)
	SetCache(cacheService cache.Service)
}

type service struct {
	repo           Repository
	overlapChecker BookingOverlapChecker
	cache          cache.Service
	log            *logger.Logger
}

// NewService creates a new listing service instance
func NewService(repo Repository) Service {
	return &service{repo: repo, log: logger.GetDefault()}
}

// SetOverlapChecker injects the booking overlap dependency.
func (s *service) SetOverlapChecker(checker BookingOverlapChecker) {
	s.overlapChecker = checker
}

// SetCache enables read-through caching of listing details. Without a
// cache every read hits the database, which is fine for tests.
func (s *service) SetCache(cacheService cache.Service) {
	s.cache = cacheService
}

// CreateListing creates a listing pending admin approval.
func (s *service) CreateListing(ctx context.Context, hostID uuid.UUID, req CreateListingRequest) (*Listing, error) {
	listing := &Listing{
		HostID:               hostID,
		Title:                req.Title,
		Description:          req.Description,
		Location:             req.Location,
		PricePerNight:        req.PricePerNight,
		MaxGuests:            req.MaxGuests,
		IsActive:             true,
		IsApproved:           false,
		AvailabilityCalendar: Calendar{},
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

func (s *service) GetListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	if s.cache == nil {
		return s.repo.GetByID(ctx, id)
	}

	var listing Listing
	err := s.cache.GetOrSet(ctx, constants.BuildListingDetailKey(id.String()), constants.TTL_LISTING_DETAIL,
		func() (interface{}, error) {
			return s.repo.GetByID(ctx, id)
		}, &listing)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// invalidateListing drops cached reads after a mutation. Cache failures
// only cost freshness, so they are logged and swallowed.
func (s *service) invalidateListing(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, constants.BuildListingDetailKey(id.String())); err != nil {
		s.log.WarnContext(ctx, "Failed to invalidate listing cache", "listing_id", id.String(), "error", err.Error())
	}
	if err := s.cache.DeletePattern(ctx, constants.CACHE_KEY_LISTINGS_LIST+"*"); err != nil {
		s.log.WarnContext(ctx, "Failed to invalidate listing list cache", "error", err.Error())
	}
}

func (s *service) UpdateListing(ctx context.Context, hostID, id uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.HostID != hostID {
		return nil, apperrors.New(apperrors.KindForbidden, "Listing does not belong to this host")
	}

	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Location != nil {
		listing.Location = *req.Location
	}
	if req.PricePerNight != nil {
		listing.PricePerNight = *req.PricePerNight
	}
	if req.MaxGuests != nil {
		listing.MaxGuests = *req.MaxGuests
	}
	listing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	s.invalidateListing(ctx, id)
	return listing, nil
}

// DeactivateListing soft-deletes a listing. Rows are never hard-deleted
// so historical bookings keep a valid reference.
func (s *service) DeactivateListing(ctx context.Context, hostID, id uuid.UUID) error {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.HostID != hostID {
		return apperrors.New(apperrors.KindForbidden, "Listing does not belong to this host")
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.invalidateListing(ctx, id)
	return nil
}

func (s *service) ListListings(ctx context.Context, query ListingListQuery) (*PaginatedListings, error) {
	results, totalCount, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]ListingResponse, 0, len(results))
	for i := range results {
		responses = append(responses, ToResponse(&results[i]))
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	return &PaginatedListings{
		Listings:   responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

func (s *service) ApproveListing(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetApproval(ctx, id, true); err != nil {
		return err
	}
	s.invalidateListing(ctx, id)
	return nil
}

func (s *service) RejectListing(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetApproval(ctx, id, false); err != nil {
		return err
	}
	s.invalidateListing(ctx, id)
	return nil
}

// IsAvailable answers "is listing L available for [checkIn, checkOut)".
// False when any pending/confirmed booking overlaps the half-open range
// or any date in the range is host-blocked in the calendar.
func (s *service) IsAvailable(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return false, err
	}

	if s.overlapChecker != nil {
		overlaps, err := s.overlapChecker.HasActiveOverlap(ctx, listingID, checkIn, checkOut)
		if err != nil {
			return false, fmt.Errorf("failed to check booking overlap: %w", err)
		}
		if overlaps {
			return false, nil
		}
	}

	if _, blocked := listing.AvailabilityCalendar.FirstBlockedDate(checkIn, checkOut); blocked {
		return false, nil
	}

	return true, nil
}

// UpdateAvailability is the host-facing calendar command. It only
// accepts the block/free actions; arbitrary calendar merges are not a
// thing.
func (s *service) UpdateAvailability(ctx context.Context, hostID, listingID uuid.UUID, req UpdateAvailabilityRequest) error {
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.HostID != hostID {
		return apperrors.New(apperrors.KindForbidden, "Listing does not belong to this host")
	}

	checkIn, checkOut, err := parseRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return err
	}

	switch req.Action {
	case "block":
		err = s.repo.BlockDates(ctx, listingID, checkIn, checkOut)
	case "free":
		err = s.repo.FreeDates(ctx, listingID, checkIn, checkOut)
	default:
		return apperrors.Validation("action", "action must be block or free")
	}
	if err != nil {
		return err
	}
	s.invalidateListing(ctx, listingID)
	return nil
}

func (s *service) BlockDates(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) error {
	if err := s.repo.BlockDates(ctx, listingID, checkIn, checkOut); err != nil {
		return err
	}
	s.invalidateListing(ctx, listingID)
	return nil
}

func (s *service) FreeDates(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) error {
	if err := s.repo.FreeDates(ctx, listingID, checkIn, checkOut); err != nil {
		return err
	}
	s.invalidateListing(ctx, listingID)
	return nil
}

func parseRange(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	checkIn, err := ParseDate(checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("check_in", err.Error())
	}
	checkOut, err := ParseDate(checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("check_out", err.Error())
	}
	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, apperrors.Validation("check_out", "check-out date must be after check-in date")
	}
	return checkIn, checkOut, nil
}
