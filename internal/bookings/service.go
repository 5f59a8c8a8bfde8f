package bookings

import (
	"context"
	"fmt"
	"time"

	"villagestay/internal/listings"
	"villagestay/internal/shared/apperrors"
	"villagestay/internal/users"
	"villagestay/pkg/logger"

	"github.com/google/uuid"
)

// ListingCatalog interface for listing lookups and calendar writes (to
// avoid circular dependency). Confirmed stays are written into the
// host calendar through the same block/free commands hosts use.
type ListingCatalog interface {
	GetListing(ctx context.Context, id uuid.UUID) (*listings.Listing, error)
	BlockDates(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) error
	FreeDates(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) error
}

// PaymentService interface for payment operations (to avoid circular dependency)
type PaymentService interface {
	CreateIntent(ctx context.Context, bookingID uuid.UUID, bookingRef string, amount float64) (string, error)
	VerifyPayment(ctx context.Context, bookingID uuid.UUID, transactionID, signature string, amount float64) error
	IssueRefund(ctx context.Context, bookingID uuid.UUID, bookingRef string, amount float64) error
	ReleaseHostPayout(ctx context.Context, bookingID, hostID uuid.UUID, amount float64) error
}

// EventPublisher interface for booking lifecycle notifications (to avoid circular dependency)
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]interface{}) error
}

// Locker serializes booking creation per listing.
type Locker interface {
	Acquire(ctx context.Context, listingID uuid.UUID, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, listingID uuid.UUID, token string) error
}

// ServiceConfig carries the booking lifecycle tunables.
type ServiceConfig struct {
	HoldTTL        time.Duration
	ListingLockTTL time.Duration
}

// Service interface defines the contract for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, touristID uuid.UUID, req CreateBookingRequest) (*CreateBookingResponse, error)
	CompletePayment(ctx context.Context, touristID, bookingID uuid.UUID, req CompletePaymentRequest) (*BookingResponse, error)
	CancelBooking(ctx context.Context, actorID uuid.UUID, actorRole users.Role, bookingID uuid.UUID, req CancelBookingRequest) (*CancellationResponse, error)
	CompleteBooking(ctx context.Context, actorID uuid.UUID, actorRole users.Role, bookingID uuid.UUID) (*BookingResponse, error)

	GetBooking(ctx context.Context, actorID uuid.UUID, actorRole users.Role, bookingID uuid.UUID) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, touristID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	GetHostBookings(ctx context.Context, hostID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error)

	// HasActiveOverlap implements the availability probe for the
	// listings package.
	HasActiveOverlap(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) (bool, error)

	// ProcessExpiredBookings flips stale pending holds to expired.
	ProcessExpiredBookings(ctx context.Context) (int64, error)

	SetPublisher(publisher EventPublisher)
}

// service implements the Service interface
type service struct {
	repo      Repository
	catalog   ListingCatalog
	payments  PaymentService
	publisher EventPublisher
	locker    Locker
	cfg       ServiceConfig
	log       *logger.Logger
}

// NewService creates a new booking service instance
func NewService(repo Repository, catalog ListingCatalog, payments PaymentService, locker Locker, cfg ServiceConfig) Service {
	if cfg.HoldTTL <= 0 {
		cfg.HoldTTL = 30 * time.Minute
	}
	if cfg.ListingLockTTL <= 0 {
		cfg.ListingLockTTL = 10 * time.Second
	}
	return &service{
		repo:     repo,
		catalog:  catalog,
		payments: payments,
		locker:   locker,
		cfg:      cfg,
		log:      logger.GetDefault(),
	}
}

// SetPublisher injects the lifecycle event publisher. Optional;
// bookings work without one.
func (s *service) SetPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// CreateBooking reserves a date range as a pending hold and opens a
// payment intent. The hold expires if payment does not complete within
// the hold window.
func (s *service) CreateBooking(ctx context.Context, touristID uuid.UUID, req CreateBookingRequest) (*CreateBookingResponse, error) {
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, apperrors.Validation("listing_id", "invalid listing ID")
	}

	checkIn, checkOut, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	// Step 1: Serialize creation per listing. The row lock inside the
	// transaction is the correctness boundary; this just fast-fails
	// concurrent attempts on a hot listing.
	token, acquired, err := s.locker.Acquire(ctx, listingID, s.cfg.ListingLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listing lock: %w", err)
	}
	if !acquired {
		return nil, apperrors.New(apperrors.KindConflict, "Another booking for this listing is in progress, try again")
	}
	defer func() {
		if err := s.locker.Release(ctx, listingID, token); err != nil {
			s.log.Warn("failed to release listing lock", "listing_id", listingID.String(), "error", err.Error())
		}
	}()

	// Step 2: Load the listing and validate the request against it
	listing, err := s.catalog.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.HostID == touristID {
		return nil, apperrors.New(apperrors.KindForbidden, "Hosts cannot book their own listing")
	}

	// Step 3: Price the stay from the listing's current nightly rate
	nights := NightCount(checkIn, checkOut)
	pricing := ComputePricing(listing.PricePerNight, nights)

	// Step 4: Generate a unique booking reference
	ref, err := s.uniqueReference(ctx)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		ListingID:             listingID,
		TouristID:             touristID,
		HostID:                listing.HostID,
		BookingRef:            ref,
		CheckIn:               checkIn,
		CheckOut:              checkOut,
		Guests:                req.Guests,
		Nights:                nights,
		BaseAmount:            pricing.BaseAmount,
		PlatformFee:           pricing.PlatformFee,
		CommunityContribution: pricing.CommunityContribution,
		HostEarnings:          pricing.HostEarnings,
		TotalAmount:           pricing.TotalAmount,
		Status:                StatusPending,
		PaymentStatus:         PaymentUnpaid,
		SpecialRequests:       req.SpecialRequests,
	}

	// Step 5: Insert atomically with the availability check
	if err := s.repo.CreateBookingWithAvailabilityCheck(ctx, booking, s.staleBefore()); err != nil {
		return nil, err
	}

	// Step 6: Open a payment intent for the total
	transactionID, err := s.payments.CreateIntent(ctx, booking.ID, booking.BookingRef, booking.TotalAmount)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, "Failed to initiate payment", err)
	}

	s.publishEvent(ctx, "booking.created", booking)

	return &CreateBookingResponse{
		Booking: ToResponse(booking),
		Payment: PaymentIntentInfo{
			TransactionID: transactionID,
			Amount:        booking.TotalAmount,
			Currency:      "INR",
		},
	}, nil
}

// CompletePayment confirms a pending booking once the gateway
// signature checks out.
func (s *service) CompletePayment(ctx context.Context, touristID, bookingID uuid.UUID, req CompletePaymentRequest) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.TouristID != touristID {
		return nil, apperrors.New(apperrors.KindForbidden, "Booking does not belong to this user")
	}

	if booking.Status != StatusPending {
		return nil, apperrors.Newf(apperrors.KindInvalidState, "Cannot pay for a %s booking", booking.Status)
	}

	// A hold past its window is already dead even if the sweeper has
	// not flipped it yet.
	if time.Since(booking.CreatedAt) > s.cfg.HoldTTL {
		return nil, apperrors.New(apperrors.KindInvalidState, "Booking hold has expired, create a new booking")
	}

	if err := s.payments.VerifyPayment(ctx, bookingID, req.TransactionID, req.Signature, booking.TotalAmount); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.repo.TransitionStatus(ctx, bookingID, StatusPending, StatusConfirmed, map[string]interface{}{
		"payment_status": PaymentPaid,
		"confirmed_at":   now,
	})
	if err != nil {
		return nil, err
	}

	// The confirmed stay also lands in the host calendar. Blocking is
	// idempotent; the overlap query keeps the range exclusive even if
	// this write fails, so the failure is logged rather than returned.
	if err := s.catalog.BlockDates(ctx, booking.ListingID, booking.CheckIn, booking.CheckOut); err != nil {
		s.log.Error("failed to block stay dates in calendar",
			"booking_ref", booking.BookingRef,
			"listing_id", booking.ListingID.String(),
			"error", err.Error())
	}

	booking.Status = StatusConfirmed
	booking.PaymentStatus = PaymentPaid
	booking.ConfirmedAt = &now

	s.publishEvent(ctx, "booking.confirmed", booking)

	resp := ToResponse(booking)
	return &resp, nil
}

// CancelBooking cancels a pending or confirmed booking. Guest
// cancellations refund on the tiered policy; host and admin
// cancellations always refund a paid guest in full.
func (s *service) CancelBooking(ctx context.Context, actorID uuid.UUID, actorRole users.Role, bookingID uuid.UUID, req CancelBookingRequest) (*CancellationResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := requireParty(booking, actorID, actorRole); err != nil {
		return nil, err
	}

	if booking.Status != StatusPending && booking.Status != StatusConfirmed {
		return nil, apperrors.Newf(apperrors.KindInvalidState, "Cannot cancel a %s booking", booking.Status)
	}

	now := time.Now()
	wasConfirmed := booking.Status == StatusConfirmed

	var refund float64
	var rate float64
	if booking.PaymentStatus == PaymentPaid {
		if actorID == booking.TouristID {
			rate = RefundRate(booking.CheckIn, now)
		} else {
			// Host or admin pulled the booking out from under the guest.
			rate = 1.0
		}
		refund = round2(booking.TotalAmount * rate)
	}

	err = s.repo.TransitionStatus(ctx, bookingID, booking.Status, StatusCancelled, map[string]interface{}{
		"cancelled_at":  now,
		"refund_amount": refund,
	})
	if err != nil {
		return nil, err
	}

	booking.Status = StatusCancelled
	booking.CancelledAt = &now
	booking.RefundAmount = refund

	// Confirmed stays were blocked in the host calendar on payment;
	// release those dates. Pending holds never blocked the calendar.
	if wasConfirmed {
		if err := s.catalog.FreeDates(ctx, booking.ListingID, booking.CheckIn, booking.CheckOut); err != nil {
			s.log.Error("failed to free stay dates in calendar",
				"booking_ref", booking.BookingRef,
				"listing_id", booking.ListingID.String(),
				"error", err.Error())
		}
	}

	// Refund failures never undo the cancellation; the payments layer
	// records them for retry.
	if refund > 0 {
		if err := s.payments.IssueRefund(ctx, booking.ID, booking.BookingRef, refund); err != nil {
			s.log.Error("refund dispatch failed",
				"booking_ref", booking.BookingRef,
				"amount", refund,
				"error", err.Error())
		}
	}

	s.publishEvent(ctx, "booking.cancelled", booking)

	return &CancellationResponse{
		Booking:      ToResponse(booking),
		RefundAmount: refund,
		RefundRate:   rate,
	}, nil
}

// CompleteBooking closes out a confirmed stay after check-out and
// releases the host payout.
func (s *service) CompleteBooking(ctx context.Context, actorID uuid.UUID, actorRole users.Role, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actorRole != users.RoleAdmin && booking.HostID != actorID {
		return nil, apperrors.New(apperrors.KindForbidden, "Only the host or an admin can complete a booking")
	}

	if booking.Status != StatusConfirmed {
		return nil, apperrors.Newf(apperrors.KindInvalidState, "Cannot complete a %s booking", booking.Status)
	}

	if time.Now().Before(booking.CheckOut) {
		return nil, apperrors.New(apperrors.KindValidation, "Booking cannot be completed before check-out")
	}

	now := time.Now()
	err = s.repo.TransitionStatus(ctx, bookingID, StatusConfirmed, StatusCompleted, map[string]interface{}{
		"completed_at": now,
	})
	if err != nil {
		return nil, err
	}

	booking.Status = StatusCompleted
	booking.CompletedAt = &now

	if err := s.payments.ReleaseHostPayout(ctx, booking.ID, booking.HostID, booking.HostEarnings); err != nil {
		s.log.Error("host payout dispatch failed",
			"booking_ref", booking.BookingRef,
			"amount", booking.HostEarnings,
			"error", err.Error())
	}

	s.publishEvent(ctx, "booking.completed", booking)

	resp := ToResponse(booking)
	return &resp, nil
}

// GetBooking retrieves a booking visible to the actor.
func (s *service) GetBooking(ctx context.Context, actorID uuid.UUID, actorRole users.Role, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(booking, actorID, actorRole); err != nil {
		return nil, err
	}
	resp := ToResponse(booking)
	return &resp, nil
}

func (s *service) GetUserBookings(ctx context.Context, touristID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	results, totalCount, err := s.repo.GetUserBookings(ctx, touristID, query)
	if err != nil {
		return nil, err
	}
	return paginatedResponse(results, totalCount, query), nil
}

func (s *service) GetHostBookings(ctx context.Context, hostID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	results, totalCount, err := s.repo.GetHostBookings(ctx, hostID, query)
	if err != nil {
		return nil, err
	}
	return paginatedResponse(results, totalCount, query), nil
}

func (s *service) GetAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error) {
	results, totalCount, err := s.repo.GetAllBookings(ctx, query)
	if err != nil {
		return nil, err
	}
	return paginatedResponse(results, totalCount, query), nil
}

func (s *service) HasActiveOverlap(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	return s.repo.HasActiveOverlap(ctx, listingID, checkIn, checkOut, s.staleBefore())
}

func (s *service) ProcessExpiredBookings(ctx context.Context) (int64, error) {
	return s.repo.ExpireStalePending(ctx, s.staleBefore())
}

func (s *service) staleBefore() time.Time {
	return time.Now().Add(-s.cfg.HoldTTL)
}

// uniqueReference retries generation on the rare same-day collision.
func (s *service) uniqueReference(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		ref, err := GenerateBookingReference(time.Now())
		if err != nil {
			return "", err
		}
		exists, err := s.repo.ReferenceExists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique booking reference")
}

func (s *service) publishEvent(ctx context.Context, eventType string, booking *Booking) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"booking_id":   booking.ID.String(),
		"booking_ref":  booking.BookingRef,
		"listing_id":   booking.ListingID.String(),
		"tourist_id":   booking.TouristID.String(),
		"host_id":      booking.HostID.String(),
		"check_in":     listings.FormatDate(booking.CheckIn),
		"check_out":    listings.FormatDate(booking.CheckOut),
		"total_amount": booking.TotalAmount,
		"status":       string(booking.Status),
	}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.log.Warn("failed to publish booking event",
			"event_type", eventType,
			"booking_ref", booking.BookingRef,
			"error", err.Error())
	}
}

// requireParty allows the guest, the host, or an admin through.
func requireParty(booking *Booking, actorID uuid.UUID, actorRole users.Role) error {
	if actorRole == users.RoleAdmin {
		return nil
	}
	if booking.TouristID == actorID || booking.HostID == actorID {
		return nil
	}
	return apperrors.New(apperrors.KindForbidden, "Booking does not belong to this user")
}

func paginatedResponse(results []Booking, totalCount int64, query BookingListQuery) *PaginatedBookings {
	responses := make([]BookingResponse, 0, len(results))
	for i := range results {
		responses = append(responses, ToResponse(&results[i]))
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}
}

// parseStayRange validates a stay's date pair: well-formed, ordered,
// and not starting in the past.
func parseStayRange(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	checkIn, err := listings.ParseDate(checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("check_in", err.Error())
	}
	checkOut, err := listings.ParseDate(checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("check_out", err.Error())
	}
	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, apperrors.Validation("check_out", "check-out date must be after check-in date")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return time.Time{}, time.Time{}, apperrors.Validation("check_in", "check-in date cannot be in the past")
	}

	return checkIn, checkOut, nil
}
