package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"villagestay/internal/listings"
	"villagestay/internal/shared/apperrors"
	"villagestay/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository with the same overlap semantics
// as the SQL implementation.
type fakeRepo struct {
	bookings map[uuid.UUID]*Booking
	listings map[uuid.UUID]*listings.Listing
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: map[uuid.UUID]*Booking{},
		listings: map[uuid.UUID]*listings.Listing{},
	}
}

func (f *fakeRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "Booking not found")
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) GetBookingByRef(_ context.Context, ref string) (*Booking, error) {
	for _, b := range f.bookings {
		if b.BookingRef == ref {
			copied := *b
			return &copied, nil
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "Booking not found")
}

func (f *fakeRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return apperrors.Newf(apperrors.KindInvalidState, "Booking is no longer %s", from)
	}
	b.Status = to
	if v, ok := updates["payment_status"]; ok {
		b.PaymentStatus = v.(PaymentStatus)
	}
	if v, ok := updates["refund_amount"]; ok {
		b.RefundAmount = v.(float64)
	}
	return nil
}

func (f *fakeRepo) GetUserBookings(_ context.Context, userID uuid.UUID, _ BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.TouristID == userID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) GetHostBookings(_ context.Context, hostID uuid.UUID, _ BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.HostID == hostID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) GetAllBookings(_ context.Context, _ BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) CreateBookingWithAvailabilityCheck(_ context.Context, booking *Booking, staleBefore time.Time) error {
	listing, ok := f.listings[booking.ListingID]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	if !listing.IsBookable() {
		return apperrors.New(apperrors.KindUnavailable, "Listing is not available for booking")
	}
	if booking.Guests > listing.MaxGuests {
		return apperrors.Newf(apperrors.KindValidation, "Listing accommodates at most %d guests", listing.MaxGuests)
	}
	if date, blocked := listing.AvailabilityCalendar.FirstBlockedDate(booking.CheckIn, booking.CheckOut); blocked {
		return apperrors.Newf(apperrors.KindConflict, "Listing is unavailable on %s", date)
	}
	if f.overlaps(booking.ListingID, booking.CheckIn, booking.CheckOut, staleBefore) {
		return apperrors.New(apperrors.KindConflict, "Listing is already booked for these dates, please try different dates")
	}

	booking.ID = uuid.New()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeRepo) HasActiveOverlap(_ context.Context, listingID uuid.UUID, checkIn, checkOut time.Time, staleBefore time.Time) (bool, error) {
	return f.overlaps(listingID, checkIn, checkOut, staleBefore), nil
}

func (f *fakeRepo) overlaps(listingID uuid.UUID, checkIn, checkOut time.Time, staleBefore time.Time) bool {
	for _, b := range f.bookings {
		if b.ListingID != listingID || !b.Status.IsActive() {
			continue
		}
		if b.Status == StatusPending && b.CreatedAt.Before(staleBefore) {
			continue
		}
		if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) ReferenceExists(_ context.Context, ref string) (bool, error) {
	for _, b := range f.bookings {
		if b.BookingRef == ref {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ExpireStalePending(_ context.Context, staleBefore time.Time) (int64, error) {
	var n int64
	for _, b := range f.bookings {
		if b.Status == StatusPending && b.CreatedAt.Before(staleBefore) {
			b.Status = StatusExpired
			n++
		}
	}
	return n, nil
}

type fakeCatalog struct {
	repo *fakeRepo
}

func (f *fakeCatalog) GetListing(_ context.Context, id uuid.UUID) (*listings.Listing, error) {
	l, ok := f.repo.listings[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	return l, nil
}

func (f *fakeCatalog) BlockDates(_ context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) error {
	l, ok := f.repo.listings[listingID]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	if l.AvailabilityCalendar == nil {
		l.AvailabilityCalendar = listings.Calendar{}
	}
	l.AvailabilityCalendar.Block(checkIn, checkOut)
	return nil
}

func (f *fakeCatalog) FreeDates(_ context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) error {
	l, ok := f.repo.listings[listingID]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	l.AvailabilityCalendar.Free(checkIn, checkOut)
	return nil
}

// fakePayments binds each issued transaction to its booking, like the
// real intent store.
type fakePayments struct {
	verifyErr error
	intents   map[string]uuid.UUID
	refunds   []float64
	payouts   []float64
}

func (f *fakePayments) CreateIntent(_ context.Context, bookingID uuid.UUID, _ string, _ float64) (string, error) {
	if f.intents == nil {
		f.intents = map[string]uuid.UUID{}
	}
	transactionID := fmt.Sprintf("TXN-TEST-%d", len(f.intents)+1)
	f.intents[transactionID] = bookingID
	return transactionID, nil
}

func (f *fakePayments) VerifyPayment(_ context.Context, bookingID uuid.UUID, transactionID, _ string, _ float64) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	owner, ok := f.intents[transactionID]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "Payment transaction not found")
	}
	if owner != bookingID {
		return apperrors.New(apperrors.KindPayment, "Payment transaction does not belong to this booking")
	}
	return nil
}

func (f *fakePayments) IssueRefund(_ context.Context, _ uuid.UUID, _ string, amount float64) error {
	f.refunds = append(f.refunds, amount)
	return nil
}

func (f *fakePayments) ReleaseHostPayout(_ context.Context, _, _ uuid.UUID, amount float64) error {
	f.payouts = append(f.payouts, amount)
	return nil
}

type fakeLocker struct {
	busy bool
}

func (f *fakeLocker) Acquire(_ context.Context, _ uuid.UUID, _ time.Duration) (string, bool, error) {
	if f.busy {
		return "", false, nil
	}
	return "token", true, nil
}

func (f *fakeLocker) Release(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

type fixture struct {
	repo     *fakeRepo
	payments *fakePayments
	locker   *fakeLocker
	svc      Service

	hostID    uuid.UUID
	touristID uuid.UUID
	listingID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeRepo()
	payments := &fakePayments{}
	locker := &fakeLocker{}

	hostID := uuid.New()
	listingID := uuid.New()

	repo.listings[listingID] = &listings.Listing{
		ID:                   listingID,
		HostID:               hostID,
		Title:                "Riverside mud house",
		PricePerNight:        1000,
		MaxGuests:            4,
		IsActive:             true,
		IsApproved:           true,
		AvailabilityCalendar: listings.Calendar{},
	}

	svc := NewService(repo, &fakeCatalog{repo: repo}, payments, locker, ServiceConfig{
		HoldTTL:        30 * time.Minute,
		ListingLockTTL: 10 * time.Second,
	})

	return &fixture{
		repo:      repo,
		payments:  payments,
		locker:    locker,
		svc:       svc,
		hostID:    hostID,
		touristID: uuid.New(),
		listingID: listingID,
	}
}

func (fx *fixture) stay(t *testing.T, fromDays, nights int) (string, string) {
	t.Helper()
	checkIn := time.Now().UTC().AddDate(0, 0, fromDays)
	checkOut := checkIn.AddDate(0, 0, nights)
	return listings.FormatDate(checkIn), listings.FormatDate(checkOut)
}

func (fx *fixture) createBooking(t *testing.T, fromDays, nights int) *CreateBookingResponse {
	t.Helper()
	checkIn, checkOut := fx.stay(t, fromDays, nights)
	resp, err := fx.svc.CreateBooking(context.Background(), fx.touristID, CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateBookingPricesTheStay(t *testing.T) {
	fx := newFixture(t)

	resp := fx.createBooking(t, 10, 3)

	assert.Equal(t, StatusPending, resp.Booking.Status)
	assert.Equal(t, PaymentUnpaid, resp.Booking.PaymentStatus)
	assert.Equal(t, 3, resp.Booking.Nights)
	assert.Equal(t, 3000.0, resp.Booking.BaseAmount)
	assert.Equal(t, 150.0, resp.Booking.PlatformFee)
	assert.Equal(t, 60.0, resp.Booking.CommunityContribution)
	assert.Equal(t, 2790.0, resp.Booking.HostEarnings)
	assert.Equal(t, 3150.0, resp.Booking.TotalAmount)
	assert.Equal(t, "TXN-TEST-1", resp.Payment.TransactionID)
	assert.True(t, IsValidBookingReference(resp.Booking.BookingRef))
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	fx := newFixture(t)

	fx.createBooking(t, 10, 3)

	checkIn, checkOut := fx.stay(t, 11, 3)
	_, err := fx.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Contains(t, err.Error(), "try different dates")
}

func TestCreateBookingRejectsUnapprovedListing(t *testing.T) {
	fx := newFixture(t)
	fx.repo.listings[fx.listingID].IsApproved = false

	checkIn, checkOut := fx.stay(t, 10, 2)
	_, err := fx.svc.CreateBooking(context.Background(), fx.touristID, CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnavailable))
}

func TestCreateBookingAllowsBackToBackStays(t *testing.T) {
	fx := newFixture(t)

	// First guest checks out the day the second checks in.
	fx.createBooking(t, 10, 3)

	checkIn, checkOut := fx.stay(t, 13, 2)
	_, err := fx.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	assert.NoError(t, err)
}

func TestCreateBookingIgnoresStalePendingHold(t *testing.T) {
	fx := newFixture(t)

	first := fx.createBooking(t, 10, 3)

	// Age the pending hold past the 30-minute window.
	id := uuid.MustParse(first.Booking.ID)
	fx.repo.bookings[id].CreatedAt = time.Now().Add(-time.Hour)

	checkIn, checkOut := fx.stay(t, 10, 3)
	_, err := fx.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	assert.NoError(t, err)
}

func TestCreateBookingRejectsOwnListing(t *testing.T) {
	fx := newFixture(t)

	checkIn, checkOut := fx.stay(t, 10, 2)
	_, err := fx.svc.CreateBooking(context.Background(), fx.hostID, CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestCreateBookingRejectsPastCheckIn(t *testing.T) {
	fx := newFixture(t)

	checkIn, checkOut := fx.stay(t, -2, 3)
	_, err := fx.svc.CreateBooking(context.Background(), fx.touristID, CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateBookingRejectsTooManyGuests(t *testing.T) {
	fx := newFixture(t)

	checkIn, checkOut := fx.stay(t, 10, 2)
	_, err := fx.svc.CreateBooking(context.Background(), fx.touristID, CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    9,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateBookingFailsWhenListingBusy(t *testing.T) {
	fx := newFixture(t)
	fx.locker.busy = true

	checkIn, checkOut := fx.stay(t, 10, 2)
	_, err := fx.svc.CreateBooking(context.Background(), fx.touristID, CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCompletePaymentConfirmsBooking(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)

	resp, err := fx.svc.CompletePayment(context.Background(), fx.touristID, id, CompletePaymentRequest{
		TransactionID: "TXN-TEST-1",
		Signature:     "sig",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, resp.Status)
	assert.Equal(t, PaymentPaid, resp.PaymentStatus)
	assert.NotNil(t, resp.ConfirmedAt)
}

func TestCompletePaymentRejectsExpiredHold(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)
	fx.repo.bookings[id].CreatedAt = time.Now().Add(-time.Hour)

	_, err := fx.svc.CompletePayment(context.Background(), fx.touristID, id, CompletePaymentRequest{
		TransactionID: "TXN-TEST-1",
		Signature:     "sig",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestCompletePaymentRejectsOtherUsers(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)

	_, err := fx.svc.CompletePayment(context.Background(), uuid.New(), id, CompletePaymentRequest{
		TransactionID: "TXN-TEST-1",
		Signature:     "sig",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestCompletePaymentRejectsForeignTransaction(t *testing.T) {
	fx := newFixture(t)

	// Two holds with identical totals; the first one's transaction must
	// not confirm the second.
	fx.createBooking(t, 10, 3)
	second := fx.createBooking(t, 20, 3)
	secondID := uuid.MustParse(second.Booking.ID)

	_, err := fx.svc.CompletePayment(context.Background(), fx.touristID, secondID, CompletePaymentRequest{
		TransactionID: "TXN-TEST-1",
		Signature:     "sig",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPayment))

	booking, err := fx.repo.GetBookingByID(context.Background(), secondID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, booking.Status)
	assert.Equal(t, PaymentUnpaid, booking.PaymentStatus)
}

func TestCompletePaymentBlocksStayDates(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)
	payAndConfirm(t, fx, id)

	booking := fx.repo.bookings[id]
	calendar := fx.repo.listings[fx.listingID].AvailabilityCalendar
	require.NotEmpty(t, calendar)
	_, blocked := calendar.FirstBlockedDate(booking.CheckIn, booking.CheckOut)
	assert.True(t, blocked)
}

func payAndConfirm(t *testing.T, fx *fixture, id uuid.UUID) {
	t.Helper()
	_, err := fx.svc.CompletePayment(context.Background(), fx.touristID, id, CompletePaymentRequest{
		TransactionID: "TXN-TEST-1",
		Signature:     "sig",
	})
	require.NoError(t, err)
}

func TestCancelBookingFullRefundTier(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)
	payAndConfirm(t, fx, id)

	resp, err := fx.svc.CancelBooking(context.Background(), fx.touristID, users.RoleTourist, id, CancelBookingRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, resp.RefundRate)
	assert.Equal(t, 3150.0, resp.RefundAmount)
	assert.Equal(t, StatusCancelled, resp.Booking.Status)
	assert.Equal(t, []float64{3150.0}, fx.payments.refunds)
}

func TestCancelBookingHalfRefundTier(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 5, 3)
	id := uuid.MustParse(created.Booking.ID)
	payAndConfirm(t, fx, id)

	resp, err := fx.svc.CancelBooking(context.Background(), fx.touristID, users.RoleTourist, id, CancelBookingRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0.5, resp.RefundRate)
	assert.Equal(t, 1575.0, resp.RefundAmount)
}

func TestCancelBookingNoRefundTier(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 1, 3)
	id := uuid.MustParse(created.Booking.ID)
	payAndConfirm(t, fx, id)

	resp, err := fx.svc.CancelBooking(context.Background(), fx.touristID, users.RoleTourist, id, CancelBookingRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.RefundRate)
	assert.Equal(t, 0.0, resp.RefundAmount)
	assert.Empty(t, fx.payments.refunds)
}

func TestCancelUnpaidBookingRefundsNothing(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)

	resp, err := fx.svc.CancelBooking(context.Background(), fx.touristID, users.RoleTourist, id, CancelBookingRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.RefundAmount)
	assert.Empty(t, fx.payments.refunds)
}

func TestHostCancellationRefundsInFull(t *testing.T) {
	fx := newFixture(t)

	// Even inside the no-refund window.
	created := fx.createBooking(t, 1, 3)
	id := uuid.MustParse(created.Booking.ID)
	payAndConfirm(t, fx, id)

	resp, err := fx.svc.CancelBooking(context.Background(), fx.hostID, users.RoleHost, id, CancelBookingRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, resp.RefundRate)
	assert.Equal(t, 3150.0, resp.RefundAmount)
}

func TestCancelBookingTwiceFails(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)

	_, err := fx.svc.CancelBooking(context.Background(), fx.touristID, users.RoleTourist, id, CancelBookingRequest{})
	require.NoError(t, err)

	_, err = fx.svc.CancelBooking(context.Background(), fx.touristID, users.RoleTourist, id, CancelBookingRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestCancelledDatesBecomeAvailable(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)

	_, err := fx.svc.CancelBooking(context.Background(), fx.touristID, users.RoleTourist, id, CancelBookingRequest{})
	require.NoError(t, err)

	// Same dates book cleanly after cancellation.
	checkIn, checkOut := fx.stay(t, 10, 3)
	_, err = fx.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	assert.NoError(t, err)
}

func TestCancelConfirmedBookingFreesStayDates(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)
	payAndConfirm(t, fx, id)

	_, err := fx.svc.CancelBooking(context.Background(), fx.touristID, users.RoleTourist, id, CancelBookingRequest{})
	require.NoError(t, err)

	booking := fx.repo.bookings[id]
	calendar := fx.repo.listings[fx.listingID].AvailabilityCalendar
	_, blocked := calendar.FirstBlockedDate(booking.CheckIn, booking.CheckOut)
	assert.False(t, blocked)

	// The freed dates are bookable again.
	checkIn, checkOut := fx.stay(t, 10, 3)
	_, err = fx.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ListingID: fx.listingID.String(),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    2,
	})
	assert.NoError(t, err)
}

func TestCompleteBookingReleasesPayout(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)
	payAndConfirm(t, fx, id)

	// Move the stay into the past so completion is allowed.
	fx.repo.bookings[id].CheckOut = time.Now().AddDate(0, 0, -1)

	resp, err := fx.svc.CompleteBooking(context.Background(), fx.hostID, users.RoleHost, id)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, resp.Status)
	assert.NotNil(t, resp.CompletedAt)
	assert.Equal(t, []float64{2790.0}, fx.payments.payouts)
}

func TestCompleteBookingBeforeCheckOutFails(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)
	payAndConfirm(t, fx, id)

	_, err := fx.svc.CompleteBooking(context.Background(), fx.hostID, users.RoleHost, id)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "before check-out")
}

func TestCompleteBookingRequiresHostOrAdmin(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)
	payAndConfirm(t, fx, id)
	fx.repo.bookings[id].CheckOut = time.Now().AddDate(0, 0, -1)

	_, err := fx.svc.CompleteBooking(context.Background(), fx.touristID, users.RoleTourist, id)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = fx.svc.CompleteBooking(context.Background(), uuid.New(), users.RoleAdmin, id)
	assert.NoError(t, err)
}

func TestProcessExpiredBookings(t *testing.T) {
	fx := newFixture(t)

	created := fx.createBooking(t, 10, 3)
	id := uuid.MustParse(created.Booking.ID)
	fx.repo.bookings[id].CreatedAt = time.Now().Add(-time.Hour)

	expired, err := fx.svc.ProcessExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	booking, err := fx.repo.GetBookingByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, booking.Status)
}
