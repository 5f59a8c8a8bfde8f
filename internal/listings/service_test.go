package listings

import (
	"context"
	"testing"
	"time"

	"villagestay/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListingRepo struct {
	listings map[uuid.UUID]*Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[uuid.UUID]*Listing)}
}

func (f *fakeListingRepo) Create(_ context.Context, listing *Listing) error {
	listing.ID = uuid.New()
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = time.Now()
	f.listings[listing.ID] = listing
	return nil
}

func (f *fakeListingRepo) GetByID(_ context.Context, id uuid.UUID) (*Listing, error) {
	listing, ok := f.listings[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	copied := *listing
	return &copied, nil
}

func (f *fakeListingRepo) Update(_ context.Context, listing *Listing) error {
	f.listings[listing.ID] = listing
	return nil
}

func (f *fakeListingRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	listing, ok := f.listings[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	listing.IsActive = active
	return nil
}

func (f *fakeListingRepo) SetApproval(_ context.Context, id uuid.UUID, approved bool) error {
	listing, ok := f.listings[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	listing.IsApproved = approved
	return nil
}

func (f *fakeListingRepo) List(_ context.Context, query ListingListQuery) ([]Listing, int64, error) {
	var results []Listing
	for _, listing := range f.listings {
		if query.HostID != "" && listing.HostID.String() != query.HostID {
			continue
		}
		if !query.IncludeUnapproved && !(listing.IsActive && listing.IsApproved) {
			continue
		}
		results = append(results, *listing)
	}
	return results, int64(len(results)), nil
}

func (f *fakeListingRepo) BlockDates(_ context.Context, id uuid.UUID, checkIn, checkOut time.Time) error {
	listing, ok := f.listings[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	if listing.AvailabilityCalendar == nil {
		listing.AvailabilityCalendar = Calendar{}
	}
	listing.AvailabilityCalendar.Block(checkIn, checkOut)
	return nil
}

func (f *fakeListingRepo) FreeDates(_ context.Context, id uuid.UUID, checkIn, checkOut time.Time) error {
	listing, ok := f.listings[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "Listing not found")
	}
	listing.AvailabilityCalendar.Free(checkIn, checkOut)
	return nil
}

type fakeOverlapChecker struct {
	overlaps bool
}

func (f *fakeOverlapChecker) HasActiveOverlap(context.Context, uuid.UUID, time.Time, time.Time) (bool, error) {
	return f.overlaps, nil
}

func newTestListing(t *testing.T, svc Service, hostID uuid.UUID) *Listing {
	t.Helper()
	listing, err := svc.CreateListing(context.Background(), hostID, CreateListingRequest{
		Title:         "Riverside Mud House",
		Location:      "Agumbe, Karnataka",
		PricePerNight: 1500,
		MaxGuests:     4,
	})
	require.NoError(t, err)
	return listing
}

func TestCreateListingStartsUnapproved(t *testing.T) {
	svc := NewService(newFakeListingRepo())
	listing := newTestListing(t, svc, uuid.New())

	assert.True(t, listing.IsActive)
	assert.False(t, listing.IsApproved)
	assert.False(t, listing.IsBookable())
}

func TestApproveListingMakesBookable(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	listing := newTestListing(t, svc, uuid.New())

	require.NoError(t, svc.ApproveListing(context.Background(), listing.ID))

	got, err := svc.GetListing(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBookable())
}

func TestUpdateListingRejectsNonOwner(t *testing.T) {
	svc := NewService(newFakeListingRepo())
	listing := newTestListing(t, svc, uuid.New())

	title := "Hijacked"
	_, err := svc.UpdateListing(context.Background(), uuid.New(), listing.ID, UpdateListingRequest{Title: &title})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestDeactivateListingSoftDeletes(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	hostID := uuid.New()
	listing := newTestListing(t, svc, hostID)

	require.NoError(t, svc.DeactivateListing(context.Background(), hostID, listing.ID))

	// The row survives deactivation so booking history keeps its reference.
	got, err := svc.GetListing(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.False(t, got.IsBookable())
}

func TestIsAvailableChecksBookingOverlap(t *testing.T) {
	svc := NewService(newFakeListingRepo())
	listing := newTestListing(t, svc, uuid.New())
	checker := &fakeOverlapChecker{}
	svc.SetOverlapChecker(checker)

	checkIn := mustDate(t, "2026-10-01")
	checkOut := mustDate(t, "2026-10-04")

	available, err := svc.IsAvailable(context.Background(), listing.ID, checkIn, checkOut)
	require.NoError(t, err)
	assert.True(t, available)

	checker.overlaps = true
	available, err = svc.IsAvailable(context.Background(), listing.ID, checkIn, checkOut)
	require.NoError(t, err)
	assert.False(t, available)
}

func TestIsAvailableChecksHostBlockedDates(t *testing.T) {
	svc := NewService(newFakeListingRepo())
	hostID := uuid.New()
	listing := newTestListing(t, svc, hostID)

	err := svc.UpdateAvailability(context.Background(), hostID, listing.ID, UpdateAvailabilityRequest{
		Action:   "block",
		CheckIn:  "2026-10-02",
		CheckOut: "2026-10-03",
	})
	require.NoError(t, err)

	available, err := svc.IsAvailable(context.Background(), listing.ID, mustDate(t, "2026-10-01"), mustDate(t, "2026-10-04"))
	require.NoError(t, err)
	assert.False(t, available)

	// A stay ending on the blocked date does not touch it.
	available, err = svc.IsAvailable(context.Background(), listing.ID, mustDate(t, "2026-10-01"), mustDate(t, "2026-10-02"))
	require.NoError(t, err)
	assert.True(t, available)
}

func TestUpdateAvailabilityFreeReopensDates(t *testing.T) {
	svc := NewService(newFakeListingRepo())
	hostID := uuid.New()
	listing := newTestListing(t, svc, hostID)

	require.NoError(t, svc.UpdateAvailability(context.Background(), hostID, listing.ID, UpdateAvailabilityRequest{
		Action: "block", CheckIn: "2026-10-01", CheckOut: "2026-10-05",
	}))
	require.NoError(t, svc.UpdateAvailability(context.Background(), hostID, listing.ID, UpdateAvailabilityRequest{
		Action: "free", CheckIn: "2026-10-01", CheckOut: "2026-10-05",
	}))

	available, err := svc.IsAvailable(context.Background(), listing.ID, mustDate(t, "2026-10-01"), mustDate(t, "2026-10-05"))
	require.NoError(t, err)
	assert.True(t, available)
}

func TestUpdateAvailabilityRejectsUnknownAction(t *testing.T) {
	svc := NewService(newFakeListingRepo())
	hostID := uuid.New()
	listing := newTestListing(t, svc, hostID)

	err := svc.UpdateAvailability(context.Background(), hostID, listing.ID, UpdateAvailabilityRequest{
		Action: "merge", CheckIn: "2026-10-01", CheckOut: "2026-10-02",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestUpdateAvailabilityRejectsNonOwner(t *testing.T) {
	svc := NewService(newFakeListingRepo())
	listing := newTestListing(t, svc, uuid.New())

	err := svc.UpdateAvailability(context.Background(), uuid.New(), listing.ID, UpdateAvailabilityRequest{
		Action: "block", CheckIn: "2026-10-01", CheckOut: "2026-10-02",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestGetMyListingsIncludesUnapproved(t *testing.T) {
	svc := NewService(newFakeListingRepo())
	hostID := uuid.New()
	newTestListing(t, svc, hostID)
	newTestListing(t, svc, uuid.New())

	// Public browse: nothing approved yet
	page, err := svc.ListListings(context.Background(), ListingListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Listings)

	// Host view of own listings sees the unapproved one
	page, err = svc.ListListings(context.Background(), ListingListQuery{
		HostID:            hostID.String(),
		IncludeUnapproved: true,
	})
	require.NoError(t, err)
	assert.Len(t, page.Listings, 1)
}
