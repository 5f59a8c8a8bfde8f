package payments

import (
	"context"
	"errors"
	"testing"

	"villagestay/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentsRepo struct {
	intents    map[string]*PaymentIntent
	dispatches []*Dispatch
}

func newFakePaymentsRepo() *fakePaymentsRepo {
	return &fakePaymentsRepo{intents: map[string]*PaymentIntent{}}
}

func (f *fakePaymentsRepo) CreateIntent(_ context.Context, intent *PaymentIntent) error {
	intent.ID = uuid.New()
	f.intents[intent.TransactionID] = intent
	return nil
}

func (f *fakePaymentsRepo) GetIntentByTransactionID(_ context.Context, transactionID string) (*PaymentIntent, error) {
	intent, ok := f.intents[transactionID]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "Payment transaction not found")
	}
	return intent, nil
}

func (f *fakePaymentsRepo) MarkIntentVerified(_ context.Context, transactionID string) error {
	intent, ok := f.intents[transactionID]
	if !ok || intent.Status != IntentCreated {
		return apperrors.New(apperrors.KindInvalidState, "Payment has already been verified")
	}
	intent.Status = IntentVerified
	return nil
}

func (f *fakePaymentsRepo) CreateDispatch(_ context.Context, dispatch *Dispatch) error {
	dispatch.ID = uuid.New()
	f.dispatches = append(f.dispatches, dispatch)
	return nil
}

func (f *fakePaymentsRepo) UpdateDispatch(_ context.Context, dispatch *Dispatch) error {
	for i, d := range f.dispatches {
		if d.ID == dispatch.ID {
			f.dispatches[i] = dispatch
			return nil
		}
	}
	return errors.New("dispatch not found")
}

func (f *fakePaymentsRepo) GetPendingDispatches(_ context.Context, limit int) ([]Dispatch, error) {
	var out []Dispatch
	for _, d := range f.dispatches {
		if d.Status == DispatchPending || d.Status == DispatchFailed {
			out = append(out, *d)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakePaymentsRepo) GetDispatchesByBookingID(_ context.Context, bookingID uuid.UUID) ([]Dispatch, error) {
	var out []Dispatch
	for _, d := range f.dispatches {
		if d.BookingID == bookingID {
			out = append(out, *d)
		}
	}
	return out, nil
}

// flakyGateway fails sends until the failure budget runs out.
type flakyGateway struct {
	Gateway
	failuresLeft int
}

func (g *flakyGateway) SendRefund(ctx context.Context, bookingRef string, amount float64) error {
	if g.failuresLeft > 0 {
		g.failuresLeft--
		return errors.New("gateway unavailable")
	}
	return g.Gateway.SendRefund(ctx, bookingRef, amount)
}

func TestVerifyPaymentFlow(t *testing.T) {
	repo := newFakePaymentsRepo()
	svc := NewService(repo, NewMockGateway("test-secret"), ServiceConfig{})
	gw := NewMockGateway("test-secret")

	bookingID := uuid.New()
	txn, err := svc.CreateIntent(context.Background(), bookingID, "VS202603101234", 3150)
	require.NoError(t, err)

	sig := gw.Sign(txn, 3150)
	require.NoError(t, svc.VerifyPayment(context.Background(), bookingID, txn, sig, 3150))
	assert.Equal(t, IntentVerified, repo.intents[txn].Status)

	// A second verification of the same transaction is a replay.
	err = svc.VerifyPayment(context.Background(), bookingID, txn, sig, 3150)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestVerifyPaymentUnknownTransaction(t *testing.T) {
	svc := NewService(newFakePaymentsRepo(), NewMockGateway("test-secret"), ServiceConfig{})

	err := svc.VerifyPayment(context.Background(), uuid.New(), "TXN_MISSING", "sig", 100)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestVerifyPaymentWrongBooking(t *testing.T) {
	repo := newFakePaymentsRepo()
	svc := NewService(repo, NewMockGateway("test-secret"), ServiceConfig{})
	gw := NewMockGateway("test-secret")

	txn, err := svc.CreateIntent(context.Background(), uuid.New(), "VS202603101234", 3150)
	require.NoError(t, err)

	// A valid signature for one booking's intent cannot confirm another
	// booking, even at the same amount.
	sig := gw.Sign(txn, 3150)
	err = svc.VerifyPayment(context.Background(), uuid.New(), txn, sig, 3150)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPayment))

	// The intent stays unconsumed for its rightful booking.
	assert.Equal(t, IntentCreated, repo.intents[txn].Status)
}

func TestIssueRefundRecordsDispatch(t *testing.T) {
	repo := newFakePaymentsRepo()
	svc := NewService(repo, NewMockGateway("test-secret"), ServiceConfig{})

	bookingID := uuid.New()
	require.NoError(t, svc.IssueRefund(context.Background(), bookingID, "VS202603101234", 1575))

	dispatches, err := repo.GetDispatchesByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	require.Len(t, dispatches, 1)
	assert.Equal(t, DispatchRefund, dispatches[0].Kind)
	assert.Equal(t, DispatchSent, dispatches[0].Status)
	assert.Equal(t, 1575.0, dispatches[0].Amount)
	assert.NotNil(t, dispatches[0].SentAt)
}

func TestFailedRefundStaysInLedgerAndRetries(t *testing.T) {
	repo := newFakePaymentsRepo()
	gw := &flakyGateway{Gateway: NewMockGateway("test-secret"), failuresLeft: 1}
	svc := NewService(repo, gw, ServiceConfig{MaxRetries: 3})

	bookingID := uuid.New()
	err := svc.IssueRefund(context.Background(), bookingID, "VS202603101234", 1575)
	require.Error(t, err)

	// The transfer is recorded as failed, not lost.
	require.Len(t, repo.dispatches, 1)
	assert.Equal(t, DispatchFailed, repo.dispatches[0].Status)
	assert.Equal(t, 1, repo.dispatches[0].Attempts)
	assert.NotEmpty(t, repo.dispatches[0].LastError)

	// The sweeper re-drives it once the gateway recovers.
	sent, err := svc.RetryPendingDispatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, DispatchSent, repo.dispatches[0].Status)
}

func TestRetrySkipsExhaustedDispatches(t *testing.T) {
	repo := newFakePaymentsRepo()
	gw := &flakyGateway{Gateway: NewMockGateway("test-secret"), failuresLeft: 100}
	svc := NewService(repo, gw, ServiceConfig{MaxRetries: 2})

	_ = svc.IssueRefund(context.Background(), uuid.New(), "VS202603101234", 100)
	_, _ = svc.RetryPendingDispatches(context.Background())

	// Attempts are at the cap now; further sweeps leave it alone.
	sent, err := svc.RetryPendingDispatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 2, repo.dispatches[0].Attempts)
}

func TestReleaseHostPayout(t *testing.T) {
	repo := newFakePaymentsRepo()
	svc := NewService(repo, NewMockGateway("test-secret"), ServiceConfig{})

	bookingID := uuid.New()
	hostID := uuid.New()
	require.NoError(t, svc.ReleaseHostPayout(context.Background(), bookingID, hostID, 2790))

	require.Len(t, repo.dispatches, 1)
	assert.Equal(t, DispatchPayout, repo.dispatches[0].Kind)
	assert.Equal(t, DispatchSent, repo.dispatches[0].Status)
	require.NotNil(t, repo.dispatches[0].HostID)
	assert.Equal(t, hostID, *repo.dispatches[0].HostID)
}
