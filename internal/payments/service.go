package payments

import (
	"context"
	"fmt"
	"time"

	"villagestay/internal/shared/apperrors"
	"villagestay/pkg/logger"

	"github.com/google/uuid"
)

// Service is the payments facade used by the booking lifecycle. Its
// method set satisfies the booking package's PaymentService interface.
type Service interface {
	CreateIntent(ctx context.Context, bookingID uuid.UUID, bookingRef string, amount float64) (string, error)
	VerifyPayment(ctx context.Context, bookingID uuid.UUID, transactionID, signature string, amount float64) error
	IssueRefund(ctx context.Context, bookingID uuid.UUID, bookingRef string, amount float64) error
	ReleaseHostPayout(ctx context.Context, bookingID, hostID uuid.UUID, amount float64) error

	// RetryPendingDispatches re-drives unsent refunds and payouts.
	RetryPendingDispatches(ctx context.Context) (int, error)
}

// ServiceConfig carries the payment tunables.
type ServiceConfig struct {
	MaxRetries int
	BatchSize  int
}

type service struct {
	repo    Repository
	gateway Gateway
	cfg     ServiceConfig
	log     *logger.Logger
}

// NewService creates a new payment service instance
func NewService(repo Repository, gateway Gateway, cfg ServiceConfig) Service {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &service{
		repo:    repo,
		gateway: gateway,
		cfg:     cfg,
		log:     logger.GetDefault(),
	}
}

// CreateIntent opens a gateway transaction for a booking total and
// records it.
func (s *service) CreateIntent(ctx context.Context, bookingID uuid.UUID, bookingRef string, amount float64) (string, error) {
	transactionID, err := s.gateway.CreateTransaction(ctx, bookingRef, amount)
	if err != nil {
		return "", err
	}

	intent := &PaymentIntent{
		BookingID:     bookingID,
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      "INR",
		Status:        IntentCreated,
	}
	if err := s.repo.CreateIntent(ctx, intent); err != nil {
		return "", fmt.Errorf("failed to record payment intent: %w", err)
	}

	return transactionID, nil
}

// VerifyPayment checks the gateway signature for a known transaction
// and marks the intent verified. The intent must belong to the booking
// being paid, and a second verification of the same transaction fails,
// so a captured signature cannot be replayed or redirected.
func (s *service) VerifyPayment(ctx context.Context, bookingID uuid.UUID, transactionID, signature string, amount float64) error {
	intent, err := s.repo.GetIntentByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}

	if intent.BookingID != bookingID {
		return apperrors.New(apperrors.KindPayment, "Payment transaction does not belong to this booking")
	}

	if err := s.gateway.VerifySignature(intent.TransactionID, signature, amount); err != nil {
		return err
	}

	return s.repo.MarkIntentVerified(ctx, transactionID)
}

// IssueRefund records and attempts a guest refund. The dispatch row is
// written before the gateway call, so a crash mid-send leaves a
// retryable record rather than a lost refund.
func (s *service) IssueRefund(ctx context.Context, bookingID uuid.UUID, bookingRef string, amount float64) error {
	dispatch := &Dispatch{
		BookingID:  bookingID,
		BookingRef: bookingRef,
		Kind:       DispatchRefund,
		Amount:     amount,
		Status:     DispatchPending,
	}
	if err := s.repo.CreateDispatch(ctx, dispatch); err != nil {
		return fmt.Errorf("failed to record refund dispatch: %w", err)
	}

	return s.attemptDispatch(ctx, dispatch)
}

// ReleaseHostPayout records and attempts a host earnings transfer.
func (s *service) ReleaseHostPayout(ctx context.Context, bookingID, hostID uuid.UUID, amount float64) error {
	dispatch := &Dispatch{
		BookingID: bookingID,
		HostID:    &hostID,
		Kind:      DispatchPayout,
		Amount:    amount,
		Status:    DispatchPending,
	}
	if err := s.repo.CreateDispatch(ctx, dispatch); err != nil {
		return fmt.Errorf("failed to record payout dispatch: %w", err)
	}

	return s.attemptDispatch(ctx, dispatch)
}

// RetryPendingDispatches re-drives every unsent transfer once. Returns
// the number successfully sent.
func (s *service) RetryPendingDispatches(ctx context.Context) (int, error) {
	dispatches, err := s.repo.GetPendingDispatches(ctx, s.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range dispatches {
		dispatch := &dispatches[i]
		if dispatch.Attempts >= s.cfg.MaxRetries {
			s.log.Warn("dispatch exhausted retries, needs manual intervention",
				"dispatch_id", dispatch.ID.String(),
				"booking_ref", dispatch.BookingRef,
				"kind", string(dispatch.Kind))
			continue
		}
		if err := s.attemptDispatch(ctx, dispatch); err == nil {
			sent++
		}
	}
	return sent, nil
}

func (s *service) attemptDispatch(ctx context.Context, dispatch *Dispatch) error {
	var sendErr error
	switch dispatch.Kind {
	case DispatchRefund:
		sendErr = s.gateway.SendRefund(ctx, dispatch.BookingRef, dispatch.Amount)
	case DispatchPayout:
		hostID := ""
		if dispatch.HostID != nil {
			hostID = dispatch.HostID.String()
		}
		sendErr = s.gateway.SendPayout(ctx, hostID, dispatch.Amount)
	default:
		sendErr = fmt.Errorf("unknown dispatch kind %q", dispatch.Kind)
	}

	dispatch.Attempts++

	if sendErr != nil {
		dispatch.Status = DispatchFailed
		dispatch.LastError = sendErr.Error()
		if err := s.repo.UpdateDispatch(ctx, dispatch); err != nil {
			s.log.Error("failed to record dispatch failure",
				"dispatch_id", dispatch.ID.String(),
				"error", err.Error())
		}
		return sendErr
	}

	now := time.Now()
	dispatch.Status = DispatchSent
	dispatch.LastError = ""
	dispatch.SentAt = &now
	return s.repo.UpdateDispatch(ctx, dispatch)
}
