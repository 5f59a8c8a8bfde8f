package payments

import (
	"context"
	"errors"
	"time"

	"villagestay/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateIntent(ctx context.Context, intent *PaymentIntent) error
	GetIntentByTransactionID(ctx context.Context, transactionID string) (*PaymentIntent, error)
	MarkIntentVerified(ctx context.Context, transactionID string) error

	CreateDispatch(ctx context.Context, dispatch *Dispatch) error
	UpdateDispatch(ctx context.Context, dispatch *Dispatch) error
	GetPendingDispatches(ctx context.Context, limit int) ([]Dispatch, error)
	GetDispatchesByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Dispatch, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateIntent(ctx context.Context, intent *PaymentIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *repository) GetIntentByTransactionID(ctx context.Context, transactionID string) (*PaymentIntent, error) {
	var intent PaymentIntent
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "Payment transaction not found")
		}
		return nil, err
	}
	return &intent, nil
}

func (r *repository) MarkIntentVerified(ctx context.Context, transactionID string) error {
	result := r.db.WithContext(ctx).
		Model(&PaymentIntent{}).
		Where("transaction_id = ? AND status = ?", transactionID, IntentCreated).
		Updates(map[string]interface{}{
			"status":      IntentVerified,
			"verified_at": time.Now(),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindInvalidState, "Payment has already been verified")
	}
	return nil
}

func (r *repository) CreateDispatch(ctx context.Context, dispatch *Dispatch) error {
	return r.db.WithContext(ctx).Create(dispatch).Error
}

func (r *repository) UpdateDispatch(ctx context.Context, dispatch *Dispatch) error {
	return r.db.WithContext(ctx).Save(dispatch).Error
}

// GetPendingDispatches returns unsent transfers, oldest first, for the
// retry sweeper.
func (r *repository) GetPendingDispatches(ctx context.Context, limit int) ([]Dispatch, error) {
	var dispatches []Dispatch
	err := r.db.WithContext(ctx).
		Where("status IN ?", []DispatchStatus{DispatchPending, DispatchFailed}).
		Order("created_at ASC").
		Limit(limit).
		Find(&dispatches).Error
	return dispatches, err
}

func (r *repository) GetDispatchesByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Dispatch, error) {
	var dispatches []Dispatch
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&dispatches).Error
	return dispatches, err
}
