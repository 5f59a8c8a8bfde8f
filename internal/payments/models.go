package payments

import (
	"time"

	"github.com/google/uuid"
)

// IntentStatus tracks a payment intent through the gateway handshake.
type IntentStatus string

const (
	IntentCreated  IntentStatus = "created"
	IntentVerified IntentStatus = "verified"
)

// PaymentIntent is the record of a charge opened against the gateway
// for a booking total.
type PaymentIntent struct {
	ID            uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BookingID     uuid.UUID    `json:"booking_id" gorm:"type:uuid;not null;index"`
	TransactionID string       `json:"transaction_id" gorm:"uniqueIndex;not null"`
	Amount        float64      `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency      string       `json:"currency" gorm:"type:varchar(3);not null;default:'INR'"`
	Status        IntentStatus `json:"status" gorm:"type:varchar(20);not null;default:'created'"`
	VerifiedAt    *time.Time   `json:"verified_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PaymentIntent) TableName() string {
	return "payment_intents"
}

// DispatchKind is the direction of an outbound money movement.
type DispatchKind string

const (
	DispatchRefund DispatchKind = "refund"
	DispatchPayout DispatchKind = "payout"
)

// DispatchStatus tracks an outbound transfer.
type DispatchStatus string

const (
	DispatchPending DispatchStatus = "pending"
	DispatchSent    DispatchStatus = "sent"
	DispatchFailed  DispatchStatus = "failed"
)

// Dispatch is a ledger row for money leaving the platform: guest
// refunds and host payouts. Failed rows stay in the ledger and get
// retried by the background sweeper, so a gateway outage never loses
// a transfer.
type Dispatch struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BookingID  uuid.UUID      `json:"booking_id" gorm:"type:uuid;not null;index"`
	BookingRef string         `json:"booking_ref" gorm:"not null"`
	HostID     *uuid.UUID     `json:"host_id,omitempty" gorm:"type:uuid"`
	Kind       DispatchKind   `json:"kind" gorm:"type:varchar(10);not null"`
	Amount     float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Status     DispatchStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending';index"`
	Attempts   int            `json:"attempts" gorm:"not null;default:0"`
	LastError  string         `json:"last_error,omitempty" gorm:"type:text"`
	SentAt     *time.Time     `json:"sent_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Dispatch) TableName() string {
	return "payment_dispatches"
}
