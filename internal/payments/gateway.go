package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"villagestay/internal/shared/apperrors"

	"github.com/google/uuid"
)

// Gateway abstracts the payment provider. The shipped implementation
// is a deterministic mock that signs transactions with an HMAC secret;
// swapping in a real provider only touches this interface.
type Gateway interface {
	CreateTransaction(ctx context.Context, bookingRef string, amount float64) (string, error)
	Sign(transactionID string, amount float64) string
	VerifySignature(transactionID, signature string, amount float64) error
	SendRefund(ctx context.Context, bookingRef string, amount float64) error
	SendPayout(ctx context.Context, hostID string, amount float64) error
}

type mockGateway struct {
	secret []byte
}

// NewMockGateway creates the HMAC-signed mock gateway
func NewMockGateway(signingSecret string) Gateway {
	return &mockGateway{secret: []byte(signingSecret)}
}

// CreateTransaction issues a transaction ID for a charge.
func (g *mockGateway) CreateTransaction(_ context.Context, bookingRef string, amount float64) (string, error) {
	if amount <= 0 {
		return "", apperrors.New(apperrors.KindPayment, "Payment amount must be positive")
	}

	shortUUID := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s_%s", time.Now().Unix(), bookingRef, strings.ToUpper(shortUUID)), nil
}

// Sign produces the signature the gateway would attach to a completed
// payment. The amount is folded in as integer cents so float noise
// cannot change the message.
func (g *mockGateway) Sign(transactionID string, amount float64) string {
	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%s|%d", transactionID, int64(math.Round(amount*100)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a client-supplied signature against the
// expected one in constant time.
func (g *mockGateway) VerifySignature(transactionID, signature string, amount float64) error {
	expected := g.Sign(transactionID, amount)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.New(apperrors.KindPayment, "Payment signature verification failed")
	}
	return nil
}

// SendRefund pushes a refund back to the guest's payment method. The
// mock always succeeds.
func (g *mockGateway) SendRefund(_ context.Context, _ string, amount float64) error {
	if amount <= 0 {
		return apperrors.New(apperrors.KindPayment, "Refund amount must be positive")
	}
	return nil
}

// SendPayout transfers host earnings. The mock always succeeds.
func (g *mockGateway) SendPayout(_ context.Context, _ string, amount float64) error {
	if amount <= 0 {
		return apperrors.New(apperrors.KindPayment, "Payout amount must be positive")
	}
	return nil
}
