package payments

import (
	"context"
	"strings"
	"testing"

	"villagestay/internal/shared/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGatewaySignVerify(t *testing.T) {
	gw := NewMockGateway("test-secret")

	txn, err := gw.CreateTransaction(context.Background(), "VS202603101234", 3150)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(txn, "TXN_"))
	assert.Contains(t, txn, "VS202603101234")

	sig := gw.Sign(txn, 3150)
	assert.NoError(t, gw.VerifySignature(txn, sig, 3150))
}

func TestMockGatewayRejectsBadSignature(t *testing.T) {
	gw := NewMockGateway("test-secret")

	err := gw.VerifySignature("TXN_1", "deadbeef", 100)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPayment))
}

func TestMockGatewayRejectsAmountMismatch(t *testing.T) {
	gw := NewMockGateway("test-secret")

	sig := gw.Sign("TXN_1", 100)
	err := gw.VerifySignature("TXN_1", sig, 99)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPayment))
}

func TestMockGatewaySignatureBoundToSecret(t *testing.T) {
	a := NewMockGateway("secret-a")
	b := NewMockGateway("secret-b")

	sig := a.Sign("TXN_1", 100)
	assert.Error(t, b.VerifySignature("TXN_1", sig, 100))
}

func TestMockGatewayRejectsNonPositiveAmounts(t *testing.T) {
	gw := NewMockGateway("test-secret")

	_, err := gw.CreateTransaction(context.Background(), "VS202603101234", 0)
	assert.Error(t, err)
	assert.Error(t, gw.SendRefund(context.Background(), "VS202603101234", -5))
	assert.Error(t, gw.SendPayout(context.Background(), "host", 0))
}
