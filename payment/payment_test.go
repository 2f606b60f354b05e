package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_MatchesHMACOverPipeJoinedIDs(t *testing.T) {
	h := hmac.New(sha256.New, []byte("secret"))
	h.Write([]byte("order_1|pay_1"))
	want := hex.EncodeToString(h.Sum(nil))

	assert.Equal(t, want, Sign("secret", "order_1", "pay_1"))
}

func TestVerifySignature(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")
	last := "a"
	if sig[len(sig)-1:] == "a" {
		last = "b"
	}
	tampered := sig[:len(sig)-1] + last

	tests := []struct {
		name      string
		secret    string
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{"valid", "secret", "order_1", "pay_1", sig, true},
		{"wrong secret", "other", "order_1", "pay_1", sig, false},
		{"swapped ids", "secret", "pay_1", "order_1", sig, false},
		{"tampered", "secret", "order_1", "pay_1", tampered, false},
		{"empty signature", "secret", "order_1", "pay_1", "", false},
		{"empty secret", "", "order_1", "pay_1", Sign("", "order_1", "pay_1"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifySignature(tt.secret, tt.orderID, tt.paymentID, tt.signature))
		})
	}
}

func TestFake_RecordsIntentsAndRefunds(t *testing.T) {
	f := NewFake("secret")
	ctx := context.Background()

	in, err := f.CreateIntent(ctx, 28600, "rcpt_1", "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, int64(28600), in.Amount)
	assert.Equal(t, "INR", in.Currency)
	assert.True(t, f.VerifySignature(in.ID, "pay_1", Sign("secret", in.ID, "pay_1")))

	r, err := f.Refund(ctx, "pay_1", 286, "cancelled")
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Len(t, f.Refunds(), 1)

	f.RefundErr = errors.New("gateway down")
	_, err = f.Refund(ctx, "pay_1", 286, "cancelled")
	assert.Error(t, err)
	assert.Len(t, f.Refunds(), 1)
}

func TestFake_FetchIntent(t *testing.T) {
	f := NewFake("secret")
	ctx := context.Background()
	created, err := f.CreateIntent(ctx, 16800, "rcpt_1", "a@b.c")
	require.NoError(t, err)

	got, err := f.FetchIntent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	_, err = f.FetchIntent(ctx, "order_unknown")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

var _ Gateway = (*RazorpayGateway)(nil)
