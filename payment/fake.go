package payment

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Gateway for tests and local runs without gateway keys.
// Signatures are real HMACs over Secret so the verification path is the same.
type Fake struct {
	Secret string

	mu        sync.Mutex
	intents   []Intent
	refunds   []FakeRefund
	RefundErr error
	IntentErr error
}

// FakeRefund records one refund call
type FakeRefund struct {
	PaymentID string
	Amount    float64
	Reason    string
}

func NewFake(secret string) *Fake {
	return &Fake{Secret: secret}
}

func (f *Fake) CreateIntent(ctx context.Context, amountMinor int64, receiptID, payerEmail string) (*Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.IntentErr != nil {
		return nil, f.IntentErr
	}
	in := Intent{
		ID:       fmt.Sprintf("order_fake_%d", len(f.intents)+1),
		Amount:   amountMinor,
		Currency: "INR",
		Receipt:  receiptID,
	}
	f.intents = append(f.intents, in)
	return &in, nil
}

func (f *Fake) FetchIntent(ctx context.Context, gatewayOrderID string) (*Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range f.intents {
		if in.ID == gatewayOrderID {
			out := in
			return &out, nil
		}
	}
	return nil, ErrIntentNotFound
}

func (f *Fake) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return VerifySignature(f.Secret, gatewayOrderID, gatewayPaymentID, signature)
}

func (f *Fake) Refund(ctx context.Context, gatewayPaymentID string, amountMajor float64, reason string) (*Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RefundErr != nil {
		return nil, f.RefundErr
	}
	f.refunds = append(f.refunds, FakeRefund{PaymentID: gatewayPaymentID, Amount: amountMajor, Reason: reason})
	return &Refund{ID: fmt.Sprintf("rfnd_fake_%d", len(f.refunds)), Status: "processed"}, nil
}

// Refunds returns the refunds issued so far
func (f *Fake) Refunds() []FakeRefund {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeRefund(nil), f.refunds...)
}

// Intents returns the intents created so far
func (f *Fake) Intents() []Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Intent(nil), f.intents...)
}
