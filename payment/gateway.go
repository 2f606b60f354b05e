// Package payment is the boundary to the external payment gateway.
package payment

import (
	"context"
	"errors"
)

// ErrIntentNotFound is returned when the gateway has no order with the given id
var ErrIntentNotFound = errors.New("payment intent not found")

// Intent is a remote payment order the client completes at the gateway
type Intent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Refund is the gateway's answer to a refund request
type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Gateway creates and looks up payment intents, checks payment signatures and issues refunds.
// Calls are not retried here; failures go back to the caller.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, receiptID, payerEmail string) (*Intent, error)
	FetchIntent(ctx context.Context, gatewayOrderID string) (*Intent, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	Refund(ctx context.Context, gatewayPaymentID string, amountMajor float64, reason string) (*Refund, error)
}
