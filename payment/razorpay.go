package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Govind-619/ShopSphere/utils"
	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway implements Gateway on the Razorpay orders and payments API
type RazorpayGateway struct {
	client   *razorpay.Client
	secret   string
	currency string
}

func NewRazorpayGateway(key, secret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:   razorpay.NewClient(key, secret),
		secret:   secret,
		currency: utils.Currency,
	}
}

func (g *RazorpayGateway) CreateIntent(ctx context.Context, amountMinor int64, receiptID, payerEmail string) (*Intent, error) {
	if amountMinor <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	utils.LogInfo("Creating Razorpay order for receipt %s: %d paise", receiptID, amountMinor)

	orderData := map[string]interface{}{
		"amount":          amountMinor,
		"currency":        g.currency,
		"receipt":         receiptID,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"email": payerEmail,
		},
	}
	rzOrder, err := g.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}
	id, _ := rzOrder["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay order response has no id")
	}
	return &Intent{ID: id, Amount: amountMinor, Currency: g.currency, Receipt: receiptID}, nil
}

// FetchIntent reads the order back from Razorpay so callers can check what was charged
func (g *RazorpayGateway) FetchIntent(ctx context.Context, gatewayOrderID string) (*Intent, error) {
	if gatewayOrderID == "" {
		return nil, ErrIntentNotFound
	}
	rzOrder, err := g.client.Order.Fetch(gatewayOrderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch razorpay order %s: %w", gatewayOrderID, err)
	}
	amount, ok := rzOrder["amount"].(float64)
	if !ok {
		return nil, fmt.Errorf("razorpay order %s has no amount", gatewayOrderID)
	}
	in := &Intent{ID: gatewayOrderID, Amount: int64(amount)}
	in.Currency, _ = rzOrder["currency"].(string)
	in.Receipt, _ = rzOrder["receipt"].(string)
	return in, nil
}

func (g *RazorpayGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return VerifySignature(g.secret, gatewayOrderID, gatewayPaymentID, signature)
}

func (g *RazorpayGateway) Refund(ctx context.Context, gatewayPaymentID string, amountMajor float64, reason string) (*Refund, error) {
	if gatewayPaymentID == "" {
		return nil, errors.New("no gateway payment id to refund")
	}
	amountPaise := int(utils.ToMinorUnits(amountMajor))
	utils.LogInfo("Requesting Razorpay refund for payment %s: %d paise", gatewayPaymentID, amountPaise)

	data := map[string]interface{}{
		"notes": map[string]interface{}{
			"reason": reason,
		},
	}
	resp, err := g.client.Payment.Refund(gatewayPaymentID, amountPaise, data, nil)
	if err != nil {
		return nil, fmt.Errorf("refund razorpay payment %s: %w", gatewayPaymentID, err)
	}
	refund := &Refund{}
	refund.ID, _ = resp["id"].(string)
	refund.Status, _ = resp["status"].(string)
	if refund.ID == "" {
		return nil, fmt.Errorf("razorpay refund response for %s has no id", gatewayPaymentID)
	}
	return refund, nil
}
