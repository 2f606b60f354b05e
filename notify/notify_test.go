package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func order() *models.Order {
	return &models.Order{
		ID:           "o-1",
		OrderNumber:  "ORD-20240101-ABCDEF12",
		ContactEmail: "buyer@example.com",
		Items: []models.OrderItem{
			{Name: "Tee", Size: "M", Color: "Red", Quantity: 2, UnitPrice: 100, LineTotal: 200},
		},
		Subtotal:       200,
		GSTAmount:      36,
		DeliveryCharge: 50,
		TotalAmount:    286,
		Payment:        models.PaymentInfo{Method: models.PaymentMethodCOD, Status: models.PaymentStatusPending},
	}
}

func TestMailNotifier_OrderPlaced(t *testing.T) {
	sender := &captureSender{}
	n := NewMailNotifierWithSender("shop@example.com", sender)

	require.NoError(t, n.OrderPlaced(context.Background(), order()))
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"buyer@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Order ORD-20240101-ABCDEF12 placed"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "286.00")
}

func TestMailNotifier_RefundLineOnlyWhenRefunded(t *testing.T) {
	sender := &captureSender{}
	n := NewMailNotifierWithSender("shop@example.com", sender)

	o := order()
	o.Payment.Status = models.PaymentStatusRefunded
	require.NoError(t, n.OrderCancelled(context.Background(), o))

	var buf bytes.Buffer
	_, err := sender.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "refund")
}

func TestMailNotifier_SkipsWithoutEmail(t *testing.T) {
	sender := &captureSender{}
	n := NewMailNotifierWithSender("shop@example.com", sender)

	o := order()
	o.ContactEmail = ""
	require.NoError(t, n.OrderPlaced(context.Background(), o))
	assert.Empty(t, sender.sent)
}

func TestMailNotifier_SendFailure(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	n := NewMailNotifierWithSender("shop@example.com", sender)

	err := n.OrderPlaced(context.Background(), order())
	assert.ErrorContains(t, err, "smtp down")
}
