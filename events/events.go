// Package events publishes order lifecycle events for downstream consumers
// (shipping, analytics). Publishing is best-effort: callers log failures and
// never roll an order back because an event was lost.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/Govind-619/ShopSphere/models"
)

// Event types
const (
	OrderCreated       = "order.created"
	OrderConfirmed     = "order.confirmed"
	OrderCancelled     = "order.cancelled"
	OrderAbandoned     = "order.abandoned"
	OrderStatusChanged = "order.status_changed"
	PaymentFailed      = "payment.failed"
)

// OrderEvent is the message body published for every transition
type OrderEvent struct {
	Type          string               `json:"type"`
	OrderID       string               `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	UserID        string               `json:"user_id"`
	Status        models.OrderStatus   `json:"status"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	TotalAmount   float64              `json:"total_amount"`
	Reason        string               `json:"reason,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewOrderEvent snapshots the order for an event of the given type
func NewOrderEvent(eventType string, o *models.Order, now time.Time) OrderEvent {
	return OrderEvent{
		Type:          eventType,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentMethod: o.Payment.Method,
		PaymentStatus: o.Payment.Status,
		TotalAmount:   o.TotalAmount,
		Reason:        o.CancellationReason,
		OccurredAt:    now.UTC(),
	}
}

// Publisher sends order events
type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
	Close() error
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(ctx context.Context, ev OrderEvent) error { return nil }
func (Nop) Close() error                                     { return nil }

// Recorder keeps events in memory
type Recorder struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (r *Recorder) Publish(ctx context.Context, ev OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns the recorded events in publish order
func (r *Recorder) Events() []OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OrderEvent(nil), r.events...)
}

// Types returns the recorded event types in publish order
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}
