package models

import (
	"time"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order status constants
const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// PaymentMethod is how the order is paid for
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// PaymentStatus tracks the payment independently of the order status
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// FailureReasonTimeout is recorded on orders the reaper abandons
const FailureReasonTimeout = "timeout"

// ShippingAddress is copied onto the order at checkout
type ShippingAddress struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// PaymentInfo is the payment sub-document of an order
type PaymentInfo struct {
	Method           PaymentMethod `json:"method"`
	Status           PaymentStatus `json:"status"`
	GatewayOrderID   string        `gorm:"index" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string        `json:"gateway_payment_id,omitempty"`
	GatewaySignature string        `json:"-"`
	RefundID         string        `json:"refund_id,omitempty"`
	FailureReason    string        `json:"failure_reason,omitempty"`
}

// CouponSnapshot freezes the effect a coupon had on the order
type CouponSnapshot struct {
	CouponID           string     `json:"coupon_id"`
	Code               string     `json:"code"`
	Type               CouponType `json:"type"`
	Value              float64    `json:"value"`
	DiscountAmount     float64    `json:"discount_amount"`
	DiscountOnDelivery float64    `json:"discount_on_delivery"`
}

type Order struct {
	ID                 string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderNumber        string          `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID             string          `gorm:"index;not null" json:"user_id"`
	ContactEmail       string          `json:"contact_email,omitempty"`
	Items              []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	ShippingAddress    ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Subtotal           float64         `json:"subtotal"`
	DeliveryCharge     float64         `json:"delivery_charge"`
	DiscountAmount     float64         `json:"discount_amount"`
	DiscountOnDelivery float64         `json:"discount_on_delivery"`
	GSTAmount          float64         `json:"gst_amount"`
	TotalAmount        float64         `json:"total_amount"`
	CouponUsed         *CouponSnapshot `gorm:"serializer:json" json:"coupon_used,omitempty"`
	Payment            PaymentInfo     `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Status             OrderStatus     `gorm:"index;not null" json:"status"`
	InventoryCommitted bool            `gorm:"default:false" json:"-"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	ConfirmedAt        *time.Time      `json:"confirmed_at,omitempty"`
	ProcessingAt       *time.Time      `json:"processing_at,omitempty"`
	ShippedAt          *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	PaidAt             *time.Time      `json:"paid_at,omitempty"`
	RefundedAt         *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OrderItem holds a price and name snapshot; ProductID and VariantKey are
// only used to write stock back.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    string  `gorm:"type:varchar(36);index" json:"order_id"`
	ProductID  string  `gorm:"type:varchar(64);not null" json:"product_id"`
	VariantKey string  `json:"variant_key"`
	Name       string  `json:"name"`
	Size       string  `json:"size,omitempty"`
	Color      string  `json:"color,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	LineTotal  float64 `json:"line_total"`
}

var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	if _, ok := statusRank[s]; ok {
		return true
	}
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
}

// CanUserCancel reports whether the owner may cancel from this status
func CanUserCancel(s OrderStatus) bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// CanAdminTransition reports whether an admin may move an order from one status to another.
// Forward moves along the fulfilment chain may skip steps.
func CanAdminTransition(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	switch to {
	case OrderStatusCancelled:
		return from == OrderStatusPending || from == OrderStatusConfirmed || from == OrderStatusProcessing
	case OrderStatusRefunded:
		return from == OrderStatusConfirmed
	}
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	return okFrom && okTo && toRank > fromRank
}

// Stamp records the first entry into status. Re-entering a status keeps the original time.
func (o *Order) Stamp(status OrderStatus, now time.Time) {
	t := now
	set := func(field **time.Time) {
		if *field == nil {
			*field = &t
		}
	}
	switch status {
	case OrderStatusConfirmed:
		set(&o.ConfirmedAt)
	case OrderStatusProcessing:
		set(&o.ProcessingAt)
	case OrderStatusShipped:
		set(&o.ShippedAt)
	case OrderStatusDelivered:
		set(&o.DeliveredAt)
	case OrderStatusCancelled:
		set(&o.CancelledAt)
	case OrderStatusRefunded:
		set(&o.RefundedAt)
	}
}

// MarkPaid stamps paidAt once
func (o *Order) MarkPaid(now time.Time) {
	o.Payment.Status = PaymentStatusPaid
	if o.PaidAt == nil {
		t := now
		o.PaidAt = &t
	}
}
