// Package repository holds the store interfaces the order engine depends on and
// their gorm implementations. Every method is a single read or a single write;
// none of them spans more than one document atomically.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/ShopSphere/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrOrderNotFound   = errors.New("order not found")

	ErrDeliveryChargeNotFound = errors.New("delivery charge not found")
)

// ProductRepository loads products with their variants in display order.
// The catalog owns product writes; stock changes go through StockStore.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// StockStore reads and writes the stock of one variant. An empty variant key
// addresses the product-level count of a product without variants.
// There is no compare-and-swap: callers read, compute and write.
type StockStore interface {
	GetStock(ctx context.Context, productID, variantKey string) (int, error)
	// SetStock clamps qty at zero and recomputes the product aggregate.
	SetStock(ctx context.Context, productID, variantKey string, qty int) error
	// InsertVariant adds one variant row (or sets its stock when the key
	// exists) without touching sibling rows, then recomputes the aggregate.
	InsertVariant(ctx context.Context, productID string, v *models.ProductVariant) error
	RecomputeAggregate(ctx context.Context, productID string) error
}

// CouponLedger holds coupon definitions and their usage counters
type CouponLedger interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	CreateCoupon(ctx context.Context, c *models.Coupon) error
	// IncrementUsage bumps the global counter and appends one usage record.
	// It does not check limits.
	IncrementUsage(ctx context.Context, couponID, userID, orderID string) error
}

// OrderRepository persists orders. Orders are never deleted.
type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	Save(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	// FindAbandoned returns unpaid online orders still PENDING that were created before cutoff.
	FindAbandoned(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

// DeliveryChargeRepository is the admin-managed city/state charge table
type DeliveryChargeRepository interface {
	// Find returns the active charge for an already lower-cased city/state pair.
	Find(ctx context.Context, city, state string) (*models.DeliveryCharge, error)
	List(ctx context.Context) ([]models.DeliveryCharge, error)
	Upsert(ctx context.Context, dc *models.DeliveryCharge) error
}
