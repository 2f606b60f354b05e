package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/ShopSphere/models"
	"gorm.io/gorm"
)

// GormOrderRepository persists orders and their item snapshots
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order together with its items
func (r *GormOrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// Save updates the order row. Items are immutable snapshots and are not rewritten.
func (r *GormOrderRepository) Save(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(o).Error
}

func (r *GormOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	return r.first(ctx, "payment_gateway_order_id = ?", gatewayOrderID)
}

func (r *GormOrderRepository) first(ctx context.Context, query string, args ...interface{}) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").Where(query, args...).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first
func (r *GormOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// FindAbandoned selects PENDING online orders whose payment never arrived
func (r *GormOrderRepository) FindAbandoned(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("status = ? AND payment_method = ? AND payment_status = ? AND created_at < ?",
			models.OrderStatusPending, models.PaymentMethodOnline, models.PaymentStatusPending, cutoff).
		Order("created_at ASC").
		Limit(500).
		Find(&orders).Error
	return orders, err
}
