package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCouponLedger stores coupons and their usage records
type GormCouponLedger struct {
	db *gorm.DB
}

func NewGormCouponLedger(db *gorm.DB) *GormCouponLedger {
	return &GormCouponLedger{db: db}
}

// FindByCode loads a coupon with every usage record. Codes match case-insensitively.
func (l *GormCouponLedger) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := l.db.WithContext(ctx).
		Preload("UsedBy").
		Where("LOWER(code) = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// CreateCoupon inserts a coupon definition
func (l *GormCouponLedger) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	return l.db.WithContext(ctx).Omit("UsedBy").Create(c).Error
}

// IncrementUsage bumps used_count in place and appends a usage row.
// The two writes are independent; no limit is checked here.
func (l *GormCouponLedger) IncrementUsage(ctx context.Context, couponID, userID, orderID string) error {
	db := l.db.WithContext(ctx)
	res := db.Model(&models.Coupon{}).Where("id = ?", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return db.Create(&models.CouponUsage{
		CouponID: couponID,
		UserID:   userID,
		OrderID:  orderID,
		UsedAt:   time.Now(),
	}).Error
}
