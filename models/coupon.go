package models

import (
	"time"

	"gorm.io/gorm"
)

// CouponType selects how the discount is computed
type CouponType string

const (
	CouponTypePercentage   CouponType = "PERCENTAGE"
	CouponTypeFixedAmount  CouponType = "FIXED_AMOUNT"
	CouponTypeFreeShipping CouponType = "FREE_SHIPPING"
)

// IsValid reports whether t is a known coupon type
func (t CouponType) IsValid() bool {
	return t == CouponTypePercentage || t == CouponTypeFixedAmount || t == CouponTypeFreeShipping
}

type Coupon struct {
	ID                    string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Code                  string         `gorm:"uniqueIndex;not null" json:"code"`
	Type                  CouponType     `gorm:"not null" json:"type"`
	Value                 float64        `json:"value"`
	MinPurchaseAmount     float64        `gorm:"default:0" json:"min_purchase_amount"`
	MaximumDiscountAmount *float64       `json:"maximum_discount_amount,omitempty"`
	UsageLimit            *int           `json:"usage_limit,omitempty"`
	UsageLimitPerUser     *int           `json:"usage_limit_per_user,omitempty"`
	UsedCount             int            `gorm:"default:0" json:"used_count"`
	UsedBy                []CouponUsage  `gorm:"foreignKey:CouponID" json:"used_by,omitempty"`
	IsActive              bool           `gorm:"not null" json:"is_active"`
	ExpirationDate        *time.Time     `json:"expiration_date,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

// CouponUsage is one historical use of a coupon. A user may appear several times.
type CouponUsage struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	CouponID string    `gorm:"type:varchar(36);index;not null" json:"coupon_id"`
	UserID   string    `gorm:"index;not null" json:"user_id"`
	OrderID  string    `gorm:"type:varchar(36)" json:"order_id"`
	UsedAt   time.Time `json:"used_at"`
}

// UsageCountFor counts the usage records belonging to userID
func (c *Coupon) UsageCountFor(userID string) int {
	n := 0
	for _, u := range c.UsedBy {
		if u.UserID == userID {
			n++
		}
	}
	return n
}
