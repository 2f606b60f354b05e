package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/repository"
	"github.com/Govind-619/ShopSphere/utils"
)

// CouponInput is what an admin submits to create a coupon
type CouponInput struct {
	Code                  string            `json:"code" binding:"required"`
	Type                  models.CouponType `json:"type" binding:"required"`
	Value                 float64           `json:"value"`
	MinPurchaseAmount     float64           `json:"min_purchase_amount"`
	MaximumDiscountAmount *float64          `json:"maximum_discount_amount"`
	UsageLimit            *int              `json:"usage_limit"`
	UsageLimitPerUser     *int              `json:"usage_limit_per_user"`
	ExpirationDate        *time.Time        `json:"expiration_date"`
	IsActive              *bool             `json:"is_active"`
}

// CouponService manages coupon definitions
type CouponService struct {
	ledger repository.CouponLedger
	now    func() time.Time
}

func NewCouponService(ledger repository.CouponLedger) *CouponService {
	return &CouponService{ledger: ledger, now: time.Now}
}

// Create validates the definition and stores a new coupon
func (s *CouponService) Create(ctx context.Context, in CouponInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, utils.InvalidInputError("Coupon code is required", nil)
	}
	in.Type = models.CouponType(strings.ToUpper(string(in.Type)))
	if !in.Type.IsValid() {
		return nil, utils.InvalidInputError("Coupon type must be PERCENTAGE, FIXED_AMOUNT or FREE_SHIPPING", nil)
	}
	switch in.Type {
	case models.CouponTypePercentage:
		if in.Value <= 0 || in.Value > 100 {
			return nil, utils.InvalidInputError("Percentage must be between 0 and 100", nil)
		}
	case models.CouponTypeFixedAmount:
		if in.Value <= 0 {
			return nil, utils.InvalidInputError("Discount amount must be positive", nil)
		}
	}
	if in.MinPurchaseAmount < 0 {
		return nil, utils.InvalidInputError("Minimum purchase cannot be negative", nil)
	}
	if in.MaximumDiscountAmount != nil && *in.MaximumDiscountAmount < 0 {
		return nil, utils.InvalidInputError("Maximum discount cannot be negative", nil)
	}
	if (in.UsageLimit != nil && *in.UsageLimit < 0) || (in.UsageLimitPerUser != nil && *in.UsageLimitPerUser < 0) {
		return nil, utils.InvalidInputError("Usage limits cannot be negative", nil)
	}
	if in.ExpirationDate != nil && in.ExpirationDate.Before(s.now()) {
		return nil, utils.InvalidInputError("Expiration date must be in the future", nil)
	}

	if _, err := s.ledger.FindByCode(ctx, code); err == nil {
		return nil, utils.ConflictError("", "Coupon code already exists")
	} else if !errors.Is(err, repository.ErrCouponNotFound) {
		return nil, utils.InternalError("Failed to check coupon code", err)
	}

	coupon := &models.Coupon{
		Code:                  code,
		Type:                  in.Type,
		Value:                 in.Value,
		MinPurchaseAmount:     in.MinPurchaseAmount,
		MaximumDiscountAmount: in.MaximumDiscountAmount,
		UsageLimit:            in.UsageLimit,
		UsageLimitPerUser:     in.UsageLimitPerUser,
		ExpirationDate:        in.ExpirationDate,
		IsActive:              in.IsActive == nil || *in.IsActive,
	}
	if err := s.ledger.CreateCoupon(ctx, coupon); err != nil {
		return nil, utils.InternalError("Failed to create coupon", err)
	}
	utils.LogInfo("Coupon %s created (%s %.2f)", coupon.Code, coupon.Type, coupon.Value)
	return coupon, nil
}
