package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/repository"
	"github.com/google/uuid"
)

// CouponStore implements repository.CouponLedger
type CouponStore struct {
	mu      sync.RWMutex
	coupons map[string]models.Coupon // keyed by id
	now     func() time.Time
}

func NewCouponStore(coupons ...models.Coupon) *CouponStore {
	s := &CouponStore{coupons: make(map[string]models.Coupon), now: time.Now}
	for _, c := range coupons {
		_ = s.CreateCoupon(context.Background(), &c)
	}
	return s
}

func (s *CouponStore) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.coupons {
		if strings.EqualFold(c.Code, strings.TrimSpace(code)) {
			out := copyCoupon(c)
			return &out, nil
		}
	}
	return nil, repository.ErrCouponNotFound
}

func (s *CouponStore) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[c.ID] = copyCoupon(*c)
	return nil
}

func (s *CouponStore) IncrementUsage(ctx context.Context, couponID, userID, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[couponID]
	if !ok {
		return repository.ErrCouponNotFound
	}
	c.UsedCount++
	c.UsedBy = append(c.UsedBy, models.CouponUsage{
		CouponID: couponID,
		UserID:   userID,
		OrderID:  orderID,
		UsedAt:   s.now(),
	})
	s.coupons[couponID] = c
	return nil
}

func copyCoupon(c models.Coupon) models.Coupon {
	out := c
	out.UsedBy = append([]models.CouponUsage(nil), c.UsedBy...)
	return out
}
