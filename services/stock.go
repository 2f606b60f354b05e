package services

import (
	"context"
	"fmt"

	"github.com/Govind-619/ShopSphere/lock"
	"github.com/Govind-619/ShopSphere/repository"
)

// ErrShortfall is returned by Decrement when the stored stock was lower than
// the quantity taken. The write still happens, clamped at zero.
type ErrShortfall struct {
	ProductID  string
	VariantKey string
	Available  int
	Requested  int
}

func (e *ErrShortfall) Error() string {
	return fmt.Sprintf("stock shortfall on %s/%s: had %d, took %d", e.ProductID, e.VariantKey, e.Available, e.Requested)
}

// StockKeeper applies read-then-write stock and coupon counter updates,
// each under the configured locker.
type StockKeeper struct {
	stock   repository.StockStore
	coupons repository.CouponLedger
	locker  lock.Locker
}

func NewStockKeeper(stock repository.StockStore, coupons repository.CouponLedger, locker lock.Locker) *StockKeeper {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &StockKeeper{stock: stock, coupons: coupons, locker: locker}
}

func stockKey(productID, variantKey string) string {
	return "stock:" + productID + ":" + variantKey
}

// Decrement takes qty from the variant (or product count when variantKey is empty)
func (k *StockKeeper) Decrement(ctx context.Context, productID, variantKey string, qty int) error {
	return k.adjust(ctx, productID, variantKey, -qty)
}

// Restore gives qty back. A missing product or variant is returned as
// repository.ErrProductNotFound / ErrVariantNotFound for the caller to skip.
func (k *StockKeeper) Restore(ctx context.Context, productID, variantKey string, qty int) error {
	return k.adjust(ctx, productID, variantKey, qty)
}

func (k *StockKeeper) adjust(ctx context.Context, productID, variantKey string, delta int) error {
	unlock, err := k.locker.Lock(ctx, stockKey(productID, variantKey))
	if err != nil {
		return err
	}
	defer unlock()

	current, err := k.stock.GetStock(ctx, productID, variantKey)
	if err != nil {
		return err
	}
	if err := k.stock.SetStock(ctx, productID, variantKey, current+delta); err != nil {
		return err
	}
	if current+delta < 0 {
		return &ErrShortfall{ProductID: productID, VariantKey: variantKey, Available: current, Requested: -delta}
	}
	return nil
}

// Set overwrites the stock of one variant
func (k *StockKeeper) Set(ctx context.Context, productID, variantKey string, qty int) error {
	unlock, err := k.locker.Lock(ctx, stockKey(productID, variantKey))
	if err != nil {
		return err
	}
	defer unlock()
	return k.stock.SetStock(ctx, productID, variantKey, qty)
}

// WithStockLock runs fn while holding the lock of one stock key
func (k *StockKeeper) WithStockLock(ctx context.Context, productID, variantKey string, fn func() error) error {
	unlock, err := k.locker.Lock(ctx, stockKey(productID, variantKey))
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

// CountCouponUse records one use of the coupon by userID for orderID
func (k *StockKeeper) CountCouponUse(ctx context.Context, couponID, userID, orderID string) error {
	unlock, err := k.locker.Lock(ctx, "coupon:"+couponID)
	if err != nil {
		return err
	}
	defer unlock()
	return k.coupons.IncrementUsage(ctx, couponID, userID, orderID)
}
