package repository

import (
	"context"
	"testing"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCouponLedger(t *testing.T) {
	ledger := NewGormCouponLedger(newTestDB(t))
	ctx := context.Background()

	coupon := &models.Coupon{Code: " save10 ", Type: models.CouponTypePercentage, Value: 10, IsActive: true}
	require.NoError(t, ledger.CreateCoupon(ctx, coupon))
	assert.NotEmpty(t, coupon.ID)
	assert.Equal(t, "SAVE10", coupon.Code)

	dup := &models.Coupon{Code: "SAVE10", Type: models.CouponTypeFixedAmount, Value: 5, IsActive: true}
	assert.Error(t, ledger.CreateCoupon(ctx, dup))

	require.NoError(t, ledger.IncrementUsage(ctx, coupon.ID, "user-alice", "order-1"))
	require.NoError(t, ledger.IncrementUsage(ctx, coupon.ID, "user-alice", "order-2"))
	require.NoError(t, ledger.IncrementUsage(ctx, coupon.ID, "user-bob", "order-3"))

	found, err := ledger.FindByCode(ctx, "Save10")
	require.NoError(t, err)
	assert.Equal(t, coupon.ID, found.ID)
	assert.Equal(t, 3, found.UsedCount)
	assert.Len(t, found.UsedBy, 3)
	assert.Equal(t, 2, found.UsageCountFor("user-alice"))
	assert.Equal(t, 1, found.UsageCountFor("user-bob"))

	assert.ErrorIs(t, ledger.IncrementUsage(ctx, "missing", "user-alice", "order-4"), ErrCouponNotFound)
	_, err = ledger.FindByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestGormDeliveryChargeRepository(t *testing.T) {
	repo := NewGormDeliveryChargeRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.DeliveryCharge{City: " Kochi", State: "Kerala", Charge: 20, IsActive: true}))
	require.NoError(t, repo.Upsert(ctx, &models.DeliveryCharge{City: "Bengaluru", State: "Karnataka", Charge: 40, IsActive: false}))
	require.NoError(t, repo.Upsert(ctx, &models.DeliveryCharge{City: "KOCHI", State: "kerala ", Charge: 25, IsActive: true}))

	charges, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, charges, 2, "the second Kochi entry replaces the first")
	assert.Equal(t, "karnataka", charges[0].State)

	dc, err := repo.Find(ctx, "kochi", "kerala")
	require.NoError(t, err)
	assert.Equal(t, 25.0, dc.Charge)

	_, err = repo.Find(ctx, "bengaluru", "karnataka")
	assert.ErrorIs(t, err, ErrDeliveryChargeNotFound, "inactive charges are not returned")
}
