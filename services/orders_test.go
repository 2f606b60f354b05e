package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Govind-619/ShopSphere/events"
	"github.com/Govind-619/ShopSphere/lock"
	"github.com/Govind-619/ShopSphere/metrics"
	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/payment"
	"github.com/Govind-619/ShopSphere/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`)

func TestPlaceCODOrder_CommitsSideEffects(t *testing.T) {
	f := newFixture(t)
	f.addCoupon(t, models.Coupon{Code: "TEN", Value: 10})
	in := checkout(redM(2))
	in.CouponCode = "TEN"

	order, err := f.svc.PlaceCODOrder(context.Background(), alice, in)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentMethodCOD, order.Payment.Method)
	assert.Equal(t, models.PaymentStatusPending, order.Payment.Status)
	assert.Equal(t, alice.UserID, order.UserID)
	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	assert.True(t, order.InventoryCommitted)
	require.NotNil(t, order.CouponUsed)
	assert.Equal(t, 20.0, order.DiscountAmount)

	assert.Equal(t, 1, f.stock(t, "tee", "M", "Red"))
	requireAggregate(t, f.product(t, "tee"))

	c := f.coupon(t, "TEN")
	assert.Equal(t, 1, c.UsedCount)
	require.Len(t, c.UsedBy, 1)
	assert.Equal(t, alice.UserID, c.UsedBy[0].UserID)
	assert.Equal(t, order.ID, c.UsedBy[0].OrderID)

	assert.Equal(t, []string{events.OrderCreated}, f.events.Types())
	placed, _ := f.notifier.Counts()
	assert.Equal(t, 1, placed)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OrdersCreated.WithLabelValues("COD")))
}

func TestPlaceCODOrder_AboveCeiling(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(CheckoutItem{ProductID: "hoodie", Size: "L", Quantity: 2}))
	require.Error(t, err)
	assert.True(t, utils.HasReason(err, utils.ReasonCODLimitExceeded))
	assert.Equal(t, 0, f.orders.Len())
	assert.Equal(t, 4, f.stock(t, "hoodie", "L", ""))
}

func TestPlaceCODOrder_InsufficientStockHasNoSideEffects(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(redM(5)))
	require.Error(t, err)
	assert.True(t, utils.HasReason(err, utils.ReasonInsufficientStock))
	assert.Equal(t, 0, f.orders.Len())
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
	assert.Empty(t, f.events.Events())
}

func TestPlaceCODOrder_StockWriteFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	f.products.FailWrites("mug", true)

	order, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(redM(1), CheckoutItem{ProductID: "mug", Quantity: 2}))
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)

	assert.Equal(t, 2, f.stock(t, "tee", "M", "Red"))
	assert.Equal(t, 10, f.stock(t, "mug", "", ""))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SideEffectFailures.WithLabelValues(metrics.SideEffectStockDecrement)))
}

func TestOnlineCheckout_CreateThenVerify(t *testing.T) {
	f := newFixture(t)
	f.addCoupon(t, models.Coupon{Code: "TEN", Value: 10})
	in := checkout(redM(2))
	in.CouponCode = "TEN"

	started, err := f.svc.InitiateOnlinePayment(context.Background(), alice, in, false)
	require.NoError(t, err)
	assert.Nil(t, started.Order)
	assert.Equal(t, utils.ToMinorUnits(started.Calculation.TotalAmount), started.Intent.Amount)
	assert.Equal(t, 0, f.orders.Len(), "nothing is persisted before payment")
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
	assert.Zero(t, f.coupon(t, "TEN").UsedCount)

	confirm := ConfirmInput{
		GatewayOrderID:   started.Intent.ID,
		GatewayPaymentID: "pay_1",
		Signature:        payment.Sign(testSecret, started.Intent.ID, "pay_1"),
		Checkout:         &in,
	}
	order, err := f.svc.ConfirmOnlinePayment(context.Background(), alice, confirm)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.Payment.Status)
	assert.Equal(t, started.Intent.ID, order.Payment.GatewayOrderID)
	assert.NotNil(t, order.PaidAt)
	assert.NotNil(t, order.ConfirmedAt)
	assert.Equal(t, 1, f.stock(t, "tee", "M", "Red"))
	assert.Equal(t, 1, f.coupon(t, "TEN").UsedCount)

	again, err := f.svc.ConfirmOnlinePayment(context.Background(), alice, confirm)
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)
	assert.Equal(t, 1, f.stock(t, "tee", "M", "Red"), "confirm applies side effects once")
	assert.Equal(t, 1, f.coupon(t, "TEN").UsedCount)
	assert.Equal(t, 1, f.orders.Len())
}

func TestOnlineCheckout_VerifyRequiresThePaidAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	paid := checkout(redM(1))

	started, err := f.svc.InitiateOnlinePayment(ctx, alice, paid, false)
	require.NoError(t, err)
	require.Equal(t, int64(16800), started.Intent.Amount)

	larger := checkout(CheckoutItem{ProductID: "hoodie", Size: "L", Quantity: 4})
	_, err = f.svc.ConfirmOnlinePayment(ctx, alice, ConfirmInput{
		GatewayOrderID:   started.Intent.ID,
		GatewayPaymentID: "pay_1",
		Signature:        payment.Sign(testSecret, started.Intent.ID, "pay_1"),
		Checkout:         &larger,
	})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.True(t, utils.HasReason(err, utils.ReasonAmountMismatch))
	assert.Equal(t, 0, f.orders.Len())
	assert.Equal(t, 4, f.stock(t, "hoodie", "L", ""))
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))

	_, err = f.svc.ConfirmOnlinePayment(ctx, alice, ConfirmInput{
		GatewayOrderID:   "order_unknown",
		GatewayPaymentID: "pay_2",
		Signature:        payment.Sign(testSecret, "order_unknown", "pay_2"),
		Checkout:         &paid,
	})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
	assert.Equal(t, 0, f.orders.Len())

	order, err := f.svc.ConfirmOnlinePayment(ctx, alice, ConfirmInput{
		GatewayOrderID:   started.Intent.ID,
		GatewayPaymentID: "pay_1",
		Signature:        payment.Sign(testSecret, started.Intent.ID, "pay_1"),
		Checkout:         &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, 168.0, order.TotalAmount)
	assert.Equal(t, 2, f.stock(t, "tee", "M", "Red"))
}

func TestOnlineCheckout_InvalidSignatureHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	f.addCoupon(t, models.Coupon{Code: "TEN", Value: 10})
	in := checkout(redM(2))
	in.CouponCode = "TEN"

	started, err := f.svc.InitiateOnlinePayment(context.Background(), alice, in, false)
	require.NoError(t, err)

	_, err = f.svc.ConfirmOnlinePayment(context.Background(), alice, ConfirmInput{
		GatewayOrderID:   started.Intent.ID,
		GatewayPaymentID: "pay_1",
		Signature:        payment.Sign("wrong", started.Intent.ID, "pay_1"),
		Checkout:         &in,
	})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindSignatureInvalid))

	assert.Equal(t, 0, f.orders.Len())
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
	assert.Zero(t, f.coupon(t, "TEN").UsedCount)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SignatureFailures))
}

func TestOnlineCheckout_Placeholder(t *testing.T) {
	f := newFixture(t)

	started, err := f.svc.InitiateOnlinePayment(context.Background(), alice, checkout(redM(2)), true)
	require.NoError(t, err)
	require.NotNil(t, started.Order)
	assert.Equal(t, models.OrderStatusPending, started.Order.Status)
	assert.Equal(t, models.PaymentMethodOnline, started.Order.Payment.Method)
	assert.False(t, started.Order.InventoryCommitted)
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))

	_, err = f.svc.ConfirmOnlinePayment(context.Background(), alice, ConfirmInput{
		GatewayOrderID:   started.Intent.ID,
		GatewayPaymentID: "pay_1",
		Signature:        "forged",
	})
	assert.True(t, utils.IsKind(err, utils.KindSignatureInvalid))
	stored := f.order(t, started.Order.ID)
	assert.Equal(t, models.PaymentStatusFailed, stored.Payment.Status)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))

	order, err := f.svc.ReconcileWebhook(context.Background(), started.Intent.ID, "pay_2", payment.Sign(testSecret, started.Intent.ID, "pay_2"))
	require.NoError(t, err)
	assert.Equal(t, started.Order.ID, order.ID)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.Payment.Status)
	assert.Equal(t, "pay_2", order.Payment.GatewayPaymentID)
	assert.True(t, order.InventoryCommitted)
	assert.Equal(t, 1, f.stock(t, "tee", "M", "Red"))

	assert.Equal(t, []string{events.OrderCreated, events.PaymentFailed, events.OrderConfirmed}, f.events.Types())
}

func TestOnlineCheckout_PaidPlaceholderNeedsSignatureOnReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	started, err := f.svc.InitiateOnlinePayment(ctx, alice, checkout(redM(1)), true)
	require.NoError(t, err)

	_, err = f.svc.ReconcileWebhook(ctx, started.Intent.ID, "pay_1", payment.Sign(testSecret, started.Intent.ID, "pay_1"))
	require.NoError(t, err)

	order, err := f.svc.ReconcileWebhook(ctx, started.Intent.ID, "pay_1", "forged")
	assert.Nil(t, order)
	assert.True(t, utils.IsKind(err, utils.KindSignatureInvalid))

	stored := f.order(t, started.Order.ID)
	assert.Equal(t, models.PaymentStatusPaid, stored.Payment.Status)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)
	assert.Equal(t, []string{events.OrderCreated, events.OrderConfirmed}, f.events.Types())

	again, err := f.svc.ReconcileWebhook(ctx, started.Intent.ID, "pay_1", payment.Sign(testSecret, started.Intent.ID, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, started.Order.ID, again.ID)
	assert.Equal(t, 2, f.stock(t, "tee", "M", "Red"))
}

func TestOnlineCheckout_PlaceholderIsOwnerScoped(t *testing.T) {
	f := newFixture(t)
	started, err := f.svc.InitiateOnlinePayment(context.Background(), alice, checkout(redM(1)), true)
	require.NoError(t, err)

	_, err = f.svc.ConfirmOnlinePayment(context.Background(), bob, ConfirmInput{
		GatewayOrderID:   started.Intent.ID,
		GatewayPaymentID: "pay_1",
		Signature:        payment.Sign(testSecret, started.Intent.ID, "pay_1"),
	})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
}

func TestOnlineCheckout_GatewayFailure(t *testing.T) {
	f := newFixture(t)
	f.gateway.IntentErr = errors.New("gateway timeout")

	_, err := f.svc.InitiateOnlinePayment(context.Background(), alice, checkout(redM(1)), true)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindExternalService))
	assert.Equal(t, 0, f.orders.Len())
}

func TestCancelOrder_ReversesStock(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(redM(2), CheckoutItem{ProductID: "tee", Size: "L", Color: "red", Quantity: 3}))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(context.Background(), admin, order.ID, models.OrderStatusConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t, "tee", "M", "Red"))
	assert.Equal(t, 2, f.stock(t, "tee", "L", "Red"))

	cancelled, err := f.svc.CancelOrder(context.Background(), alice, order.ID, "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "changed my mind", cancelled.CancellationReason)
	assert.False(t, cancelled.InventoryCommitted)
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
	assert.Equal(t, 5, f.stock(t, "tee", "L", "Red"))
	requireAggregate(t, f.product(t, "tee"))
	assert.Equal(t, 10, f.product(t, "tee").TotalStock)

	_, cancelledMails := f.notifier.Counts()
	assert.Equal(t, 1, cancelledMails)
	assert.Empty(t, f.gateway.Refunds(), "COD orders are not refunded")
}

func TestCancelOrder_PaidOrderIsRefunded(t *testing.T) {
	f := newFixture(t)
	order := placeOnline(t, f, alice, checkout(redM(2)))

	cancelled, err := f.svc.CancelOrder(context.Background(), alice, order.ID, "")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusRefunded, cancelled.Payment.Status)
	assert.NotEmpty(t, cancelled.Payment.RefundID)
	require.Len(t, f.gateway.Refunds(), 1)
	assert.Equal(t, order.TotalAmount, f.gateway.Refunds()[0].Amount)
	assert.Equal(t, "pay_1", f.gateway.Refunds()[0].PaymentID)
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
}

func TestCancelOrder_RefundFailureBlocksCancellation(t *testing.T) {
	f := newFixture(t)
	order := placeOnline(t, f, alice, checkout(redM(2)))
	f.gateway.RefundErr = errors.New("gateway unavailable")

	_, err := f.svc.CancelOrder(context.Background(), alice, order.ID, "")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindExternalService))
	assert.True(t, utils.HasReason(err, utils.ReasonRefundFailed))

	stored := f.order(t, order.ID)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)
	assert.Equal(t, models.PaymentStatusPaid, stored.Payment.Status)
	assert.Nil(t, stored.CancelledAt)
	assert.Equal(t, 1, f.stock(t, "tee", "M", "Red"))
}

func TestCancelOrder_UnconfirmedPlaceholderReversesNothing(t *testing.T) {
	f := newFixture(t)
	started, err := f.svc.InitiateOnlinePayment(context.Background(), alice, checkout(redM(2)), true)
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(context.Background(), alice, started.Order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
	assert.Empty(t, f.gateway.Refunds())
}

func TestCancelOrder_MissingVariantIsSkipped(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(redM(1), CheckoutItem{ProductID: "mug", Quantity: 1}))
	require.NoError(t, err)
	f.products.Delete("mug")

	cancelled, err := f.svc.CancelOrder(context.Background(), alice, order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
}

func TestCancelOrder_Permissions(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(redM(1)))
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(context.Background(), bob, order.ID, "")
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	_, err = f.svc.UpdateStatus(context.Background(), admin, order.ID, models.OrderStatusProcessing, "")
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(context.Background(), alice, order.ID, "")
	assert.True(t, utils.HasReason(err, utils.ReasonInvalidTransition), "users cannot cancel once processing")

	cancelled, err := f.svc.CancelOrder(context.Background(), admin, order.ID, "out of stock")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OrdersCancelled.WithLabelValues(ActorAdmin)))

	_, err = f.svc.CancelOrder(context.Background(), admin, order.ID, "")
	assert.True(t, utils.HasReason(err, utils.ReasonInvalidTransition), "cancelled is terminal")

	_, err = f.svc.CancelOrder(context.Background(), alice, "missing", "")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestUpdateStatus_ForwardTransitions(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(redM(1)))
	require.NoError(t, err)

	confirmed, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, "confirmed", "")
	require.NoError(t, err)
	require.NotNil(t, confirmed.ConfirmedAt)
	firstStamp := *confirmed.ConfirmedAt

	f.clock.Advance(time.Hour)
	again, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, models.OrderStatusConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, firstStamp, *again.ConfirmedAt, "re-setting a status keeps its first timestamp")

	shipped, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, models.OrderStatusShipped, "")
	require.NoError(t, err)
	assert.NotNil(t, shipped.ShippedAt)

	_, err = f.svc.UpdateStatus(context.Background(), admin, order.ID, models.OrderStatusProcessing, "")
	assert.True(t, utils.HasReason(err, utils.ReasonInvalidTransition), "no going back")

	_, err = f.svc.UpdateStatus(context.Background(), admin, order.ID, models.OrderStatusCancelled, "")
	assert.True(t, utils.HasReason(err, utils.ReasonInvalidTransition), "shipped orders cannot be cancelled")

	delivered, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, models.OrderStatusDelivered, "")
	require.NoError(t, err)
	assert.NotNil(t, delivered.DeliveredAt)
	assert.Equal(t, models.PaymentStatusPaid, delivered.Payment.Status, "cash is collected on delivery")
}

func TestUpdateStatus_Rejections(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(redM(1)))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), alice, order.ID, models.OrderStatusConfirmed, "")
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	_, err = f.svc.UpdateStatus(context.Background(), admin, order.ID, "LOST", "")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = f.svc.UpdateStatus(context.Background(), admin, order.ID, models.OrderStatusRefunded, "")
	assert.True(t, utils.HasReason(err, utils.ReasonInvalidTransition), "refund only from confirmed")

	started, err := f.svc.InitiateOnlinePayment(context.Background(), alice, checkout(redM(1)), true)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(context.Background(), admin, started.Order.ID, models.OrderStatusConfirmed, "")
	assert.True(t, utils.HasReason(err, utils.ReasonInvalidTransition), "unpaid online orders wait for payment")
}

func TestUpdateStatus_RefundedFromConfirmed(t *testing.T) {
	f := newFixture(t)
	order := placeOnline(t, f, alice, checkout(redM(2)))

	refunded, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, models.OrderStatusRefunded, "damaged")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRefunded, refunded.Status)
	assert.Equal(t, models.PaymentStatusRefunded, refunded.Payment.Status)
	assert.NotNil(t, refunded.RefundedAt)
	assert.Len(t, f.gateway.Refunds(), 1)
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
}

func TestGetAndListOrders(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(redM(1)))
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.svc.PlaceCODOrder(context.Background(), alice, checkout(CheckoutItem{ProductID: "mug", Quantity: 1}))
	require.NoError(t, err)
	_, err = f.svc.PlaceCODOrder(context.Background(), bob, checkout(CheckoutItem{ProductID: "mug", Quantity: 1}))
	require.NoError(t, err)

	list, err := f.svc.ListOrders(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	_, err = f.svc.GetOrder(context.Background(), bob, first.ID)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	got, err := f.svc.GetOrder(context.Background(), admin, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, got.OrderNumber)
}

func TestConcurrentCheckouts_WithLocalLockDoNotLoseUpdates(t *testing.T) {
	f := newFixture(t, withLocker(lock.NewLocal()))
	big := models.Product{ID: "sock", Name: "Sock", Price: 10, IsActive: true, TotalStock: 50}
	require.NoError(t, f.products.SaveProduct(context.Background(), &big))

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := f.svc.PlaceCODOrder(ctx, alice, checkout(CheckoutItem{ProductID: "sock", Quantity: 1}))
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 30, f.stock(t, "sock", "", ""))
	assert.Equal(t, 20, f.orders.Len())
}

// placeOnline runs a placeholder checkout through to a verified payment
func placeOnline(t *testing.T, f *fixture, p models.Principal, in CheckoutInput) *models.Order {
	t.Helper()
	started, err := f.svc.InitiateOnlinePayment(context.Background(), p, in, true)
	require.NoError(t, err)
	order, err := f.svc.ConfirmOnlinePayment(context.Background(), p, ConfirmInput{
		GatewayOrderID:   started.Intent.ID,
		GatewayPaymentID: "pay_1",
		Signature:        payment.Sign(testSecret, started.Intent.ID, "pay_1"),
	})
	require.NoError(t, err)
	return order
}

func TestPlacement_RejectsInvalidShippingAddress(t *testing.T) {
	f := newFixture(t)
	in := checkout(redM(1))
	in.ShippingAddress.PostalCode = "12345"
	in.ShippingAddress.Phone = ""

	_, err := f.svc.PlaceCODOrder(context.Background(), alice, in)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	var fields utils.FieldValidationErrors
	require.True(t, errors.As(err, &fields))
	assert.Len(t, fields, 2)

	_, err = f.svc.InitiateOnlinePayment(context.Background(), alice, in, true)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	assert.Zero(t, f.orders.Len())
	assert.Empty(t, f.gateway.Intents())
	assert.Equal(t, 3, f.stock(t, "tee", "M", "Red"))
}
