package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Govind-619/ShopSphere/events"
	"github.com/Govind-619/ShopSphere/metrics"
	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/notify"
	"github.com/Govind-619/ShopSphere/payment"
	"github.com/Govind-619/ShopSphere/repository"
	"github.com/Govind-619/ShopSphere/utils"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCODMaxAmount is the highest order total accepted for cash on delivery
const DefaultCODMaxAmount = 2000

// Cancellation actors
const (
	ActorUser   = "user"
	ActorAdmin  = "admin"
	ActorReaper = "reaper"
)

// SystemPrincipal is used for calls that come from the gateway rather than a user
var SystemPrincipal = models.Principal{UserID: "system", IsAdmin: true}

// OrderDeps are the collaborators of the order service
type OrderDeps struct {
	Calculator *Calculator
	Orders     repository.OrderRepository
	Stock      *StockKeeper
	Gateway    payment.Gateway
	Publisher  events.Publisher
	Notifier   notify.Notifier
	Metrics    *metrics.Metrics
	CODMax     float64
	Now        func() time.Time
}

// OrderService owns the order lifecycle and the stock/coupon side effects of
// each transition.
type OrderService struct {
	calc      *Calculator
	orders    repository.OrderRepository
	stock     *StockKeeper
	gateway   payment.Gateway
	publisher events.Publisher
	notifier  notify.Notifier
	metrics   *metrics.Metrics
	codMax    float64
	now       func() time.Time
}

func NewOrderService(deps OrderDeps) *OrderService {
	s := &OrderService{
		calc:      deps.Calculator,
		orders:    deps.Orders,
		stock:     deps.Stock,
		gateway:   deps.Gateway,
		publisher: deps.Publisher,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		codMax:    deps.CODMax,
		now:       deps.Now,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	if s.codMax <= 0 {
		s.codMax = DefaultCODMaxAmount
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// PaymentInitiation is returned when an online checkout starts
type PaymentInitiation struct {
	Calculation *Calculation    `json:"calculation"`
	Intent      *payment.Intent `json:"intent"`
	Order       *models.Order   `json:"order,omitempty"`
}

// ConfirmInput carries the gateway's proof of payment. Checkout is required
// when no placeholder order was persisted at initiation.
type ConfirmInput struct {
	GatewayOrderID   string         `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string         `json:"gateway_payment_id" binding:"required"`
	Signature        string         `json:"signature" binding:"required"`
	Checkout         *CheckoutInput `json:"checkout"`
}

// Quote prices the cart without side effects
func (s *OrderService) Quote(ctx context.Context, p models.Principal, in CheckoutInput) (*Calculation, error) {
	utils.LogInfo("Quote called for user %s with %d items", p.UserID, len(in.Items))
	in.UserID = p.UserID
	return s.calc.Calculate(ctx, in)
}

// PlaceCODOrder creates a cash-on-delivery order and commits its stock and
// coupon side effects straight away.
func (s *OrderService) PlaceCODOrder(ctx context.Context, p models.Principal, in CheckoutInput) (*models.Order, error) {
	utils.LogInfo("PlaceCODOrder called for user %s", p.UserID)
	in.UserID = p.UserID
	if err := validateShipping(in.ShippingAddress); err != nil {
		return nil, err
	}
	calc, err := s.calc.Calculate(ctx, in)
	if err != nil {
		return nil, err
	}
	if calc.TotalAmount > s.codMax {
		utils.LogInfo("COD rejected for user %s: total %.2f above limit %.2f", p.UserID, calc.TotalAmount, s.codMax)
		return nil, utils.ConflictError(utils.ReasonCODLimitExceeded,
			fmt.Sprintf("Cash on delivery is only available for orders up to %.2f", s.codMax))
	}

	order := s.newOrder(p, in, calc, models.PaymentMethodCOD)
	order.InventoryCommitted = true
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, utils.InternalError("Failed to create order", err)
	}
	utils.LogInfo("COD order %s created for user %s, total %.2f", order.OrderNumber, p.UserID, order.TotalAmount)

	s.commitSideEffects(ctx, order, calc.StockIntents)
	s.metrics.OrdersCreated.WithLabelValues(string(models.PaymentMethodCOD)).Inc()
	s.publish(ctx, events.OrderCreated, order)
	s.notifyPlaced(ctx, order)
	return order, nil
}

// InitiateOnlinePayment prices the cart and opens a gateway payment intent.
// With persistPlaceholder a PENDING order holding the intent id is stored so
// the payment can be reconciled by webhook or reaped if it never completes.
func (s *OrderService) InitiateOnlinePayment(ctx context.Context, p models.Principal, in CheckoutInput, persistPlaceholder bool) (*PaymentInitiation, error) {
	utils.LogInfo("InitiateOnlinePayment called for user %s (placeholder=%t)", p.UserID, persistPlaceholder)
	in.UserID = p.UserID
	if err := validateShipping(in.ShippingAddress); err != nil {
		return nil, err
	}
	calc, err := s.calc.Calculate(ctx, in)
	if err != nil {
		return nil, err
	}
	amount := utils.ToMinorUnits(calc.TotalAmount)
	if amount <= 0 {
		return nil, utils.InvalidInputError("Nothing to pay online for this order", nil)
	}

	receipt := "rcpt_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	intent, err := s.gateway.CreateIntent(ctx, amount, receipt, p.Email)
	if err != nil {
		utils.LogError("Failed to create payment intent for user %s: %v", p.UserID, err)
		return nil, utils.ExternalServiceError("Failed to create payment order", err)
	}
	utils.LogInfo("Payment intent %s created for user %s: %d paise", intent.ID, p.UserID, amount)

	result := &PaymentInitiation{Calculation: calc, Intent: intent}
	if persistPlaceholder {
		order := s.newOrder(p, in, calc, models.PaymentMethodOnline)
		order.Payment.GatewayOrderID = intent.ID
		if err := s.orders.Create(ctx, order); err != nil {
			return nil, utils.InternalError("Failed to create order", err)
		}
		utils.LogInfo("Placeholder order %s stored for intent %s", order.OrderNumber, intent.ID)
		s.metrics.OrdersCreated.WithLabelValues(string(models.PaymentMethodOnline)).Inc()
		s.publish(ctx, events.OrderCreated, order)
		result.Order = order
	}
	return result, nil
}

// ConfirmOnlinePayment verifies the payment signature and confirms the order.
// Confirming an already paid order returns it without touching stock again.
func (s *OrderService) ConfirmOnlinePayment(ctx context.Context, p models.Principal, in ConfirmInput) (*models.Order, error) {
	utils.LogInfo("ConfirmOnlinePayment called for gateway order %s by %s", in.GatewayOrderID, p.UserID)

	existing, err := s.orders.GetByGatewayOrderID(ctx, in.GatewayOrderID)
	if err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, utils.InternalError("Failed to load order", err)
	}
	if existing != nil {
		if !canAccess(p, existing) {
			return nil, utils.NotFoundError("Order not found", nil)
		}
		return s.confirmPlaceholder(ctx, existing, in)
	}
	if in.Checkout == nil {
		return nil, utils.NotFoundError("No order found for this payment", nil)
	}

	if !s.gateway.VerifySignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature) {
		s.metrics.SignatureFailures.Inc()
		utils.LogError("Payment signature verification failed for gateway order %s", in.GatewayOrderID)
		return nil, utils.SignatureInvalidError("Payment verification failed")
	}

	checkout := *in.Checkout
	checkout.UserID = p.UserID
	if err := validateShipping(checkout.ShippingAddress); err != nil {
		return nil, err
	}
	calc, err := s.calc.Calculate(ctx, checkout)
	if err != nil {
		utils.LogError("Payment %s captured but checkout no longer valid for user %s: %v", in.GatewayPaymentID, p.UserID, err)
		return nil, err
	}

	// The order must be the one that was paid for
	intent, err := s.gateway.FetchIntent(ctx, in.GatewayOrderID)
	if err != nil {
		if errors.Is(err, payment.ErrIntentNotFound) {
			return nil, utils.NotFoundError("No payment found for this order", err)
		}
		return nil, utils.ExternalServiceError("Failed to look up payment", err)
	}
	if amount := utils.ToMinorUnits(calc.TotalAmount); amount != intent.Amount {
		utils.LogError("Payment %s amount mismatch for user %s: paid %d, checkout totals %d", in.GatewayPaymentID, p.UserID, intent.Amount, amount)
		return nil, utils.ConflictError(utils.ReasonAmountMismatch,
			fmt.Sprintf("Checkout total %.2f does not match the amount paid", calc.TotalAmount))
	}

	order := s.newOrder(p, checkout, calc, models.PaymentMethodOnline)
	now := s.now()
	order.Payment.GatewayOrderID = in.GatewayOrderID
	order.Payment.GatewayPaymentID = in.GatewayPaymentID
	order.Payment.GatewaySignature = in.Signature
	order.MarkPaid(now)
	order.Status = models.OrderStatusConfirmed
	order.Stamp(models.OrderStatusConfirmed, now)
	order.InventoryCommitted = true
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, utils.InternalError("Failed to create order", err)
	}
	utils.LogInfo("Online order %s confirmed for user %s, total %.2f", order.OrderNumber, p.UserID, order.TotalAmount)

	s.commitSideEffects(ctx, order, calc.StockIntents)
	s.metrics.OrdersCreated.WithLabelValues(string(models.PaymentMethodOnline)).Inc()
	s.metrics.OrdersConfirmed.Inc()
	s.publish(ctx, events.OrderConfirmed, order)
	s.notifyPlaced(ctx, order)
	return order, nil
}

// ReconcileWebhook confirms a placeholder order from a gateway callback
func (s *OrderService) ReconcileWebhook(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*models.Order, error) {
	return s.ConfirmOnlinePayment(ctx, SystemPrincipal, ConfirmInput{
		GatewayOrderID:   gatewayOrderID,
		GatewayPaymentID: gatewayPaymentID,
		Signature:        signature,
	})
}

// confirmPlaceholder checks the signature before anything about the order is
// returned, so a replay needs a valid signature too.
func (s *OrderService) confirmPlaceholder(ctx context.Context, order *models.Order, in ConfirmInput) (*models.Order, error) {
	if !s.gateway.VerifySignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature) {
		s.metrics.SignatureFailures.Inc()
		utils.LogError("Payment signature verification failed for order %s", order.OrderNumber)
		if order.Payment.Status == models.PaymentStatusPaid || order.Status != models.OrderStatusPending {
			return nil, utils.SignatureInvalidError("Payment verification failed")
		}
		order.Payment.Status = models.PaymentStatusFailed
		order.Payment.FailureReason = "signature_mismatch"
		if err := s.orders.Save(ctx, order); err != nil {
			utils.LogError("Failed to mark payment failed on order %s: %v", order.OrderNumber, err)
		}
		s.publish(ctx, events.PaymentFailed, order)
		return nil, utils.SignatureInvalidError("Payment verification failed")
	}

	if order.Payment.Status == models.PaymentStatusPaid {
		utils.LogInfo("Order %s already paid, nothing to confirm", order.OrderNumber)
		return order, nil
	}
	if order.Status != models.OrderStatusPending {
		return nil, utils.ConflictError(utils.ReasonInvalidTransition,
			fmt.Sprintf("Order %s is %s and can no longer be paid", order.OrderNumber, order.Status))
	}

	now := s.now()
	order.Payment.GatewayPaymentID = in.GatewayPaymentID
	order.Payment.GatewaySignature = in.Signature
	order.Payment.FailureReason = ""
	order.MarkPaid(now)
	order.Status = models.OrderStatusConfirmed
	order.Stamp(models.OrderStatusConfirmed, now)
	order.InventoryCommitted = true
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, utils.InternalError("Failed to confirm order", err)
	}
	utils.LogInfo("Order %s confirmed after payment %s", order.OrderNumber, in.GatewayPaymentID)

	s.commitSideEffects(ctx, order, intentsFor(order.Items))
	s.metrics.OrdersConfirmed.Inc()
	s.publish(ctx, events.OrderConfirmed, order)
	s.notifyPlaced(ctx, order)
	return order, nil
}

// CancelOrder cancels on behalf of the owner or an admin. A paid order is
// refunded first; if the refund fails the order stays as it was.
func (s *OrderService) CancelOrder(ctx context.Context, p models.Principal, orderID, reason string) (*models.Order, error) {
	utils.LogInfo("CancelOrder called for order %s by %s", orderID, p.UserID)
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin && order.UserID != p.UserID {
		return nil, utils.ForbiddenError("You can only cancel your own orders")
	}

	actor := ActorUser
	allowed := models.CanUserCancel(order.Status)
	if p.IsAdmin {
		actor = ActorAdmin
		allowed = models.CanAdminTransition(order.Status, models.OrderStatusCancelled)
	}
	if !allowed {
		return nil, utils.ConflictError(utils.ReasonInvalidTransition,
			fmt.Sprintf("Order in %s status cannot be cancelled", order.Status))
	}
	if err := s.cancel(ctx, order, reason, actor); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus is the admin transition. Re-setting the current status is a no-op.
func (s *OrderService) UpdateStatus(ctx context.Context, p models.Principal, orderID string, to models.OrderStatus, reason string) (*models.Order, error) {
	utils.LogInfo("UpdateStatus called for order %s to %s by %s", orderID, to, p.UserID)
	if !p.IsAdmin {
		return nil, utils.ForbiddenError("Admin access required")
	}
	to = models.OrderStatus(strings.ToUpper(strings.TrimSpace(string(to))))
	if !to.IsValid() {
		return nil, utils.InvalidInputError(fmt.Sprintf("Unknown order status %q", to), nil)
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == to {
		return order, nil
	}
	if !models.CanAdminTransition(order.Status, to) {
		return nil, utils.ConflictError(utils.ReasonInvalidTransition,
			fmt.Sprintf("Cannot change order status from %s to %s", order.Status, to))
	}

	switch to {
	case models.OrderStatusCancelled:
		if err := s.cancel(ctx, order, reason, ActorAdmin); err != nil {
			return nil, err
		}
	case models.OrderStatusRefunded:
		if err := s.refundOrder(ctx, order, reason); err != nil {
			return nil, err
		}
	default:
		if order.Payment.Method == models.PaymentMethodOnline && order.Payment.Status != models.PaymentStatusPaid {
			return nil, utils.ConflictError(utils.ReasonInvalidTransition,
				fmt.Sprintf("Order %s is awaiting payment", order.OrderNumber))
		}
		now := s.now()
		order.Status = to
		order.Stamp(to, now)
		if to == models.OrderStatusDelivered && order.Payment.Method == models.PaymentMethodCOD {
			order.MarkPaid(now)
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return nil, utils.InternalError("Failed to update order status", err)
		}
		s.publish(ctx, events.OrderStatusChanged, order)
	}
	s.metrics.StatusTransitions.WithLabelValues(string(to)).Inc()
	utils.LogInfo("Order %s moved to %s", order.OrderNumber, to)
	return order, nil
}

// GetOrder returns the order if the principal owns it or is an admin
func (s *OrderService) GetOrder(ctx context.Context, p models.Principal, orderID string) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canAccess(p, order) {
		return nil, utils.NotFoundError("Order not found", nil)
	}
	return order, nil
}

// ListOrders returns the principal's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, p models.Principal) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, utils.InternalError("Failed to list orders", err)
	}
	return orders, nil
}

// ReapAbandoned cancels unpaid online orders created before cutoff. These
// orders never committed stock or coupon use, so nothing is reversed.
func (s *OrderService) ReapAbandoned(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.orders.FindAbandoned(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find abandoned orders: %w", err)
	}
	reaped := 0
	for i := range stale {
		order := &stale[i]
		if order.InventoryCommitted {
			utils.LogWarn("Abandoned order %s has committed inventory, skipping", order.OrderNumber)
			continue
		}
		now := s.now()
		order.Status = models.OrderStatusCancelled
		order.Payment.Status = models.PaymentStatusFailed
		order.Payment.FailureReason = models.FailureReasonTimeout
		order.CancellationReason = "Payment not completed in time"
		order.Stamp(models.OrderStatusCancelled, now)
		if err := s.orders.Save(ctx, order); err != nil {
			utils.LogError("Failed to cancel abandoned order %s: %v", order.OrderNumber, err)
			continue
		}
		reaped++
		s.metrics.OrdersReaped.Inc()
		s.metrics.OrdersCancelled.WithLabelValues(ActorReaper).Inc()
		s.publish(ctx, events.OrderAbandoned, order)
		utils.LogInfo("Abandoned order %s cancelled", order.OrderNumber)
	}
	return reaped, nil
}

func (s *OrderService) cancel(ctx context.Context, order *models.Order, reason, actor string) error {
	if order.Payment.Status == models.PaymentStatusPaid {
		if err := s.refund(ctx, order, reason); err != nil {
			return err
		}
	}

	order.Status = models.OrderStatusCancelled
	order.CancellationReason = reason
	order.Stamp(models.OrderStatusCancelled, s.now())
	restore := order.InventoryCommitted
	order.InventoryCommitted = false
	if err := s.orders.Save(ctx, order); err != nil {
		return utils.InternalError("Failed to cancel order", err)
	}
	utils.LogInfo("Order %s cancelled by %s", order.OrderNumber, actor)

	if restore {
		s.restoreStock(ctx, order)
	}
	s.metrics.OrdersCancelled.WithLabelValues(actor).Inc()
	s.publish(ctx, events.OrderCancelled, order)
	if err := s.notifier.OrderCancelled(ctx, order); err != nil {
		utils.LogWarn("Failed to send cancellation mail for order %s: %v", order.OrderNumber, err)
	}
	return nil
}

func (s *OrderService) refundOrder(ctx context.Context, order *models.Order, reason string) error {
	if order.Payment.Status == models.PaymentStatusPaid {
		if err := s.refund(ctx, order, reason); err != nil {
			return err
		}
	}
	order.Status = models.OrderStatusRefunded
	order.Stamp(models.OrderStatusRefunded, s.now())
	restore := order.InventoryCommitted
	order.InventoryCommitted = false
	if err := s.orders.Save(ctx, order); err != nil {
		return utils.InternalError("Failed to update order status", err)
	}
	if restore {
		s.restoreStock(ctx, order)
	}
	s.publish(ctx, events.OrderStatusChanged, order)
	return nil
}

// refund asks the gateway for the full order amount and records the result on the order
func (s *OrderService) refund(ctx context.Context, order *models.Order, reason string) error {
	if reason == "" {
		reason = "order cancelled"
	}
	refund, err := s.gateway.Refund(ctx, order.Payment.GatewayPaymentID, order.TotalAmount, reason)
	if err != nil {
		s.metrics.Refunds.WithLabelValues("failed").Inc()
		utils.LogError("Refund failed for order %s: %v", order.OrderNumber, err)
		return utils.ExternalServiceError("Refund failed, order was not cancelled", err).WithReason(utils.ReasonRefundFailed)
	}
	s.metrics.Refunds.WithLabelValues("succeeded").Inc()
	order.Payment.Status = models.PaymentStatusRefunded
	order.Payment.RefundID = refund.ID
	utils.LogInfo("Refund %s issued for order %s: %.2f", refund.ID, order.OrderNumber, order.TotalAmount)
	return nil
}

// commitSideEffects applies the stock decrements and the coupon use. Each
// failure is logged and counted; none of them fails the order.
func (s *OrderService) commitSideEffects(ctx context.Context, order *models.Order, intents []StockIntent) {
	for _, in := range intents {
		err := s.stock.Decrement(ctx, in.ProductID, in.VariantKey, in.Quantity)
		var shortfall *ErrShortfall
		switch {
		case err == nil:
		case errors.As(err, &shortfall):
			utils.LogWarn("Order %s oversold %s: %v", order.OrderNumber, in.ProductID, err)
			s.metrics.SideEffectFailures.WithLabelValues(metrics.SideEffectStockDecrement).Inc()
		default:
			utils.LogError("Stock decrement failed for order %s item %s/%s: %v", order.OrderNumber, in.ProductID, in.VariantKey, err)
			s.metrics.SideEffectFailures.WithLabelValues(metrics.SideEffectStockDecrement).Inc()
		}
	}
	if order.CouponUsed != nil {
		if err := s.stock.CountCouponUse(ctx, order.CouponUsed.CouponID, order.UserID, order.ID); err != nil {
			utils.LogError("Coupon usage update failed for order %s coupon %s: %v", order.OrderNumber, order.CouponUsed.Code, err)
			s.metrics.SideEffectFailures.WithLabelValues(metrics.SideEffectCouponUsage).Inc()
		}
	}
}

// restoreStock gives each item's quantity back. Products or variants removed
// since the order was placed are skipped.
func (s *OrderService) restoreStock(ctx context.Context, order *models.Order) {
	for _, item := range order.Items {
		err := s.stock.Restore(ctx, item.ProductID, item.VariantKey, item.Quantity)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrProductNotFound), errors.Is(err, repository.ErrVariantNotFound):
			utils.LogWarn("Skipping stock reversal for order %s item %s/%s: %v", order.OrderNumber, item.ProductID, item.VariantKey, err)
		default:
			utils.LogError("Stock reversal failed for order %s item %s/%s: %v", order.OrderNumber, item.ProductID, item.VariantKey, err)
			s.metrics.SideEffectFailures.WithLabelValues(metrics.SideEffectStockRestore).Inc()
		}
	}
}

func (s *OrderService) newOrder(p models.Principal, in CheckoutInput, calc *Calculation, method models.PaymentMethod) *models.Order {
	now := s.now()
	items := make([]models.OrderItem, len(calc.Items))
	copy(items, calc.Items)
	var coupon *models.CouponSnapshot
	if calc.Coupon != nil {
		snap := *calc.Coupon
		coupon = &snap
	}
	return &models.Order{
		ID:                 uuid.New().String(),
		OrderNumber:        orderNumber(now),
		UserID:             p.UserID,
		ContactEmail:       p.Email,
		Items:              items,
		ShippingAddress:    in.ShippingAddress,
		Subtotal:           calc.Subtotal,
		DeliveryCharge:     calc.DeliveryCharge,
		DiscountAmount:     calc.DiscountAmount,
		DiscountOnDelivery: calc.DiscountOnDelivery,
		GSTAmount:          calc.GSTAmount,
		TotalAmount:        calc.TotalAmount,
		CouponUsed:         coupon,
		Payment: models.PaymentInfo{
			Method: method,
			Status: models.PaymentStatusPending,
		},
		Status:    models.OrderStatusPending,
		CreatedAt: now,
	}
}

func validateShipping(addr models.ShippingAddress) error {
	errs := utils.ValidateShippingAddress(utils.ShippingAddressFields{
		Name:       addr.Name,
		Phone:      addr.Phone,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		Country:    addr.Country,
		PostalCode: addr.PostalCode,
	})
	if len(errs) > 0 {
		return utils.InvalidInputError("Invalid shipping address", errs)
	}
	return nil
}

func (s *OrderService) load(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, utils.NotFoundError("Order not found", err)
		}
		return nil, utils.InternalError("Failed to load order", err)
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(eventType, order, s.now())); err != nil {
		utils.LogWarn("Failed to publish %s for order %s: %v", eventType, order.OrderNumber, err)
	}
}

func (s *OrderService) notifyPlaced(ctx context.Context, order *models.Order) {
	if err := s.notifier.OrderPlaced(ctx, order); err != nil {
		utils.LogWarn("Failed to send order mail for %s: %v", order.OrderNumber, err)
	}
}

func canAccess(p models.Principal, o *models.Order) bool {
	return p.IsAdmin || o.UserID == p.UserID
}

func intentsFor(items []models.OrderItem) []StockIntent {
	intents := make([]StockIntent, len(items))
	for i, item := range items {
		intents[i] = StockIntent{
			ProductID:  item.ProductID,
			VariantKey: item.VariantKey,
			Size:       item.Size,
			Color:      item.Color,
			Quantity:   item.Quantity,
		}
	}
	return intents
}

// orderNumber renders ORD-YYYYMMDD-XXXXXXXX
func orderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
