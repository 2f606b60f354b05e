// Package services implements the order engine: checkout pricing, the order
// state machine, stock and coupon bookkeeping and the abandoned-order reaper.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Govind-619/ShopSphere/metrics"
	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/repository"
	"github.com/Govind-619/ShopSphere/utils"
)

// DefaultGSTRate is applied to the discounted subtotal
const DefaultGSTRate = 0.18

// CheckoutItem is one requested cart line
type CheckoutItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// CheckoutInput is everything the calculator needs to price a cart
type CheckoutInput struct {
	UserID          string                 `json:"-"`
	Items           []CheckoutItem         `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	CouponCode      string                 `json:"coupon_code"`
}

// StockIntent is a stock decrement that has been validated but not applied
type StockIntent struct {
	ProductID  string `json:"product_id"`
	VariantKey string `json:"variant_key"`
	Size       string `json:"size,omitempty"`
	Color      string `json:"color,omitempty"`
	Quantity   int    `json:"quantity"`
}

// Calculation is a priced cart
type Calculation struct {
	Items              []models.OrderItem     `json:"items"`
	Subtotal           float64                `json:"subtotal"`
	DeliveryCharge     float64                `json:"delivery_charge"`
	DiscountAmount     float64                `json:"discount_amount"`
	DiscountOnDelivery float64                `json:"discount_on_delivery"`
	GSTAmount          float64                `json:"gst_amount"`
	TotalAmount        float64                `json:"total_amount"`
	Coupon             *models.CouponSnapshot `json:"coupon,omitempty"`
	StockIntents       []StockIntent          `json:"-"`
}

// Calculator prices carts. It only reads: no stock, coupon or order is written.
type Calculator struct {
	products       repository.ProductRepository
	coupons        repository.CouponLedger
	delivery       *DeliveryResolver
	metrics        *metrics.Metrics
	gstRate        float64
	strictVariants bool
	now            func() time.Time
}

// CalculatorOption configures a Calculator
type CalculatorOption func(*Calculator)

// WithGSTRate overrides the 18% default
func WithGSTRate(rate float64) CalculatorOption {
	return func(c *Calculator) { c.gstRate = rate }
}

// WithStrictVariantSelection rejects carts that omit size and color on a
// product with more than one variant instead of defaulting to the first.
func WithStrictVariantSelection(strict bool) CalculatorOption {
	return func(c *Calculator) { c.strictVariants = strict }
}

// WithCalculatorClock sets the clock used for coupon expiry
func WithCalculatorClock(now func() time.Time) CalculatorOption {
	return func(c *Calculator) { c.now = now }
}

// WithCalculatorMetrics counts rejected calculations
func WithCalculatorMetrics(m *metrics.Metrics) CalculatorOption {
	return func(c *Calculator) { c.metrics = m }
}

func NewCalculator(products repository.ProductRepository, coupons repository.CouponLedger, delivery *DeliveryResolver, opts ...CalculatorOption) *Calculator {
	c := &Calculator{
		products: products,
		coupons:  coupons,
		delivery: delivery,
		gstRate:  DefaultGSTRate,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate validates and prices the cart
func (c *Calculator) Calculate(ctx context.Context, in CheckoutInput) (*Calculation, error) {
	calc, err := c.calculate(ctx, in)
	if err != nil && c.metrics != nil {
		reason := "internal"
		if appErr := utils.GetAppError(err); appErr != nil {
			reason = string(appErr.Kind)
			if appErr.Reason != "" {
				reason = appErr.Reason
			}
		}
		c.metrics.PricingRejections.WithLabelValues(reason).Inc()
	}
	return calc, err
}

func (c *Calculator) calculate(ctx context.Context, in CheckoutInput) (*Calculation, error) {
	if len(in.Items) == 0 {
		return nil, utils.InvalidInputError("Cart is empty", nil)
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, utils.InvalidInputError(fmt.Sprintf("Item %d has no product id", i+1), nil)
		}
		if item.Quantity <= 0 {
			return nil, utils.InvalidInputError(fmt.Sprintf("Item %d must have a positive quantity", i+1), nil)
		}
	}

	calc := &Calculation{}
	for _, item := range in.Items {
		line, intent, err := c.priceItem(ctx, item)
		if err != nil {
			return nil, err
		}
		calc.Items = append(calc.Items, line)
		calc.StockIntents = append(calc.StockIntents, intent)
		calc.Subtotal += line.UnitPrice * float64(line.Quantity)
	}
	calc.Subtotal = utils.Round2(calc.Subtotal)

	charge, err := c.delivery.Resolve(ctx, in.ShippingAddress.City, in.ShippingAddress.State)
	if err != nil {
		return nil, err
	}
	calc.DeliveryCharge = charge

	if code := strings.TrimSpace(in.CouponCode); code != "" {
		if err := c.applyCoupon(ctx, calc, code, in.UserID); err != nil {
			return nil, err
		}
	}

	calc.GSTAmount = utils.Round2(c.gstRate * (calc.Subtotal - calc.DiscountAmount))
	total := calc.Subtotal - calc.DiscountAmount + calc.GSTAmount + calc.DeliveryCharge - calc.DiscountOnDelivery
	calc.TotalAmount = utils.Round2(math.Max(0, total))

	if err := calc.check(); err != nil {
		return nil, err
	}
	return calc, nil
}

func (c *Calculator) priceItem(ctx context.Context, item CheckoutItem) (models.OrderItem, StockIntent, error) {
	product, err := c.products.GetProduct(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return models.OrderItem{}, StockIntent{}, utils.NotFoundError(fmt.Sprintf("Product %s not found", item.ProductID), err)
		}
		return models.OrderItem{}, StockIntent{}, utils.InternalError("Failed to load product", err)
	}
	if !product.IsActive {
		return models.OrderItem{}, StockIntent{}, utils.ConflictError(utils.ReasonProductUnavailable,
			fmt.Sprintf("%s is currently unavailable", product.Name))
	}

	idx, err := c.selectVariant(product, item)
	if err != nil {
		return models.OrderItem{}, StockIntent{}, err
	}

	line := models.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  item.Quantity,
		UnitPrice: product.Price,
		LineTotal: utils.Round2(product.Price * float64(item.Quantity)),
	}
	if idx >= 0 {
		v := product.Variants[idx]
		line.VariantKey = v.VariantKey
		line.Size = v.Size()
		line.Color = v.Color()
	}

	available := product.AvailableStock(idx)
	if available < item.Quantity {
		return models.OrderItem{}, StockIntent{}, utils.ConflictError(utils.ReasonInsufficientStock,
			fmt.Sprintf("Only %d left in stock for %s", available, describe(line)))
	}

	intent := StockIntent{
		ProductID:  line.ProductID,
		VariantKey: line.VariantKey,
		Size:       line.Size,
		Color:      line.Color,
		Quantity:   line.Quantity,
	}
	return line, intent, nil
}

// selectVariant returns the variant index for the item, or -1 for a product without variants
func (c *Calculator) selectVariant(product *models.Product, item CheckoutItem) (int, error) {
	if len(product.Variants) == 0 {
		return -1, nil
	}
	size, color := strings.TrimSpace(item.Size), strings.TrimSpace(item.Color)
	if size == "" && color == "" {
		if len(product.Variants) > 1 {
			if c.strictVariants {
				return -1, utils.InvalidInputError(fmt.Sprintf("Select a size or color for %s", product.Name), nil)
			}
			utils.LogWarn("No size/color given for product %s with %d variants, defaulting to first variant %s",
				product.ID, len(product.Variants), product.Variants[0].VariantKey)
		}
		return 0, nil
	}
	idx, ok := models.FindVariant(product.Variants, size, color)
	if !ok {
		return -1, utils.NotFoundError(fmt.Sprintf("%s is not available in size %q color %q", product.Name, size, color), nil).
			WithReason(utils.ReasonVariantNotFound)
	}
	return idx, nil
}

func (c *Calculator) applyCoupon(ctx context.Context, calc *Calculation, code, userID string) error {
	coupon, err := c.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return utils.ConflictError(utils.ReasonInvalidCoupon, "Invalid coupon code")
		}
		return utils.InternalError("Failed to load coupon", err)
	}
	if !coupon.IsActive {
		return utils.ConflictError(utils.ReasonInvalidCoupon, "Invalid coupon code")
	}
	if calc.Subtotal < coupon.MinPurchaseAmount {
		return utils.ConflictError(utils.ReasonCouponMinPurchase,
			fmt.Sprintf("Minimum purchase of %.2f required for this coupon", coupon.MinPurchaseAmount))
	}
	if coupon.UsageLimitPerUser != nil && coupon.UsageCountFor(userID) >= *coupon.UsageLimitPerUser {
		return utils.ConflictError(utils.ReasonCouponUserLimit, "You have already used this coupon the maximum number of times")
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return utils.ConflictError(utils.ReasonCouponUsageLimit, "Coupon usage limit reached")
	}
	if coupon.ExpirationDate != nil && c.now().After(*coupon.ExpirationDate) {
		return utils.ConflictError(utils.ReasonCouponExpired, "Coupon has expired")
	}

	switch coupon.Type {
	case models.CouponTypePercentage:
		discount := calc.Subtotal * coupon.Value / 100
		if coupon.MaximumDiscountAmount != nil {
			discount = math.Min(discount, *coupon.MaximumDiscountAmount)
		}
		calc.DiscountAmount = utils.Round2(math.Min(discount, calc.Subtotal))
	case models.CouponTypeFixedAmount:
		calc.DiscountAmount = utils.Round2(math.Min(coupon.Value, calc.Subtotal))
	case models.CouponTypeFreeShipping:
		calc.DiscountOnDelivery = calc.DeliveryCharge
	default:
		return utils.ConflictError(utils.ReasonInvalidCoupon, "Invalid coupon code")
	}

	calc.Coupon = &models.CouponSnapshot{
		CouponID:           coupon.ID,
		Code:               coupon.Code,
		Type:               coupon.Type,
		Value:              coupon.Value,
		DiscountAmount:     calc.DiscountAmount,
		DiscountOnDelivery: calc.DiscountOnDelivery,
	}
	return nil
}

// check refuses to hand out a calculation with a nonsensical amount
func (calc *Calculation) check() error {
	amounts := map[string]float64{
		"subtotal":          calc.Subtotal,
		"delivery charge":   calc.DeliveryCharge,
		"discount":          calc.DiscountAmount,
		"delivery discount": calc.DiscountOnDelivery,
		"gst":               calc.GSTAmount,
		"total":             calc.TotalAmount,
	}
	for name, v := range amounts {
		if !utils.IsFiniteNonNegative(v) {
			return utils.InvariantViolationError(fmt.Sprintf("Computed %s is invalid: %v", name, v))
		}
	}
	return nil
}

// CouponCode returns the code of the applied coupon, if any
func (calc *Calculation) CouponCode() string {
	if calc.Coupon == nil {
		return ""
	}
	return calc.Coupon.Code
}

func describe(line models.OrderItem) string {
	var attrs []string
	if line.Size != "" {
		attrs = append(attrs, "size "+line.Size)
	}
	if line.Color != "" {
		attrs = append(attrs, "color "+line.Color)
	}
	if len(attrs) == 0 {
		return line.Name
	}
	return fmt.Sprintf("%s (%s)", line.Name, strings.Join(attrs, ", "))
}
