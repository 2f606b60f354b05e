package services

import (
	"context"
	"testing"
	"time"

	"github.com/Govind-619/ShopSphere/events"
	"github.com/Govind-619/ShopSphere/lock"
	"github.com/Govind-619/ShopSphere/metrics"
	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/notify"
	"github.com/Govind-619/ShopSphere/payment"
	"github.com/Govind-619/ShopSphere/repository/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

var (
	alice = models.Principal{UserID: "user-alice", Email: "alice@example.com"}
	bob   = models.Principal{UserID: "user-bob", Email: "bob@example.com"}
	admin = models.Principal{UserID: "admin-1", IsAdmin: true}

	baseTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
)

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	products *memory.ProductStore
	coupons  *memory.CouponStore
	orders   *memory.OrderStore
	delivery *memory.DeliveryChargeStore
	gateway  *payment.Fake
	events   *events.Recorder
	notifier *notify.Recorder
	metrics  *metrics.Metrics
	clock    *clock
	calc     *Calculator
	keeper   *StockKeeper
	svc      *OrderService
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	locker lock.Locker
	strict bool
}

func withLocker(l lock.Locker) fixtureOption {
	return func(c *fixtureConfig) { c.locker = l }
}

func withStrictVariants() fixtureOption {
	return func(c *fixtureConfig) { c.strict = true }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	cfg := fixtureConfig{locker: lock.Noop{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	f := &fixture{
		products: memory.NewProductStore(tshirt(), mug(), hoodie()),
		coupons:  memory.NewCouponStore(),
		delivery: memory.NewDeliveryChargeStore(),
		gateway:  payment.NewFake(testSecret),
		events:   &events.Recorder{},
		notifier: &notify.Recorder{},
		metrics:  metrics.New(prometheus.NewRegistry()),
		clock:    &clock{t: baseTime},
	}
	f.orders = memory.NewOrderStore().WithClock(f.clock.Now)

	resolver := NewDeliveryResolver(f.delivery, 50)
	f.calc = NewCalculator(f.products, f.coupons, resolver,
		WithCalculatorClock(f.clock.Now),
		WithStrictVariantSelection(cfg.strict),
		WithCalculatorMetrics(f.metrics),
	)
	f.keeper = NewStockKeeper(f.products, f.coupons, cfg.locker)
	f.svc = NewOrderService(OrderDeps{
		Calculator: f.calc,
		Orders:     f.orders,
		Stock:      f.keeper,
		Gateway:    f.gateway,
		Publisher:  f.events,
		Notifier:   f.notifier,
		Metrics:    f.metrics,
		CODMax:     2000,
		Now:        f.clock.Now,
	})
	return f
}

// tshirt has three variants: M/Red 3, L/Red 5, M/Blue 2
func tshirt() models.Product {
	return models.Product{
		ID:       "tee",
		Name:     "Classic Tee",
		Price:    100,
		IsActive: true,
		Variants: []models.ProductVariant{
			{Attributes: models.Attributes{"Size": "M", "Color": "Red"}, Stock: 3},
			{Attributes: models.Attributes{"size": "L", "color": "Red"}, Stock: 5},
			{Attributes: models.Attributes{"SIZE": "M", "COLOR": "Blue"}, Stock: 2},
		},
	}
}

// mug has no variants and 10 in stock
func mug() models.Product {
	return models.Product{ID: "mug", Name: "Coffee Mug", Price: 250, IsActive: true, TotalStock: 10}
}

func hoodie() models.Product {
	return models.Product{
		ID:       "hoodie",
		Name:     "Hoodie",
		Price:    1500,
		IsActive: true,
		Variants: []models.ProductVariant{
			{Attributes: models.Attributes{"size": "L"}, Stock: 4},
		},
	}
}

func redM(qty int) CheckoutItem {
	return CheckoutItem{ProductID: "tee", Size: "M", Color: "Red", Quantity: qty}
}

func checkout(items ...CheckoutItem) CheckoutInput {
	return CheckoutInput{
		Items: items,
		ShippingAddress: models.ShippingAddress{
			Name: "Alice", Phone: "9999999999", Line1: "1 Main St",
			City: "Kochi", State: "Kerala", Country: "India", PostalCode: "682001",
		},
	}
}

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func (f *fixture) addCoupon(t *testing.T, c models.Coupon) models.Coupon {
	t.Helper()
	if c.Type == "" {
		c.Type = models.CouponTypePercentage
	}
	c.IsActive = true
	require.NoError(t, f.coupons.CreateCoupon(context.Background(), &c))
	return c
}

func (f *fixture) stock(t *testing.T, productID, size, color string) int {
	t.Helper()
	qty, err := f.products.GetStock(context.Background(), productID, models.VariantKeyFor(size, color))
	require.NoError(t, err)
	return qty
}

func (f *fixture) product(t *testing.T, productID string) *models.Product {
	t.Helper()
	p, err := f.products.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return p
}

func (f *fixture) coupon(t *testing.T, code string) *models.Coupon {
	t.Helper()
	c, err := f.coupons.FindByCode(context.Background(), code)
	require.NoError(t, err)
	return c
}

func (f *fixture) order(t *testing.T, id string) *models.Order {
	t.Helper()
	o, err := f.orders.Get(context.Background(), id)
	require.NoError(t, err)
	return o
}

// requireAggregate checks totalStock == sum of variant stock
func requireAggregate(t *testing.T, p *models.Product) {
	t.Helper()
	require.Equal(t, models.SumStock(p.Variants), p.TotalStock)
	require.Equal(t, p.TotalStock > 0, p.InStock)
}
