package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/repository"
)

// OrderStore implements repository.OrderRepository
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	now    func() time.Time
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]models.Order), now: time.Now}
}

// WithClock sets the clock used to stamp CreatedAt/UpdatedAt
func (s *OrderStore) WithClock(now func() time.Time) *OrderStore {
	s.now = now
	return s
}

// Put stores an order as-is, keeping its CreatedAt
func (s *OrderStore) Put(o models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = copyOrder(o)
}

// Len returns the number of stored orders
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *OrderStore) Create(ctx context.Context, o *models.Order) error {
	now := s.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		o.Items[i].ID = uint(i + 1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = copyOrder(*o)
	return nil
}

func (s *OrderStore) Save(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.orders[o.ID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.UpdatedAt = s.now()
	saved := copyOrder(*o)
	saved.Items = existing.Items
	saved.CreatedAt = existing.CreatedAt
	s.orders[o.ID] = saved
	return nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	out := copyOrder(o)
	return &out, nil
}

func (s *OrderStore) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if gatewayOrderID != "" && o.Payment.GatewayOrderID == gatewayOrderID {
			out := copyOrder(o)
			return &out, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *OrderStore) FindAbandoned(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.Status == models.OrderStatusPending &&
			o.Payment.Method == models.PaymentMethodOnline &&
			o.Payment.Status == models.PaymentStatusPending &&
			o.CreatedAt.Before(cutoff) {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func copyOrder(o models.Order) models.Order {
	out := o
	out.Items = append([]models.OrderItem(nil), o.Items...)
	if o.CouponUsed != nil {
		snap := *o.CouponUsed
		out.CouponUsed = &snap
	}
	for _, field := range []struct{ dst, src **time.Time }{
		{&out.ConfirmedAt, &o.ConfirmedAt},
		{&out.ProcessingAt, &o.ProcessingAt},
		{&out.ShippedAt, &o.ShippedAt},
		{&out.DeliveredAt, &o.DeliveredAt},
		{&out.CancelledAt, &o.CancelledAt},
		{&out.PaidAt, &o.PaidAt},
		{&out.RefundedAt, &o.RefundedAt},
	} {
		if *field.src != nil {
			t := **field.src
			*field.dst = &t
		}
	}
	return out
}
