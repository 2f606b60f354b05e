package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/repository"
)

// DeliveryChargeStore implements repository.DeliveryChargeRepository
type DeliveryChargeStore struct {
	mu      sync.RWMutex
	charges map[string]models.DeliveryCharge
	nextID  uint
}

func NewDeliveryChargeStore(charges ...models.DeliveryCharge) *DeliveryChargeStore {
	s := &DeliveryChargeStore{charges: make(map[string]models.DeliveryCharge)}
	for _, c := range charges {
		_ = s.Upsert(context.Background(), &c)
	}
	return s
}

func key(city, state string) string {
	return city + "|" + state
}

func (s *DeliveryChargeStore) Find(ctx context.Context, city, state string) (*models.DeliveryCharge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dc, ok := s.charges[key(city, state)]
	if !ok || !dc.IsActive {
		return nil, repository.ErrDeliveryChargeNotFound
	}
	return &dc, nil
}

func (s *DeliveryChargeStore) List(ctx context.Context) ([]models.DeliveryCharge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DeliveryCharge, 0, len(s.charges))
	for _, dc := range s.charges {
		out = append(out, dc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *DeliveryChargeStore) Upsert(ctx context.Context, dc *models.DeliveryCharge) error {
	dc.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(dc.City, dc.State)
	if existing, ok := s.charges[k]; ok {
		dc.ID = existing.ID
	} else {
		s.nextID++
		dc.ID = s.nextID
	}
	s.charges[k] = *dc
	return nil
}
