// Package memory provides in-process implementations of the repository
// interfaces. Each record is copied on the way in and out, the way a document
// store would serialize it; a single write is atomic and nothing more.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/repository"
)

// ErrInjected is returned by writes a test has marked to fail
var ErrInjected = errors.New("injected store failure")

// ProductStore implements repository.ProductRepository and repository.StockStore
type ProductStore struct {
	mu         sync.RWMutex
	products   map[string]models.Product
	failWrites map[string]bool
}

func NewProductStore(products ...models.Product) *ProductStore {
	s := &ProductStore{
		products:   make(map[string]models.Product),
		failWrites: make(map[string]bool),
	}
	for _, p := range products {
		_ = s.SaveProduct(context.Background(), &p)
	}
	return s
}

// FailWrites makes every stock write for productID fail until cleared
func (s *ProductStore) FailWrites(productID string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites[productID] = fail
}

// Delete removes a product, as the catalog would
func (s *ProductStore) Delete(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, productID)
}

func (s *ProductStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	out := copyProduct(p)
	return &out, nil
}

func (s *ProductStore) SaveProduct(ctx context.Context, p *models.Product) error {
	normalized := copyProduct(*p)
	for i := range normalized.Variants {
		v := &normalized.Variants[i]
		v.ProductID = normalized.ID
		v.Attributes = models.NormalizeAttributes(v.Attributes)
		v.VariantKey = v.Attributes.Key()
		if v.Position == 0 {
			v.Position = i
		}
	}
	normalized.RecomputeAggregate()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[normalized.ID] = normalized
	*p = copyProduct(normalized)
	return nil
}

func (s *ProductStore) GetStock(ctx context.Context, productID, variantKey string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	if variantKey == "" {
		return p.TotalStock, nil
	}
	idx, ok := models.FindVariantByKey(p.Variants, variantKey)
	if !ok {
		return 0, repository.ErrVariantNotFound
	}
	return p.Variants[idx].Stock, nil
}

func (s *ProductStore) SetStock(ctx context.Context, productID, variantKey string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites[productID] {
		return ErrInjected
	}
	p, ok := s.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if qty < 0 {
		qty = 0
	}
	if variantKey == "" {
		p.TotalStock = qty
		p.InStock = qty > 0
		s.products[productID] = p
		return nil
	}
	idx, ok := models.FindVariantByKey(p.Variants, variantKey)
	if !ok {
		return repository.ErrVariantNotFound
	}
	p.Variants = models.WithVariantStock(p.Variants, idx, qty)
	p.RecomputeAggregate()
	s.products[productID] = p
	return nil
}

func (s *ProductStore) InsertVariant(ctx context.Context, productID string, v *models.ProductVariant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites[productID] {
		return ErrInjected
	}
	p, ok := s.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	updated := copyProduct(p)
	updated.UpsertVariant(*v)
	s.products[productID] = updated
	return nil
}

func (s *ProductStore) RecomputeAggregate(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.RecomputeAggregate()
	s.products[productID] = p
	return nil
}

func copyProduct(p models.Product) models.Product {
	out := p
	out.Variants = make([]models.ProductVariant, len(p.Variants))
	for i, v := range p.Variants {
		attrs := make(models.Attributes, len(v.Attributes))
		for k, val := range v.Attributes {
			attrs[k] = val
		}
		v.Attributes = attrs
		out.Variants[i] = v
	}
	return out
}
