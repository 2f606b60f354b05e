package repository

import (
	"context"
	"errors"

	"github.com/Govind-619/ShopSphere/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockStore keeps variant stock in the product_variants table and the
// aggregate on products. Each write touches one row; the aggregate is a second,
// separate write.
type GormStockStore struct {
	db *gorm.DB
}

func NewGormStockStore(db *gorm.DB) *GormStockStore {
	return &GormStockStore{db: db}
}

// GetStock returns the current stock for the variant
func (s *GormStockStore) GetStock(ctx context.Context, productID, variantKey string) (int, error) {
	db := s.db.WithContext(ctx)
	if variantKey == "" {
		var product models.Product
		if err := db.Select("id", "total_stock").Where("id = ?", productID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrProductNotFound
			}
			return 0, err
		}
		return product.TotalStock, nil
	}

	var variant models.ProductVariant
	err := db.Where("product_id = ? AND variant_key = ?", productID, variantKey).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, s.missing(ctx, productID)
		}
		return 0, err
	}
	return variant.Stock, nil
}

// SetStock overwrites the stock, clamped at zero, then refreshes the aggregate
func (s *GormStockStore) SetStock(ctx context.Context, productID, variantKey string, qty int) error {
	if qty < 0 {
		qty = 0
	}
	db := s.db.WithContext(ctx)

	if variantKey == "" {
		res := db.Model(&models.Product{}).Where("id = ?", productID).
			Updates(map[string]interface{}{"total_stock": qty, "in_stock": qty > 0})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	}

	res := db.Model(&models.ProductVariant{}).
		Where("product_id = ? AND variant_key = ?", productID, variantKey).
		UpdateColumn("stock", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.missing(ctx, productID)
	}
	return s.RecomputeAggregate(ctx, productID)
}

// InsertVariant writes a single variant row keyed by product and variant key
func (s *GormStockStore) InsertVariant(ctx context.Context, productID string, v *models.ProductVariant) error {
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrProductNotFound
	}

	v.ProductID = productID
	if v.Stock < 0 {
		v.Stock = 0
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "variant_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"stock", "updated_at"}),
	}).Create(v).Error
	if err != nil {
		return err
	}
	return s.RecomputeAggregate(ctx, productID)
}

// RecomputeAggregate sums variant stock into total_stock and in_stock
func (s *GormStockStore) RecomputeAggregate(ctx context.Context, productID string) error {
	db := s.db.WithContext(ctx)

	var variantCount int64
	if err := db.Model(&models.ProductVariant{}).Where("product_id = ?", productID).Count(&variantCount).Error; err != nil {
		return err
	}
	if variantCount == 0 {
		return nil
	}

	var total int
	if err := db.Model(&models.ProductVariant{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(stock), 0)").
		Scan(&total).Error; err != nil {
		return err
	}

	return db.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{"total_stock": total, "in_stock": total > 0}).Error
}

// missing tells a deleted product apart from a deleted variant
func (s *GormStockStore) missing(ctx context.Context, productID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrProductNotFound
	}
	return ErrVariantNotFound
}
