package repository

import (
	"context"
	"errors"

	"github.com/Govind-619/ShopSphere/models"
	"gorm.io/gorm"
)

// GormProductRepository reads products from postgres
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func orderedVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

// GetProduct loads the product and its variants, first variant first
func (r *GormProductRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Variants", orderedVariants).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}
