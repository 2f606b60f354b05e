package repository

import (
	"context"
	"errors"

	"github.com/Govind-619/ShopSphere/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryChargeRepository stores the city/state charge table
type GormDeliveryChargeRepository struct {
	db *gorm.DB
}

func NewGormDeliveryChargeRepository(db *gorm.DB) *GormDeliveryChargeRepository {
	return &GormDeliveryChargeRepository{db: db}
}

func (r *GormDeliveryChargeRepository) Find(ctx context.Context, city, state string) (*models.DeliveryCharge, error) {
	var dc models.DeliveryCharge
	err := r.db.WithContext(ctx).
		Where("city = ? AND state = ? AND is_active = ?", city, state, true).
		First(&dc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryChargeNotFound
		}
		return nil, err
	}
	return &dc, nil
}

func (r *GormDeliveryChargeRepository) List(ctx context.Context) ([]models.DeliveryCharge, error) {
	var charges []models.DeliveryCharge
	err := r.db.WithContext(ctx).Order("state ASC, city ASC").Find(&charges).Error
	return charges, err
}

// Upsert inserts or replaces the charge for the city/state pair
func (r *GormDeliveryChargeRepository) Upsert(ctx context.Context, dc *models.DeliveryCharge) error {
	dc.Normalize()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "city"}, {Name: "state"}},
		DoUpdates: clause.AssignmentColumns([]string{"charge", "is_active", "updated_at"}),
	}).Create(dc).Error
}
