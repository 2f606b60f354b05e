package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DeliveryCharge is a flat charge for one city/state pair. City and state are
// stored lower-cased so lookups are exact matches.
type DeliveryCharge struct {
	ID        uint      `gorm:"primaryKey" json:"id" yaml:"-"`
	City      string    `gorm:"not null;uniqueIndex:idx_delivery_city_state" json:"city" yaml:"city"`
	State     string    `gorm:"not null;uniqueIndex:idx_delivery_city_state" json:"state" yaml:"state"`
	Charge    float64   `gorm:"not null" json:"charge" yaml:"charge"`
	IsActive  bool      `gorm:"not null" json:"is_active" yaml:"is_active"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// BeforeSave lower-cases the lookup key
func (d *DeliveryCharge) BeforeSave(tx *gorm.DB) error {
	d.Normalize()
	return nil
}

// Normalize lower-cases and trims city and state
func (d *DeliveryCharge) Normalize() {
	d.City = strings.ToLower(strings.TrimSpace(d.City))
	d.State = strings.ToLower(strings.TrimSpace(d.State))
}
