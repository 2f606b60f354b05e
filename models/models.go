package models

import (
	"time"

	"gorm.io/gorm"
)

// Principal is the authenticated caller as asserted by the auth service token
type Principal struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Product is the slice of a catalog product the order engine reads and writes back to.
// Catalog fields (description, images, categories) live in the catalog service.
type Product struct {
	ID         string           `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name       string           `gorm:"not null" json:"name"`
	Price      float64          `gorm:"not null" json:"price"`
	IsActive   bool             `gorm:"not null" json:"is_active"`
	TotalStock int              `gorm:"default:0" json:"total_stock"`
	InStock    bool             `gorm:"default:false" json:"in_stock"`
	Variants   []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ProductVariant is one attribute combination of a product with its own stock.
type ProductVariant struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ProductID  string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_product_variant_key" json:"product_id"`
	VariantKey string     `gorm:"not null;uniqueIndex:idx_product_variant_key" json:"variant_key"`
	Attributes Attributes `gorm:"serializer:json" json:"attributes"`
	Stock      int        `gorm:"default:0" json:"stock"`
	Position   int        `gorm:"default:0" json:"position"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeSave normalizes attributes so every stored key is canonical
func (v *ProductVariant) BeforeSave(tx *gorm.DB) error {
	v.Attributes = NormalizeAttributes(v.Attributes)
	v.VariantKey = v.Attributes.Key()
	return nil
}

// AfterFind normalizes rows written before attribute normalization existed
func (v *ProductVariant) AfterFind(tx *gorm.DB) error {
	v.Attributes = NormalizeAttributes(v.Attributes)
	if v.VariantKey == "" {
		v.VariantKey = v.Attributes.Key()
	}
	return nil
}

// Size returns the size attribute
func (v ProductVariant) Size() string {
	return v.Attributes.Get(AttrSize)
}

// Color returns the color attribute
func (v ProductVariant) Color() string {
	return v.Attributes.Get(AttrColor)
}
