package config

import (
	"fmt"

	"github.com/Govind-619/ShopSphere/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the database connection and migrates the order engine schema
func InitDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if cfg.Env == "production" {
		gormCfg.Logger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the order engine tables
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Order{},
		&models.OrderItem{},
		&models.DeliveryCharge{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}
	return nil
}
