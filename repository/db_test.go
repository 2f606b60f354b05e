package repository

import (
	"testing"
	"time"

	"github.com/Govind-619/ShopSphere/config"
	"github.com/Govind-619/ShopSphere/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var baseTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// newTestDB opens a private in-memory database with the engine schema.
// One connection keeps every query on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// seedTee stores a product with M/Red 3, L/Red 5 and M/Blue 2
func seedTee(t *testing.T, db *gorm.DB) {
	t.Helper()
	p := models.Product{
		ID:       "tee",
		Name:     "Classic Tee",
		Price:    100,
		IsActive: true,
		Variants: []models.ProductVariant{
			{Attributes: models.Attributes{"size": "M", "color": "Red"}, Stock: 3, Position: 0},
			{Attributes: models.Attributes{"size": "L", "color": "Red"}, Stock: 5, Position: 1},
			{Attributes: models.Attributes{"size": "M", "color": "Blue"}, Stock: 2, Position: 2},
		},
	}
	p.RecomputeAggregate()
	require.NoError(t, db.Create(&p).Error)
}

func seedMug(t *testing.T, db *gorm.DB) {
	t.Helper()
	p := models.Product{ID: "mug", Name: "Coffee Mug", Price: 250, IsActive: true, TotalStock: 10, InStock: true}
	require.NoError(t, db.Create(&p).Error)
}
