package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/repository"
	"github.com/Govind-619/ShopSphere/utils"
)

// VariantStockInput sets the stock of the variant identified by size and color
type VariantStockInput struct {
	Size  string            `json:"size"`
	Color string            `json:"color"`
	Extra map[string]string `json:"attributes"`
	Stock int               `json:"stock"`
}

// InventoryService is the admin side of stock: add or update one variant
type InventoryService struct {
	products repository.ProductRepository
	stock    repository.StockStore
	keeper   *StockKeeper
}

func NewInventoryService(products repository.ProductRepository, keeper *StockKeeper) *InventoryService {
	return &InventoryService{products: products, stock: keeper.stock, keeper: keeper}
}

// UpsertVariantStock adds the variant if it does not exist, or replaces its
// stock, then recomputes the product aggregate over every variant. Only the
// target variant is written, so checkouts on sibling variants are not lost.
func (s *InventoryService) UpsertVariantStock(ctx context.Context, productID string, in VariantStockInput) (*models.Product, error) {
	if in.Stock < 0 {
		return nil, utils.InvalidInputError("Stock cannot be negative", nil)
	}
	attrs := models.NormalizeAttributes(in.Extra)
	if in.Size != "" {
		attrs[models.AttrSize] = in.Size
	}
	if in.Color != "" {
		attrs[models.AttrColor] = in.Color
	}
	key := attrs.Key()

	err := s.keeper.WithStockLock(ctx, productID, key, func() error {
		p, err := s.products.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if key == "" {
			if len(p.Variants) > 0 {
				return utils.InvalidInputError("Product has variants; size or color is required", nil)
			}
			return s.stock.SetStock(ctx, productID, "", in.Stock)
		}
		if _, ok := models.FindVariantByKey(p.Variants, key); ok {
			return s.stock.SetStock(ctx, productID, key, in.Stock)
		}
		return s.stock.InsertVariant(ctx, productID, &models.ProductVariant{
			Attributes: attrs,
			Stock:      in.Stock,
			Position:   len(p.Variants),
		})
	})
	var product *models.Product
	if err == nil {
		product, err = s.products.GetProduct(ctx, productID)
	}
	if err != nil {
		if utils.IsAppError(err) {
			return nil, err
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, utils.NotFoundError(fmt.Sprintf("Product %s not found", productID), err)
		}
		return nil, utils.InternalError("Failed to update stock", err)
	}
	utils.LogInfo("Stock of product %s variant %q set to %d, total now %d", productID, key, in.Stock, product.TotalStock)
	return product, nil
}
