package controllers

import (
	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/services"
	"github.com/Govind-619/ShopSphere/utils"
	"github.com/gin-gonic/gin"
)

// UpdateVariantStock sets the stock of one product variant
func (ctl *Controller) UpdateVariantStock(c *gin.Context) {
	utils.LogInfo("UpdateVariantStock called")

	var req services.VariantStockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid stock request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	product, err := ctl.inventory.UpsertVariantStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.LogError("Failed to update stock of product %s: %v", c.Param("id"), err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Stock updated successfully", gin.H{
		"product_id":  product.ID,
		"total_stock": product.TotalStock,
		"in_stock":    product.InStock,
		"variants":    product.Variants,
	})
}

// GetDeliveryCharges returns the delivery charge table
func (ctl *Controller) GetDeliveryCharges(c *gin.Context) {
	utils.LogInfo("GetDeliveryCharges called")

	charges, err := ctl.delivery.List(c.Request.Context())
	if err != nil {
		utils.LogError("Failed to fetch delivery charges: %v", err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Delivery charges retrieved successfully", gin.H{
		"delivery_charges": charges,
		"default_charge":   ctl.delivery.Default(),
	})
}

// UpsertDeliveryCharge adds or replaces the charge for a city/state pair
func (ctl *Controller) UpsertDeliveryCharge(c *gin.Context) {
	utils.LogInfo("UpsertDeliveryCharge called")

	var req struct {
		City     string   `json:"city" binding:"required"`
		State    string   `json:"state" binding:"required"`
		Charge   *float64 `json:"charge" binding:"required"`
		IsActive *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	charge := models.DeliveryCharge{
		City:     req.City,
		State:    req.State,
		Charge:   *req.Charge,
		IsActive: true,
	}
	if req.IsActive != nil {
		charge.IsActive = *req.IsActive
	}

	if err := ctl.delivery.Upsert(c.Request.Context(), &charge); err != nil {
		utils.LogError("Failed to save delivery charge: %v", err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Delivery charge saved successfully", gin.H{
		"delivery_charge": charge,
	})
}

// CreateCoupon adds a coupon to the ledger
func (ctl *Controller) CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")

	var req services.CouponInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid coupon request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	coupon, err := ctl.coupons.Create(c.Request.Context(), req)
	if err != nil {
		utils.LogError("Failed to create coupon %s: %v", req.Code, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Coupon %s created", coupon.Code)
	utils.Created(c, "Coupon created successfully", gin.H{
		"coupon": coupon,
	})
}
