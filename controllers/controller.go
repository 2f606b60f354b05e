package controllers

import (
	"github.com/Govind-619/ShopSphere/middleware"
	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/services"
	"github.com/Govind-619/ShopSphere/utils"
	"github.com/gin-gonic/gin"
)

// Controller holds the services the HTTP handlers call into
type Controller struct {
	orders    *services.OrderService
	coupons   *services.CouponService
	inventory *services.InventoryService
	delivery  *services.DeliveryResolver
}

// Services groups the dependencies of a Controller
type Services struct {
	Orders    *services.OrderService
	Coupons   *services.CouponService
	Inventory *services.InventoryService
	Delivery  *services.DeliveryResolver
}

func NewController(s Services) *Controller {
	return &Controller{
		orders:    s.Orders,
		coupons:   s.Coupons,
		inventory: s.Inventory,
		delivery:  s.Delivery,
	}
}

// principal reads the authenticated caller, answering 401 when it is missing
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found in context")
		return models.Principal{}, false
	}
	return p, true
}

// bindCheckout parses the checkout body and scopes it to the caller
func bindCheckout(c *gin.Context, p models.Principal) (services.CheckoutInput, bool) {
	var in services.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.LogError("Invalid checkout request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return in, false
	}
	in.UserID = p.UserID
	return in, true
}
