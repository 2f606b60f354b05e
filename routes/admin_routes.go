package routes

import (
	"github.com/Govind-619/ShopSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin routes
func initAdminRoutes(router *gin.RouterGroup, deps Deps) {
	ctl := deps.Controller

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(deps.JWTSecret), middleware.AdminMiddleware())
	{
		// Order management
		admin.PATCH("/orders/:id/status", ctl.UpdateOrderStatus)
		admin.POST("/orders/:id/cancel", ctl.CancelOrder)

		// Inventory
		admin.PUT("/products/:id/variants/stock", ctl.UpdateVariantStock)

		// Delivery charges
		admin.GET("/delivery-charges", ctl.GetDeliveryCharges)
		admin.PUT("/delivery-charges", ctl.UpsertDeliveryCharge)

		// Coupons
		admin.POST("/coupons", ctl.CreateCoupon)
	}
}
