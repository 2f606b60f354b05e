package routes

import (
	"github.com/Govind-619/ShopSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-facing routes
func initUserRoutes(router *gin.RouterGroup, deps Deps) {
	ctl := deps.Controller

	user := router.Group("/user")
	user.Use(middleware.AuthMiddleware(deps.JWTSecret))
	{
		// Checkout
		user.POST("/checkout/quote", ctl.Quote)
		user.POST("/checkout/cod", ctl.PlaceCODOrder)
		user.POST("/checkout/payment/initiate", ctl.InitiatePayment)
		user.POST("/checkout/payment/verify", ctl.VerifyPayment)

		// Coupons
		user.POST("/coupons/apply", ctl.ApplyCoupon)

		// Orders
		user.GET("/orders", ctl.ListOrders)
		user.GET("/orders/:id", ctl.GetOrder)
		user.POST("/orders/:id/cancel", ctl.CancelOrder)
	}
}
