package routes

import (
	"net/http"

	"github.com/Govind-619/ShopSphere/controllers"
	"github.com/Govind-619/ShopSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router needs to serve requests
type Deps struct {
	Controller *controllers.Controller
	JWTSecret  string
	Gatherer   prometheus.Gatherer
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API version group
	api := router.Group("/v1")
	{
		api.POST("/payments/webhook", deps.Controller.PaymentWebhook)

		initUserRoutes(api, deps)
		initAdminRoutes(api, deps)
	}

	return router
}
