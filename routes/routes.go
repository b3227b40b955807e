package routes

import (
	"github.com/Govind-619/DonateHub/controllers"
	"github.com/Govind-619/DonateHub/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterOptions carries what SetupRouter needs besides the controller
type RouterOptions struct {
	AllowedOrigin string
	Registry      *prometheus.Registry
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(payments *controllers.PaymentController, opts RouterOptions) *gin.Engine {
	router := gin.New()

	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	httpMetrics := utils.NewHTTPMetrics(opts.Registry)

	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(httpMetrics.Middleware())
	router.Use(utils.CORSMiddleware(opts.AllowedOrigin))
	router.Use(utils.SecurityHeadersMiddleware())

	router.GET("/healthz", utils.Healthz)
	router.GET("/metrics", utils.MetricsHandler(opts.Registry))

	api := router.Group("/api")
	{
		initPaymentRoutes(api, payments)
	}

	return router
}

// initPaymentRoutes registers the donation payment endpoints
func initPaymentRoutes(router *gin.RouterGroup, payments *controllers.PaymentController) {
	utils.LogInfo("Registering payment routes")

	payment := router.Group("/payment")
	payment.POST("/create-order", payments.CreateOrder)
	payment.POST("/verify-payment", payments.VerifyPayment)
}
