package main

import (
	"log"

	"github.com/Govind-619/DonateHub/config"
	"github.com/Govind-619/DonateHub/controllers"
	"github.com/Govind-619/DonateHub/routes"
	"github.com/Govind-619/DonateHub/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	razorpay "github.com/razorpay/razorpay-go"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	if err := utils.InitLogger(cfg.LogDir); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var receipts controllers.ReceiptSender
	if cfg.ReceiptsEnabled() {
		receipts = utils.NewReceiptMailer(utils.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, cfg.ReceiptEmail)
		utils.LogInfo("Donation receipts will be mailed to %s", cfg.ReceiptEmail)
	}

	client := razorpay.NewClient(cfg.RazorpayKey, cfg.RazorpaySecret)
	payments := controllers.NewPaymentController(client.Order, cfg.RazorpayKey, cfg.RazorpaySecret, cfg.Currency, receipts)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := routes.SetupRouter(payments, routes.RouterOptions{
		AllowedOrigin: cfg.CORSAllowedOrigin,
		Registry:      registry,
	})

	utils.LogInfo("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
