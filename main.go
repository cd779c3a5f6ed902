package main

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Phaham/BoogieBites/config"
	"github.com/Phaham/BoogieBites/controllers"
	"github.com/Phaham/BoogieBites/database"
	"github.com/Phaham/BoogieBites/kafka"
	"github.com/Phaham/BoogieBites/models"
	"github.com/Phaham/BoogieBites/repository"
	"github.com/Phaham/BoogieBites/routes"
	"github.com/Phaham/BoogieBites/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[OrderFulfillment] ❌ Failed to load config:", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("[OrderFulfillment] ❌ Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Connect DB
	if err := database.Connect(cfg); err != nil {
		log.Fatal("[OrderFulfillment] ❌ Failed to connect to DB:", err)
	}
	if err := models.Migrate(database.DB); err != nil {
		log.Fatal("[OrderFulfillment] ❌ Failed to migrate models:", err)
	}

	orderRepo := repository.NewGormOrderRepo(database.DB)
	userRepo := repository.NewGormUserRepo(database.DB)

	// Stripe + Kafka setup
	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)

	var publisher kafka.OrderEventPublisher
	if cfg.KafkaBrokers != "" {
		producer := kafka.NewOrderEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.OrderEventsTopic, logger)
		defer producer.Close()
		publisher = producer
	}

	fulfillment := services.NewFulfillmentService(stripeSvc, orderRepo, userRepo, publisher, logger)

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())

	cc := &controllers.CheckoutController{
		Stripe:      stripeSvc,
		Logger:      logger,
		FrontendURL: cfg.FrontendURL,
	}
	oc := &controllers.OrderController{
		Orders: orderRepo,
		Users:  userRepo,
		Logger: logger,
	}
	wc := &controllers.WebhookController{
		Stripe:      stripeSvc,
		Fulfillment: fulfillment,
		Logger:      logger,
	}
	routes.RegisterRoutes(r, cc, oc, wc)

	log.Println("[OrderFulfillment] ✅ Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[OrderFulfillment] ❌ Server failed:", err)
	}
}
