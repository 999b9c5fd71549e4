package main

import (
	"log"

	"subscription-api/db"
	"subscription-api/handlers/subscriptions"
	"subscription-api/processor"
	"subscription-api/repositories"
	"subscription-api/routes"
	"subscription-api/utils"

	"github.com/gin-gonic/gin"
)

// @title Subscription API
// @version 1.0
// @description Stripe checkout, webhook reconciliation and cancellation for subscriptions
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by the session service, with the Bearer prefix: Bearer <JWT>
func main() {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if err := utils.ConfigureLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatal("Invalid logging configuration: ", err)
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		utils.LogError(err, "Could not connect to the database")
		log.Fatal(err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	stripeClient := processor.NewStripeClient(cfg.StripeSecretKey, processor.NewBackends(""))

	handler := subscriptions.New(
		repositories.NewPaymentLogRepository(conn),
		repositories.NewSubscriptionRepository(conn),
		stripeClient,
		cfg.StripeWebhookSecret,
		subscriptions.WithTrialDays(cfg.TrialDays),
	)

	r := routes.SetupRouter(cfg, sqlDB, handler)

	utils.LogInfo("Listening on :" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.LogError(err, "Server stopped")
		log.Fatal(err)
	}
}
