package routes

import (
	"time"

	"subscription-api/handlers/ping"
	"subscription-api/handlers/subscriptions"
	"subscription-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *utils.Config, db ping.Pinger, subscriptionHandler *subscriptions.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(utils.LogWriter()), gin.RecoveryWithWriter(utils.LogWriter()))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSAllowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", ping.New(db).HandlePing)
	SubscriptionRoutes(r, cfg.JWTSecret, subscriptionHandler)

	return r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
