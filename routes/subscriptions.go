package routes

import (
	"subscription-api/handlers/subscriptions"
	"subscription-api/middleware"

	"github.com/gin-gonic/gin"
)

func SubscriptionRoutes(r *gin.Engine, jwtSecret string, h *subscriptions.Handler) {
	group := r.Group("/api/subscription")
	// Stripe authenticates with the signature header, not a user token
	group.POST("/webhook", h.HandleWebhook)

	authed := group.Group("")
	authed.Use(middleware.JWTAuth(jwtSecret))
	{
		authed.POST("", h.CreateCheckoutSession)
		authed.GET("", h.GetUserSubscriptions)
		authed.GET("/:id", h.GetSubscriptionDetail)
		authed.POST("/cancel-payment", h.CancelPayment)
		authed.POST("/cancel", h.CancelSubscription)
	}
}
