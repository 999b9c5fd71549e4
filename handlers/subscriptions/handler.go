package subscriptions

import (
	"time"

	"subscription-api/middleware"
	"subscription-api/processor"
	"subscription-api/repositories"
	"subscription-api/utils"

	"github.com/gin-gonic/gin"
)

// Handler serves the subscription routes. Every collaborator is injected so tests can swap them.
type Handler struct {
	payments      repositories.PaymentLogRepository
	subscriptions repositories.SubscriptionRepository
	processor     processor.Client
	webhookSecret string
	trialDays     int64
	now           func() time.Time
}

// Option customises a Handler built by New.
type Option func(*Handler)

// WithTrialDays overrides the trial length offered for type "trial".
func WithTrialDays(days int64) Option {
	return func(h *Handler) {
		h.trialDays = days
	}
}

// WithClock is used by tests to pin "now".
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// New builds a Handler with the default trial length and the wall clock.
func New(
	payments repositories.PaymentLogRepository,
	subscriptions repositories.SubscriptionRepository,
	client processor.Client,
	webhookSecret string,
	opts ...Option,
) *Handler {
	h := &Handler{
		payments:      payments,
		subscriptions: subscriptions,
		processor:     client,
		webhookSecret: webhookSecret,
		trialDays:     utils.DefaultTrialDays,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func requireUser(c *gin.Context) (string, error) {
	userID := middleware.UserID(c)
	if userID == "" {
		return "", utils.AuthError("User not authenticated")
	}
	return userID, nil
}
