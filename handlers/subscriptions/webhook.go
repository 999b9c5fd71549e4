package subscriptions

import (
	"context"
	"errors"
	"io"
	"net/http"

	"subscription-api/events"
	"subscription-api/models"
	"subscription-api/repositories"
	"subscription-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/datatypes"
)

const maxWebhookBodyBytes = int64(65536)

// HandleWebhook mirrors Stripe events into the local subscription and payment log records.
// Verified deliveries are acknowledged with an empty 200 even when nothing matched locally.
// @Summary Stripe webhook
// @Description Receives Stripe events. Requires a valid Stripe-Signature header.
// @Tags subscriptions
// @Accept json
// @Success 200
// @Failure 400 {object} map[string]string "error: Invalid signature or payload"
// @Failure 500 {object} map[string]string "error: Storage failure, Stripe will retry"
// @Router /api/subscription/webhook [post]
func (h *Handler) HandleWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.LogError(err, "Cannot read body in HandleWebhook")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cannot read request body"})
		return
	}

	if err := webhook.ValidatePayload(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret); err != nil {
		utils.LogError(err, "Stripe signature verification failed in HandleWebhook")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Stripe signature verification failed"})
		return
	}

	event, err := events.Decode(payload)
	if err != nil {
		utils.LogError(err, "Invalid event payload in HandleWebhook")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	if err := h.reconcile(c.Request.Context(), event); err != nil {
		utils.Logger.WithFields(logrus.Fields{
			"source":     "app",
			"event_id":   event.ID,
			"event_type": event.Type,
			"user_id":    event.UserID,
			"error":      err.Error(),
		}).Error("Reconciliation failed in HandleWebhook")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Event could not be stored"})
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) reconcile(ctx context.Context, event *events.Event) error {
	if event.Logged() {
		err := h.payments.Create(ctx, &models.PaymentLog{
			UserID:   event.UserID,
			Response: datatypes.JSON(event.Payload),
			Status:   event.Status,
			Event:    string(event.Type),
			EventID:  event.ID,
		})
		if err != nil {
			return err
		}
	}

	switch event.Kind {
	case events.SubscriptionCreated:
		return h.subscriptions.Create(ctx, subscriptionRecord(event, models.SubscriptionType(event.Subscription.Status)))
	case events.SubscriptionUpdated:
		return h.reconcileUpdate(ctx, event)
	}
	return nil
}

func (h *Handler) reconcileUpdate(ctx context.Context, event *events.Event) error {
	sub := event.Subscription
	fields := logrus.Fields{
		"event_id":        event.ID,
		"subscription_id": sub.ID,
		"user_id":         event.UserID,
	}

	incomplete, err := h.subscriptions.FindIncomplete(ctx, sub.ID)
	switch {
	case err == nil:
		return h.subscriptions.Activate(ctx, incomplete.ID)
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	if sub.CancelAtPeriodEnd {
		utils.Logger.WithFields(fields).Info("Subscription update with pending cancellation, no record written")
		return nil
	}

	if err := h.subscriptions.Create(ctx, subscriptionRecord(event, models.SubscriptionTypeRenewal)); err != nil {
		return err
	}

	if sub.CorrelationID == "" {
		utils.LogWarnWithFields(fields, "Renewal without paymentLog metadata, payment log not updated")
		return nil
	}

	status := sub.Status
	if models.SubscriptionStatus(status) == models.SubscriptionActive {
		status = models.PaymentLogSuccess
	}
	return h.payments.RecordOutcome(ctx, sub.CorrelationID, datatypes.JSON(event.Payload), status)
}

func subscriptionRecord(event *events.Event, subType models.SubscriptionType) *models.Subscription {
	sub := event.Subscription
	return &models.Subscription{
		UserID:             event.UserID,
		SubscriptionID:     sub.ID,
		SubscriptionStatus: models.SubscriptionStatus(sub.Status),
		StartDate:          sub.Created,
		EndDate:            sub.CurrentPeriodEnd,
		PaymentStatus:      models.PaymentStatusComplete,
		SubscriptionType:   subType,
		CustomerID:         sub.CustomerID,
		PriceID:            sub.PriceID,
	}
}
