package subscriptions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"subscription-api/models"
	"subscription-api/processor"
	"subscription-api/repositories"
	"subscription-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

const checkoutTypeTrial = "trial"

// CheckoutInput is the body of POST /api/subscription
type CheckoutInput struct {
	Type       string `json:"type" binding:"omitempty,oneof=trial" example:"trial"`
	SuccessURL string `json:"successUrl" binding:"required" example:"https://app.example.com/billing/success"`
	CancelURL  string `json:"cancelUrl" binding:"required" example:"https://app.example.com/billing/cancel"`
}

// CreateCheckoutSession starts a Stripe hosted checkout for a new subscription.
// @Summary Create a Stripe Checkout session for a subscription
// @Description Records the payment attempt and returns the hosted checkout URL. type=trial adds a free trial.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body CheckoutInput true "Checkout request"
// @Security BearerAuth
// @Success 200 {object} map[string]string "url: Stripe Checkout URL"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized, already subscribed or no product"
// @Failure 500 {object} map[string]string "error: Stripe error or server error"
// @Router /api/subscription [post]
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var input CheckoutInput
	if err := utils.BindJSON(c, &input); err != nil {
		utils.RespondError(c, nil, err, "CreateCheckoutSession")
		return
	}

	if _, err := url.Parse(input.CancelURL); err != nil {
		utils.RespondError(c, nil, utils.ValidationError("cancelUrl is invalid"), "CreateCheckoutSession")
		return
	}

	userID, err := requireUser(c)
	if err != nil {
		utils.RespondError(c, nil, err, "CreateCheckoutSession")
		return
	}

	checkoutURL, err := h.startCheckout(c.Request.Context(), userID, input)
	if err != nil {
		utils.RespondError(c, userID, err, "CreateCheckoutSession")
		return
	}

	utils.LogSuccessWithUser(userID, "Stripe checkout session created in CreateCheckoutSession")
	c.JSON(http.StatusOK, gin.H{"url": checkoutURL})
}

func (h *Handler) startCheckout(ctx context.Context, userID string, input CheckoutInput) (string, error) {
	_, err := h.subscriptions.FindLiveForUser(ctx, userID, h.now())
	if err == nil {
		return "", utils.ConflictError("You already have an active subscription")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}

	price, err := h.processor.DefaultPrice(ctx)
	if errors.Is(err, processor.ErrNoPrice) {
		return "", utils.NotFoundError(http.StatusUnauthorized, "No subscription product available")
	}
	if err != nil {
		return "", err
	}

	params := processor.CheckoutParams{
		PriceID:    price.ID,
		Quantity:   1,
		SuccessURL: input.SuccessURL,
		UserID:     userID,
	}
	if input.Type == checkoutTypeTrial {
		params.TrialDays = h.trialDays
	}

	request, err := json.Marshal([]map[string]interface{}{
		{"price": params.PriceID, "quantity": params.Quantity},
	})
	if err != nil {
		return "", err
	}
	log := &models.PaymentLog{
		UserID:  userID,
		Request: datatypes.JSON(request),
		Status:  models.PaymentLogPending,
		Event:   models.PaymentLogCheckoutEvent,
	}
	if err := h.payments.Create(ctx, log); err != nil {
		return "", err
	}

	cancelURL, err := withPaymentID(input.CancelURL, log.ID)
	if err != nil {
		return "", err
	}
	params.CancelURL = cancelURL
	params.CorrelationID = log.ID

	// the log stays behind if Stripe fails here
	session, err := h.processor.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", fmt.Errorf("payment log %s: %w", log.ID, err)
	}
	return session.URL, nil
}

// withPaymentID appends paymentId to the cancel URL, keeping any query it already has.
func withPaymentID(raw, paymentID string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("paymentId", paymentID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
