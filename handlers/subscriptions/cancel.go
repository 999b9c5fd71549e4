package subscriptions

import (
	"errors"
	"net/http"

	"subscription-api/repositories"
	"subscription-api/utils"

	"github.com/gin-gonic/gin"
)

type CancelPaymentInput struct {
	PaymentID string `json:"paymentId" binding:"required"`
}

type CancelSubscriptionInput struct {
	SubscriptionID string `json:"subscriptionId" binding:"required"`
}

// CancelPayment marks a checkout attempt as abandoned.
// @Summary Cancel a pending payment
// @Description Marks the payment log created at checkout as canceled. Succeeds even when no log matches.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body CancelPaymentInput true "Payment to cancel"
// @Security BearerAuth
// @Success 200 {object} map[string]bool "success: true"
// @Failure 400 {object} map[string]string "error: paymentId is required"
// @Router /api/subscription/cancel-payment [post]
func (h *Handler) CancelPayment(c *gin.Context) {
	var input CancelPaymentInput
	if err := utils.BindJSON(c, &input); err != nil {
		utils.RespondError(c, nil, err, "CancelPayment")
		return
	}

	userID, err := requireUser(c)
	if err != nil {
		utils.RespondError(c, nil, err, "CancelPayment")
		return
	}

	if err := h.payments.MarkCanceled(c.Request.Context(), input.PaymentID); err != nil {
		utils.RespondError(c, userID, err, "CancelPayment")
		return
	}

	utils.LogSuccessWithUser(userID, "Payment canceled in CancelPayment")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CancelSubscription asks Stripe to stop the subscription at the end of the paid period.
// The local record changes later, when Stripe sends the resulting update event.
// @Summary Cancel a subscription at period end
// @Description Schedules cancellation of one of the caller's active or trialing subscriptions
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body CancelSubscriptionInput true "Subscription to cancel"
// @Security BearerAuth
// @Success 200 {object} map[string]bool "success: true"
// @Failure 400 {object} map[string]string "error: Invalid input or subscription not found"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /api/subscription/cancel [post]
func (h *Handler) CancelSubscription(c *gin.Context) {
	var input CancelSubscriptionInput
	if err := utils.BindJSON(c, &input); err != nil {
		utils.RespondError(c, nil, err, "CancelSubscription")
		return
	}

	userID, err := requireUser(c)
	if err != nil {
		utils.RespondError(c, nil, err, "CancelSubscription")
		return
	}

	ctx := c.Request.Context()
	_, err = h.subscriptions.FindLiveByProcessorID(ctx, userID, input.SubscriptionID, h.now())
	if errors.Is(err, repositories.ErrNotFound) {
		err = utils.NotFoundError(http.StatusBadRequest, "Subscription not found")
	}
	if err != nil {
		utils.RespondError(c, userID, err, "CancelSubscription")
		return
	}

	if err := h.processor.CancelAtPeriodEnd(ctx, input.SubscriptionID); err != nil {
		utils.RespondError(c, userID, err, "CancelSubscription")
		return
	}

	utils.LogSuccessWithUser(userID, "Subscription cancellation scheduled in CancelSubscription")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
