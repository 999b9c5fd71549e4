package subscriptions

import (
	"errors"
	"net/http"

	"subscription-api/repositories"
	"subscription-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserSubscriptions lists every subscription record of the caller, renewals included.
// @Summary List the user's subscriptions
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /api/subscription [get]
func (h *Handler) GetUserSubscriptions(c *gin.Context) {
	userID, err := requireUser(c)
	if err != nil {
		utils.RespondError(c, nil, err, "GetUserSubscriptions")
		return
	}

	subs, err := h.subscriptions.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, userID, err, "GetUserSubscriptions")
		return
	}

	c.JSON(http.StatusOK, subs)
}

// GetSubscriptionDetail returns one subscription record owned by the caller.
// @Summary Details of a subscription record
// @Tags subscriptions
// @Produce json
// @Param id path string true "Local subscription record ID"
// @Security BearerAuth
// @Success 200 {object} models.Subscription
// @Failure 400 {object} map[string]string "error: Invalid subscription ID"
// @Failure 403 {object} map[string]string "error: Not your subscription"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Router /api/subscription/{id} [get]
func (h *Handler) GetSubscriptionDetail(c *gin.Context) {
	userID, err := requireUser(c)
	if err != nil {
		utils.RespondError(c, nil, err, "GetSubscriptionDetail")
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.RespondError(c, userID, utils.ValidationError("Invalid subscription ID"), "GetSubscriptionDetail")
		return
	}

	sub, err := h.subscriptions.FindByID(c.Request.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.RespondError(c, userID, utils.NotFoundError(http.StatusNotFound, "Subscription not found"), "GetSubscriptionDetail")
		return
	}
	if err != nil {
		utils.RespondError(c, userID, err, "GetSubscriptionDetail")
		return
	}

	if sub.UserID != userID {
		utils.LogErrorWithUser(userID, nil, "Not authorized to view this subscription in GetSubscriptionDetail")
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}
