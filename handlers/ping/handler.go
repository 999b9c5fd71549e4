package ping

import (
	"context"
	"net/http"
	"time"

	"subscription-api/utils"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db Pinger
}

func New(db Pinger) *Handler {
	return &Handler{db: db}
}

// HandlePing reports liveness and whether the database answers
// @Summary Ping test
// @Description Answers pong when the service and its database are reachable
// @Tags health
// @Produce json
// @Success 200 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /ping [get]
func (h *Handler) HandlePing(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		utils.LogError(err, "Database ping failed in HandlePing")
		c.JSON(http.StatusServiceUnavailable, utils.Response{
			Success: false,
			Error:   "database unavailable",
		})
		return
	}

	utils.SendSuccess(c, http.StatusOK, "Ping successful", gin.H{
		"message":  "pong",
		"database": "up",
	})
}
