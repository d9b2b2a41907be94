package server

import (
	"net/http"
	"strconv"

	"github.com/sahu-SuMiT/WeNews/internal/api"
	"github.com/sahu-SuMiT/WeNews/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Queue a test notification
// @Tags         system
// @Produce      json
// @Param        user_id query int true "Recipient user id"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /test-notification [get]
func TestNotification(dispatcher *notification.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user_id parameter required"})
			return
		}

		err = dispatcher.Enqueue(c.Request.Context(), userID, notification.TypeSystem,
			"Test Notification", "Notification queue is working!", nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Message: "Notification queued successfully"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
