package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workdesk/api/internal/middleware"
)

func (h HandlerSet) UserMetrics(c *gin.Context) {
	metrics, err := h.metrics.ForUser(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}
