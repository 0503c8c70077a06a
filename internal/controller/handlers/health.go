package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Healthz GET /healthz
func (h *Handlers) Healthz(c *gin.Context) {
	respond(c, http.StatusOK, "ok", nil)
}

// Readyz GET /readyz; проверяет соединение с хранилищем
func (h *Handlers) Readyz(c *gin.Context) {
	if err := h.pinger.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "store unavailable",
			Error:   "unavailable",
		})
		return
	}
	respond(c, http.StatusOK, "ready", nil)
}
