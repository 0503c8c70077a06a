package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications GET /api/notifications/:userId
func (h *Handlers) ListNotifications(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	inbox, err := h.notificationService.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", inbox)
}

// MarkNotificationRead PUT /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification marked as read", nil)
}
