package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminSummary GET /api/admin/summary
func (h *Handlers) AdminSummary(c *gin.Context) {
	summary, err := h.searchService.AdminSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", summary)
}

// AdminAvailability GET /api/admin/availability
func (h *Handlers) AdminAvailability(c *gin.Context) {
	items, err := h.searchService.AdminAvailabilityOverview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", items)
}

// AdminCancelSession POST /api/admin/appointments/:id/cancel
func (h *Handlers) AdminCancelSession(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.bookingService.AdminCancelSession(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Session cancelled", nil)
}
