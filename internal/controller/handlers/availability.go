package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TutorAvailability GET /api/tutor/:id/availability
func (h *Handlers) TutorAvailability(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	slots, err := h.availabilityService.TutorAvailability(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", slots)
}

// AddAvailability POST /api/tutor/availability
func (h *Handlers) AddAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	slot, err := h.availabilityService.AddAvailability(c.Request.Context(), req.TutorID, req.date(), req.StartTime)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Availability added", gin.H{
		"availability_id": slot.ID,
		"end_time":        slot.EndTime,
	})
}

// DeleteAvailability DELETE /api/admin/availability/:id
func (h *Handlers) DeleteAvailability(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.availabilityService.DeleteAvailability(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Availability deleted", nil)
}
