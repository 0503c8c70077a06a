package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/service"
)

// SearchAvailability GET /api/tutors/availability?subject=&tutorName=&date=&time=
func (h *Handlers) SearchAvailability(c *gin.Context) {
	slots, err := h.searchService.SearchAvailability(c.Request.Context(), service.SearchParams{
		Subject:   c.Query("subject"),
		TutorName: c.Query("tutorName"),
		Date:      c.Query("date"),
		Time:      c.Query("time"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", slots)
}

// RequestSession POST /api/appointments
func (h *Handlers) RequestSession(c *gin.Context) {
	var req service.SessionRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	id, err := h.bookingService.RequestSession(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Session requested", gin.H{"appointment_id": id})
}

// UpdateAppointmentStatus PUT /api/appointments/:id/status
func (h *Handlers) UpdateAppointmentStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.bookingService.UpdateAppointmentStatus(c.Request.Context(), id, req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Appointment "+req.Status, nil)
}

// StudentUpcoming GET /api/student/:id/appointments/upcoming
func (h *Handlers) StudentUpcoming(c *gin.Context) {
	h.upcoming(c, model.RoleStudent)
}

// TutorUpcoming GET /api/tutor/:id/appointments/upcoming
func (h *Handlers) TutorUpcoming(c *gin.Context) {
	h.upcoming(c, model.RoleTutor)
}

func (h *Handlers) upcoming(c *gin.Context, role model.Role) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	items, err := h.searchService.UpcomingAppointments(c.Request.Context(), id, role)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", items)
}

// TutorAppointments GET /api/tutor/:id/appointments
func (h *Handlers) TutorAppointments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	items, err := h.searchService.TutorAppointments(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", items)
}
