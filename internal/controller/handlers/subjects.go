package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListSubjects GET /api/subjects
func (h *Handlers) ListSubjects(c *gin.Context) {
	subjects, err := h.subjectService.ListSubjects(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", subjects)
}

// AddSubject POST /api/subjects
func (h *Handlers) AddSubject(c *gin.Context) {
	var req subjectRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	subject, err := h.subjectService.AddSubject(c.Request.Context(), req.SubjectName)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Subject added", subject)
}

// DeleteSubject DELETE /api/subjects/:id
func (h *Handlers) DeleteSubject(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.subjectService.DeleteSubject(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Subject deleted", nil)
}

// TutorSubjects GET /api/tutor/:id/subjects
func (h *Handlers) TutorSubjects(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	subjects, err := h.subjectService.TutorSubjects(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", subjects)
}

// SaveTutorSubjects POST /api/tutor/subjects
func (h *Handlers) SaveTutorSubjects(c *gin.Context) {
	var req tutorSubjectsRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	subjects, err := h.subjectService.SaveTutorSubjects(c.Request.Context(), req.TutorID, req.Subjects)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Subjects saved", subjects)
}
