package controller

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/handlers"
)

type HTTPController struct {
	engine   *gin.Engine
	handlers *handlers.Handlers
	logger   *zap.Logger
}

// NewHTTPController собирает gin engine с middleware
func NewHTTPController(h *handlers.Handlers, queryTimeout time.Duration, logger *zap.Logger) *HTTPController {
	engine := gin.New()
	engine.Use(
		handlers.RequestID(),
		handlers.Recovery(logger),
		handlers.AccessLog(logger),
		handlers.CORS(),
		handlers.QueryTimeout(queryTimeout),
	)

	c := &HTTPController{
		engine:   engine,
		handlers: h,
		logger:   logger,
	}
	c.RegisterRoutes()
	return c
}

// Engine возвращает http.Handler для сервера и тестов
func (c *HTTPController) Engine() *gin.Engine {
	return c.engine
}

// RegisterRoutes регистрирует все маршруты API
func (c *HTTPController) RegisterRoutes() {
	h := c.handlers

	c.engine.GET("/healthz", h.Healthz)
	c.engine.GET("/readyz", h.Readyz)

	api := c.engine.Group("/api")

	// Поиск и записи
	api.GET("/tutors/availability", h.SearchAvailability)
	api.POST("/appointments", h.RequestSession)
	api.PUT("/appointments/:id/status", h.UpdateAppointmentStatus)
	api.GET("/student/:id/appointments/upcoming", h.StudentUpcoming)

	// Тьютор
	tutor := api.Group("/tutor")
	tutor.GET("/:id/appointments/upcoming", h.TutorUpcoming)
	tutor.GET("/:id/appointments", h.TutorAppointments)
	tutor.GET("/:id/availability", h.TutorAvailability)
	tutor.GET("/:id/subjects", h.TutorSubjects)
	tutor.POST("/availability", h.AddAvailability)
	tutor.POST("/subjects", h.SaveTutorSubjects)

	// Предметы
	api.GET("/subjects", h.ListSubjects)
	api.POST("/subjects", h.AddSubject)
	api.DELETE("/subjects/:id", h.DeleteSubject)

	// Уведомления
	api.GET("/notifications/:userId", h.ListNotifications)
	api.PUT("/notifications/:id/read", h.MarkNotificationRead)

	// Администратор
	admin := api.Group("/admin")
	admin.GET("/summary", h.AdminSummary)
	admin.GET("/availability", h.AdminAvailability)
	admin.DELETE("/availability/:id", h.DeleteAvailability)
	admin.POST("/appointments/:id/cancel", h.AdminCancelSession)

	c.logger.Debug("HTTP routes registered", zap.Int("count", len(c.engine.Routes())))
}
