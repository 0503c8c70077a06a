package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/service"
)

// Pinger проверка готовности хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers содержит все зависимости HTTP обработчиков
type Handlers struct {
	bookingService      *service.BookingService
	availabilityService *service.AvailabilityService
	notificationService *service.NotificationService
	searchService       *service.SearchService
	subjectService      *service.SubjectService
	pinger              Pinger
	logger              *zap.Logger
}

// NewHandlers создаёт обработчики
func NewHandlers(
	bookingService *service.BookingService,
	availabilityService *service.AvailabilityService,
	notificationService *service.NotificationService,
	searchService *service.SearchService,
	subjectService *service.SubjectService,
	pinger Pinger,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		bookingService:      bookingService,
		availabilityService: availabilityService,
		notificationService: notificationService,
		searchService:       searchService,
		subjectService:      subjectService,
		pinger:              pinger,
		logger:              logger,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

type availabilityRequest struct {
	TutorID       int64  `json:"tutor_id"`
	Date          string `json:"date"`
	AvailableDate string `json:"available_date"` // то же, что date, в виде поля ответа
	StartTime     string `json:"start_time"`
}

func (r availabilityRequest) date() string {
	if r.Date != "" {
		return r.Date
	}
	return r.AvailableDate
}

type subjectRequest struct {
	SubjectName string `json:"subject_name"`
}

type tutorSubjectsRequest struct {
	TutorID  int64    `json:"tutor_id"`
	Subjects []string `json:"subjects"`
}
