package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/location"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
)

// SearchParams сырые параметры поиска из запроса; пустые не применяются
type SearchParams struct {
	Subject   string
	TutorName string
	Date      string
	Time      string
}

// SearchService проекции для чтения: поиск, ближайшие занятия, обзор для админа
type SearchService struct {
	store   repository.Store
	locator location.Locator
	logger  *zap.Logger
}

func NewSearchService(store repository.Store, locator location.Locator, logger *zap.Logger) *SearchService {
	if locator == nil {
		locator = location.PrefixTable(nil)
	}
	return &SearchService{
		store:   store,
		locator: locator,
		logger:  logger,
	}
}

// Filter разбирает параметры в фильтр
func (p SearchParams) Filter() (model.SearchFilter, error) {
	filter := model.SearchFilter{
		Subject:   strings.TrimSpace(p.Subject),
		TutorName: strings.TrimSpace(p.TutorName),
	}

	if d := strings.TrimSpace(p.Date); d != "" {
		date, err := model.ParseDate(d)
		if err != nil {
			return filter, apperr.Validation("invalid date %q: expected YYYY-MM-DD", d)
		}
		filter.Date = &date
	}

	if t := strings.TrimSpace(p.Time); t != "" {
		clock, err := model.ParseClock(t)
		if err != nil {
			return filter, apperr.Validation("invalid time %q: expected HH:MM", t)
		}
		filter.Time = &clock
	}

	return filter, nil
}

// SearchAvailability свободные слоты по фильтру, по дате и времени начала
func (s *SearchService) SearchAvailability(ctx context.Context, params SearchParams) ([]*model.AvailableSlot, error) {
	filter, err := params.Filter()
	if err != nil {
		return nil, err
	}

	slots, err := s.store.SearchAvailability(ctx, filter)
	if err != nil {
		return nil, storeError("search availability", err)
	}
	return slots, nil
}

// UpcomingAppointments активные записи студента или тьютора.
// Для подтверждённых занятий подставляется аудитория.
func (s *SearchService) UpcomingAppointments(ctx context.Context, userID int64, role model.Role) ([]*model.UpcomingAppointment, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if role != model.RoleStudent && role != model.RoleTutor {
		return nil, apperr.Validation("invalid role %q: expected student or tutor", role)
	}

	items, err := s.store.UpcomingAppointments(ctx, userID, role)
	if err != nil {
		return nil, storeError("get upcoming appointments", err)
	}

	for _, item := range items {
		if item.Status == model.AppointmentStatusAccepted {
			item.Location = s.locator.Locate(item.SubjectName)
		}
	}
	return items, nil
}

// TutorAppointments все записи тьютора: pending, accepted, declined, completed
func (s *SearchService) TutorAppointments(ctx context.Context, tutorID int64) ([]*model.TutorAppointment, error) {
	if err := requireID("tutor_id", tutorID); err != nil {
		return nil, err
	}

	items, err := s.store.TutorAppointments(ctx, tutorID)
	if err != nil {
		return nil, storeError("get tutor appointments", err)
	}
	return items, nil
}

// AdminAvailabilityOverview все слоты с активными записями
func (s *SearchService) AdminAvailabilityOverview(ctx context.Context) ([]*model.AdminSlotView, error) {
	items, err := s.store.AdminAvailability(ctx)
	if err != nil {
		return nil, storeError("get admin availability", err)
	}
	return items, nil
}

func (s *SearchService) AdminSummary(ctx context.Context) (*model.AdminSummary, error) {
	summary, err := s.store.AdminSummary(ctx)
	if err != nil {
		return nil, storeError("get admin summary", err)
	}
	return summary, nil
}
