package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
)

// AvailabilityService публикация и удаление часовых слотов тьютора
type AvailabilityService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewAvailabilityService(store repository.Store, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		store:  store,
		logger: logger,
	}
}

// AddAvailability создаёт свободный слот длительностью model.SlotDuration.
// Конец слота может перейти через полночь: 23:30 -> 00:30.
func (s *AvailabilityService) AddAvailability(ctx context.Context, tutorID int64, date, startTime string) (slot *model.Slot, err error) {
	ctx, span := tracer.Start(ctx, "availability.AddAvailability", trace.WithAttributes(
		attribute.Int64("tutor_id", tutorID),
		attribute.String("available_date", date),
		attribute.String("start_time", startTime),
	))
	defer func() { endSpan(span, err) }()

	// Валидация входных данных
	if tutorID <= 0 || strings.TrimSpace(date) == "" || strings.TrimSpace(startTime) == "" {
		return nil, apperr.Validation("tutor_id, date and start_time are required")
	}
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, apperr.Validation("invalid available_date %q: expected YYYY-MM-DD", date)
	}
	start, err := model.ParseClock(startTime)
	if err != nil {
		return nil, apperr.Validation("invalid start_time %q: expected HH:MM", startTime)
	}

	slot = &model.Slot{
		TutorID:   tutorID,
		Date:      day,
		StartTime: start,
		EndTime:   start.Add(model.SlotDuration),
		Status:    model.SlotStatusAvailable,
	}
	duplicate := apperr.Conflict("availability already exists for %s at %s", day, start)

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		tutor, err := tx.GetUser(ctx, tutorID)
		if err != nil {
			return storeError("get tutor", err)
		}
		if tutor == nil {
			return apperr.NotFound("tutor %d not found", tutorID)
		}
		if tutor.Role != model.RoleTutor {
			return apperr.Validation("user %d is not a tutor", tutorID)
		}

		exists, err := tx.SlotExists(ctx, tutorID, day, start)
		if err != nil {
			return storeError("check slot", err)
		}
		if exists {
			return duplicate
		}

		// Уникальный индекс ловит гонку двух одинаковых запросов
		if err := tx.CreateSlot(ctx, slot); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return duplicate
			}
			return storeError("create slot", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Availability added",
		zap.Int64("availability_id", slot.ID),
		zap.Int64("tutor_id", tutorID),
		zap.Stringer("date", slot.Date),
		zap.Stringer("start_time", slot.StartTime),
		zap.Stringer("end_time", slot.EndTime),
	)

	return slot, nil
}

// DeleteAvailability удаляет слот, на который никто не записывался.
// Слоты с записями (даже завершёнными) не удаляются: сначала отмена сессии.
func (s *AvailabilityService) DeleteAvailability(ctx context.Context, availabilityID int64) (err error) {
	ctx, span := tracer.Start(ctx, "availability.DeleteAvailability", trace.WithAttributes(
		attribute.Int64("availability_id", availabilityID),
	))
	defer func() { endSpan(span, err) }()

	if err := requireID("availability_id", availabilityID); err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		slot, err := tx.GetSlot(ctx, availabilityID)
		if err != nil {
			return storeError("get slot", err)
		}
		if slot == nil {
			return apperr.NotFound("availability slot %d not found", availabilityID)
		}

		used, err := tx.SlotReferenced(ctx, availabilityID)
		if err != nil {
			return storeError("check slot appointments", err)
		}
		if used {
			return apperr.Conflict("availability slot %d has appointments: cancel the session instead", availabilityID)
		}

		if err := tx.DeleteSlot(ctx, availabilityID); err != nil {
			return storeError("delete slot", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Availability deleted", zap.Int64("availability_id", availabilityID))
	return nil
}

// TutorAvailability слоты тьютора в статусах available и pending
func (s *AvailabilityService) TutorAvailability(ctx context.Context, tutorID int64) ([]*model.Slot, error) {
	if err := requireID("tutor_id", tutorID); err != nil {
		return nil, err
	}

	slots, err := s.store.TutorAvailability(ctx, tutorID)
	if err != nil {
		return nil, storeError("get tutor availability", err)
	}
	return slots, nil
}
