package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/lifecycle"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/notify"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
)

// SessionRequest запрос студента на занятие
type SessionRequest struct {
	StudentID      int64  `json:"student_id"`
	TutorID        int64  `json:"tutor_id"`
	SubjectName    string `json:"subject_name"`
	AvailabilityID int64  `json:"availability_id"`
}

// BookingService жизненный цикл записей: запрос, решение тьютора, отмена админом.
// Каждая операция меняет запись, слот и уведомления в одной транзакции.
type BookingService struct {
	store      repository.Store
	emitter    *notify.Emitter
	dispatcher notify.Dispatcher
	logger     *zap.Logger
}

func NewBookingService(
	store repository.Store,
	emitter *notify.Emitter,
	dispatcher notify.Dispatcher,
	logger *zap.Logger,
) *BookingService {
	if dispatcher == nil {
		dispatcher = notify.NopDispatcher{}
	}
	return &BookingService{
		store:      store,
		emitter:    emitter,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RequestSession создаёт pending запись на свободный слот.
// Слот захватывается условным UPDATE: из конкурентных запросов на один слот
// успешен ровно один, остальные получают Conflict.
func (s *BookingService) RequestSession(ctx context.Context, req SessionRequest) (id int64, err error) {
	ctx, span := tracer.Start(ctx, "booking.RequestSession", trace.WithAttributes(
		attribute.Int64("student_id", req.StudentID),
		attribute.Int64("tutor_id", req.TutorID),
		attribute.Int64("availability_id", req.AvailabilityID),
	))
	defer func() { endSpan(span, err) }()

	subjectName := strings.TrimSpace(req.SubjectName)
	if req.StudentID <= 0 || req.TutorID <= 0 || subjectName == "" || req.AvailabilityID <= 0 {
		return 0, apperr.Validation("student_id, tutor_id, subject_name and availability_id are required")
	}

	var (
		details *model.AppointmentDetails
		notes   []*model.Notification
	)

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		student, err := tx.GetUser(ctx, req.StudentID)
		if err != nil {
			return storeError("get student", err)
		}
		if student == nil {
			return apperr.NotFound("student %d not found", req.StudentID)
		}

		subject, err := tx.GetSubjectByName(ctx, subjectName)
		if err != nil {
			return storeError("get subject", err)
		}
		if subject == nil {
			return apperr.NotFound("subject %q not found", subjectName)
		}

		slot, err := tx.GetSlot(ctx, req.AvailabilityID)
		if err != nil {
			return storeError("get slot", err)
		}
		if slot == nil {
			return apperr.NotFound("availability slot %d not found", req.AvailabilityID)
		}
		if slot.TutorID != req.TutorID {
			return apperr.Validation("availability slot %d does not belong to tutor %d", slot.ID, req.TutorID)
		}

		tr, err := lifecycle.PlanRequest(slot.Status)
		if err != nil {
			return err
		}

		// Захватываем слот; статус мог измениться после чтения выше
		claimed, err := tx.SwapSlotStatus(ctx, slot.ID, tr.SlotFrom, tr.SlotTo)
		if err != nil {
			return storeError("claim slot", err)
		}
		if !claimed {
			return tr.SlotConflict(slot.ID)
		}

		appt := &model.Appointment{
			StudentID:      req.StudentID,
			TutorID:        req.TutorID,
			SubjectID:      subject.ID,
			AvailabilityID: slot.ID,
			Status:         tr.AppointmentTo,
		}
		if err := tx.CreateAppointment(ctx, appt); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return tr.SlotConflict(slot.ID)
			}
			return storeError("create appointment", err)
		}

		details, err = tx.GetAppointmentDetails(ctx, appt.ID)
		if err != nil {
			return storeError("get appointment", err)
		}
		if details == nil {
			return apperr.Store("get appointment", errors.New("appointment vanished inside transaction"))
		}

		notes, err = s.emitter.For(lifecycle.EventRequest, details)
		if err != nil {
			return err
		}
		if err := tx.CreateNotifications(ctx, notes...); err != nil {
			return storeError("create notifications", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Session requested",
		zap.Int64("appointment_id", details.ID),
		zap.Int64("student_id", details.StudentID),
		zap.Int64("tutor_id", details.TutorID),
		zap.Int64("availability_id", details.AvailabilityID),
		zap.String("subject", details.SubjectName),
	)

	dispatch(ctx, s.dispatcher, details, notes)

	return details.ID, nil
}

// UpdateAppointmentStatus решение тьютора: accepted, declined или completed
func (s *BookingService) UpdateAppointmentStatus(ctx context.Context, appointmentID int64, newStatus string) (err error) {
	ctx, span := tracer.Start(ctx, "booking.UpdateAppointmentStatus", trace.WithAttributes(
		attribute.Int64("appointment_id", appointmentID),
		attribute.String("new_status", newStatus),
	))
	defer func() { endSpan(span, err) }()

	if err := requireID("appointment_id", appointmentID); err != nil {
		return err
	}
	status := model.AppointmentStatus(strings.ToLower(strings.TrimSpace(newStatus)))
	if status == "" {
		return apperr.Validation("status is required")
	}
	ev, err := lifecycle.EventForStatus(status)
	if err != nil {
		return err
	}

	return s.transition(ctx, appointmentID, ev)
}

// AdminCancelSession отмена администратором активной записи; слот снова свободен
func (s *BookingService) AdminCancelSession(ctx context.Context, appointmentID int64) (err error) {
	ctx, span := tracer.Start(ctx, "booking.AdminCancelSession", trace.WithAttributes(
		attribute.Int64("appointment_id", appointmentID),
	))
	defer func() { endSpan(span, err) }()

	if err := requireID("appointment_id", appointmentID); err != nil {
		return err
	}

	return s.transition(ctx, appointmentID, lifecycle.EventAdminCancel)
}

// transition применяет событие к записи и её слоту в одной транзакции
func (s *BookingService) transition(ctx context.Context, appointmentID int64, ev lifecycle.Event) error {
	var (
		details *model.AppointmentDetails
		notes   []*model.Notification
		from    model.AppointmentStatus
	)

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		details, err = tx.GetAppointmentDetails(ctx, appointmentID)
		if err != nil {
			return storeError("get appointment", err)
		}
		if details == nil {
			return apperr.NotFound("appointment %d not found", appointmentID)
		}
		from = details.Status

		tr, err := lifecycle.Plan(ev, details.Status)
		if err != nil {
			return err
		}

		swapped, err := tx.SwapAppointmentStatus(ctx, appointmentID, tr.AppointmentFrom, tr.AppointmentTo)
		if err != nil {
			return storeError("update appointment status", err)
		}
		if !swapped {
			return tr.AppointmentConflict(appointmentID)
		}
		details.Status = tr.AppointmentTo

		if tr.ChangesSlot() {
			swapped, err = tx.SwapSlotStatus(ctx, details.AvailabilityID, tr.SlotFrom, tr.SlotTo)
			if err != nil {
				return storeError("update slot status", err)
			}
			if !swapped {
				return tr.SlotConflict(details.AvailabilityID)
			}
			details.SlotStatus = tr.SlotTo
		}

		notes, err = s.emitter.For(ev, details)
		if err != nil {
			return err
		}
		if err := tx.CreateNotifications(ctx, notes...); err != nil {
			return storeError("create notifications", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Appointment status changed",
		zap.Int64("appointment_id", appointmentID),
		zap.String("event", string(ev)),
		zap.String("from", string(from)),
		zap.String("to", string(details.Status)),
		zap.Int64("availability_id", details.AvailabilityID),
		zap.String("slot_status", string(details.SlotStatus)),
	)

	dispatch(ctx, s.dispatcher, details, notes)

	return nil
}
