package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
)

// memTx работает на копии состояния, которая станет живой после успешного fn
type memTx struct {
	state state
	now   time.Time
}

func (tx *memTx) GetUser(_ context.Context, id int64) (*model.User, error) {
	return tx.state.user(id), nil
}

func (tx *memTx) GetSubject(_ context.Context, id int64) (*model.Subject, error) {
	return tx.state.subject(id), nil
}

func (tx *memTx) GetSubjectByName(_ context.Context, name string) (*model.Subject, error) {
	return tx.state.subjectByName(name), nil
}

func (tx *memTx) GetSlot(_ context.Context, id int64) (*model.Slot, error) {
	return tx.state.slot(id), nil
}

func (tx *memTx) GetAppointmentDetails(_ context.Context, id int64) (*model.AppointmentDetails, error) {
	return tx.state.details(id), nil
}

func (tx *memTx) SlotExists(_ context.Context, tutorID int64, date model.Date, start model.ClockTime) (bool, error) {
	for _, slot := range tx.state.slots {
		if slot.TutorID == tutorID && slot.Date.Compare(date) == 0 && slot.StartTime == start {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memTx) CreateSlot(ctx context.Context, slot *model.Slot) error {
	exists, err := tx.SlotExists(ctx, slot.TutorID, slot.Date, slot.StartTime)
	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	if exists {
		return fmt.Errorf("create slot: %w", repository.ErrDuplicate)
	}
	tx.state.seq.slot++
	slot.ID = tx.state.seq.slot
	tx.state.slots[slot.ID] = *slot
	return nil
}

func (tx *memTx) SlotReferenced(_ context.Context, id int64) (bool, error) {
	for _, a := range tx.state.appointments {
		if a.AvailabilityID == id {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memTx) DeleteSlot(_ context.Context, id int64) error {
	if _, ok := tx.state.slots[id]; !ok {
		return fmt.Errorf("slot not found")
	}
	delete(tx.state.slots, id)
	return nil
}

func (tx *memTx) SwapSlotStatus(_ context.Context, id int64, from []model.SlotStatus, to model.SlotStatus) (bool, error) {
	slot, ok := tx.state.slots[id]
	if !ok || !slices.Contains(from, slot.Status) {
		return false, nil
	}
	slot.Status = to
	tx.state.slots[id] = slot
	return true, nil
}

func (tx *memTx) CreateAppointment(_ context.Context, appt *model.Appointment) error {
	if appt.Status.IsActive() && tx.state.activeAppointment(appt.AvailabilityID) != nil {
		return fmt.Errorf("create appointment: %w", repository.ErrDuplicate)
	}
	tx.state.seq.appointment++
	appt.ID = tx.state.seq.appointment
	appt.CreatedAt = tx.now
	tx.state.appointments[appt.ID] = *appt
	return nil
}

func (tx *memTx) SwapAppointmentStatus(_ context.Context, id int64, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error) {
	a, ok := tx.state.appointments[id]
	if !ok || !slices.Contains(from, a.Status) {
		return false, nil
	}
	if to.IsActive() && !a.Status.IsActive() && tx.state.activeAppointment(a.AvailabilityID) != nil {
		return false, fmt.Errorf("swap appointment status: %w", repository.ErrDuplicate)
	}
	a.Status = to
	tx.state.appointments[id] = a
	return true, nil
}

func (tx *memTx) CreateNotifications(_ context.Context, notifications ...*model.Notification) error {
	for _, n := range notifications {
		if n.Status == "" {
			n.Status = model.NotificationStatusUnread
		}
		tx.state.seq.notification++
		n.ID = tx.state.seq.notification
		n.CreatedAt = tx.now
		tx.state.notifications[n.ID] = *n
	}
	return nil
}

func (tx *memTx) CreateSubject(_ context.Context, subject *model.Subject) error {
	if tx.state.subjectByName(subject.Name) != nil {
		return fmt.Errorf("create subject: %w", repository.ErrDuplicate)
	}
	tx.state.seq.subject++
	subject.ID = tx.state.seq.subject
	tx.state.subjects[subject.ID] = *subject
	return nil
}

func (tx *memTx) SubjectReferenced(_ context.Context, id int64) (bool, error) {
	for _, set := range tx.state.tutorSubjects {
		if _, ok := set[id]; ok {
			return true, nil
		}
	}
	for _, a := range tx.state.appointments {
		if a.SubjectID == id {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memTx) DeleteSubject(_ context.Context, id int64) error {
	if _, ok := tx.state.subjects[id]; !ok {
		return fmt.Errorf("subject not found")
	}
	delete(tx.state.subjects, id)
	return nil
}

func (tx *memTx) LinkTutorSubject(_ context.Context, tutorID, subjectID int64) error {
	set, ok := tx.state.tutorSubjects[tutorID]
	if !ok {
		set = map[int64]struct{}{}
		tx.state.tutorSubjects[tutorID] = set
	}
	set[subjectID] = struct{}{}
	return nil
}

var _ repository.Tx = (*memTx)(nil)
