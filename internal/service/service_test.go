package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/location"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/notify"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/memory"
)

type recordingDispatcher struct {
	mu  sync.Mutex
	got []notify.Delivery
}

func (d *recordingDispatcher) Dispatch(_ context.Context, deliveries []notify.Delivery) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.got = append(d.got, deliveries...)
}

func (d *recordingDispatcher) Deliveries() []notify.Delivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notify.Delivery(nil), d.got...)
}

type fixture struct {
	store        *memory.Store
	dispatcher   *recordingDispatcher
	booking      *BookingService
	availability *AvailabilityService
	inbox        *NotificationService
	search       *SearchService
	subjects     *SubjectService

	student *model.User
	other   *model.User // второй студент
	tutor   *model.User
	admin   *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop()
	store := memory.New()
	dispatcher := &recordingDispatcher{}

	f := &fixture{
		store:        store,
		dispatcher:   dispatcher,
		booking:      NewBookingService(store, notify.NewEmitter(location.Default), dispatcher, logger),
		availability: NewAvailabilityService(store, logger),
		inbox:        NewNotificationService(store, logger),
		search:       NewSearchService(store, location.Default, logger),
		subjects:     NewSubjectService(store, logger),
	}

	studentChat := int64(1001)
	f.student = f.addUser(t, "Ann Lee", "ann@example.edu", model.RoleStudent, &studentChat)
	f.other = f.addUser(t, "Eve Park", "eve@example.edu", model.RoleStudent, nil)
	f.tutor = f.addUser(t, "Bob Stone", "bob@example.edu", model.RoleTutor, nil)
	f.admin = f.addUser(t, "Carol Admin", "carol@example.edu", model.RoleAdmin, nil)

	_, err := f.subjects.SaveTutorSubjects(context.Background(), f.tutor.ID, []string{"Math 150", "CSCI 111"})
	require.NoError(t, err)

	return f
}

func (f *fixture) addUser(t *testing.T, name, email string, role model.Role, chatID *int64) *model.User {
	t.Helper()
	u := &model.User{FullName: name, Email: email, Role: role, TelegramChatID: chatID}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) addSlot(t *testing.T, tutorID int64, date, start string) *model.Slot {
	t.Helper()
	slot, err := f.availability.AddAvailability(context.Background(), tutorID, date, start)
	require.NoError(t, err)
	return slot
}

func (f *fixture) request(slot *model.Slot, subject string) (int64, error) {
	return f.requestAs(f.student, slot, subject)
}

func (f *fixture) requestAs(student *model.User, slot *model.Slot, subject string) (int64, error) {
	return f.booking.RequestSession(context.Background(), SessionRequest{
		StudentID:      student.ID,
		TutorID:        slot.TutorID,
		SubjectName:    subject,
		AvailabilityID: slot.ID,
	})
}

func (f *fixture) slot(t *testing.T, id int64) model.Slot {
	t.Helper()
	slot, err := f.store.GetSlot(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, slot)
	return *slot
}

func (f *fixture) appointment(t *testing.T, id int64) *model.AppointmentDetails {
	t.Helper()
	d, err := f.store.GetAppointmentDetails(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, d)
	return d
}

// requireConsistent проверяет согласованность слотов и записей:
// не больше одной активной записи на слот, статус слота соответствует записи.
func requireConsistent(t *testing.T, store *memory.Store) {
	t.Helper()

	bySlot := map[int64][]model.Appointment{}
	for _, a := range store.Appointments() {
		bySlot[a.AvailabilityID] = append(bySlot[a.AvailabilityID], a)
	}

	for _, slot := range store.Slots() {
		var pending, accepted, completed int
		for _, a := range bySlot[slot.ID] {
			require.Equal(t, slot.TutorID, a.TutorID, "appointment %d tutor differs from slot owner", a.ID)
			switch a.Status {
			case model.AppointmentStatusPending:
				pending++
			case model.AppointmentStatusAccepted:
				accepted++
			case model.AppointmentStatusCompleted:
				completed++
			}
		}
		require.LessOrEqual(t, pending+accepted, 1, "slot %d has several active appointments", slot.ID)

		switch slot.Status {
		case model.SlotStatusAvailable:
			require.Zero(t, pending+accepted, "available slot %d has an active appointment", slot.ID)
		case model.SlotStatusPending:
			require.Equal(t, 1, pending, "pending slot %d needs exactly one pending appointment", slot.ID)
		case model.SlotStatusBooked:
			require.Equal(t, 1, accepted+completed, "booked slot %d needs an accepted or completed appointment", slot.ID)
		default:
			t.Fatalf("slot %d has unknown status %q", slot.ID, slot.Status)
		}
	}
}

var _ repository.Store = (*memory.Store)(nil)
