package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

func TestRequestSession(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")

	id, err := f.request(slot, "Math 150")
	require.NoError(t, err)
	assert.Positive(t, id)

	d := f.appointment(t, id)
	assert.Equal(t, model.AppointmentStatusPending, d.Status)
	assert.Equal(t, f.student.ID, d.StudentID)
	assert.Equal(t, f.tutor.ID, d.TutorID)
	assert.Equal(t, model.SlotStatusPending, f.slot(t, slot.ID).Status)

	notes := f.store.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, f.tutor.ID, notes[0].UserID)
	assert.Equal(t, model.NotificationStatusUnread, notes[0].Status)
	assert.Equal(t, "Ann Lee requested a Math 150 session on Oct 27, 2025 at 2:00 PM.", notes[0].Message)

	// у тьютора нет chat id, пушить некому
	assert.Empty(t, f.dispatcher.Deliveries())

	requireConsistent(t, f.store)
}

func TestRequestSessionValidation(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")
	ctx := context.Background()

	tests := []struct {
		name string
		req  SessionRequest
		kind apperr.Kind
	}{
		{"missing student", SessionRequest{TutorID: f.tutor.ID, SubjectName: "Math 150", AvailabilityID: slot.ID}, apperr.KindValidation},
		{"missing tutor", SessionRequest{StudentID: f.student.ID, SubjectName: "Math 150", AvailabilityID: slot.ID}, apperr.KindValidation},
		{"blank subject", SessionRequest{StudentID: f.student.ID, TutorID: f.tutor.ID, SubjectName: "  ", AvailabilityID: slot.ID}, apperr.KindValidation},
		{"missing slot", SessionRequest{StudentID: f.student.ID, TutorID: f.tutor.ID, SubjectName: "Math 150"}, apperr.KindValidation},
		{"unknown subject", SessionRequest{StudentID: f.student.ID, TutorID: f.tutor.ID, SubjectName: "Basket Weaving", AvailabilityID: slot.ID}, apperr.KindNotFound},
		{"unknown slot", SessionRequest{StudentID: f.student.ID, TutorID: f.tutor.ID, SubjectName: "Math 150", AvailabilityID: 999}, apperr.KindNotFound},
		{"unknown student", SessionRequest{StudentID: 999, TutorID: f.tutor.ID, SubjectName: "Math 150", AvailabilityID: slot.ID}, apperr.KindNotFound},
		{"slot of another tutor", SessionRequest{StudentID: f.student.ID, TutorID: f.admin.ID, SubjectName: "Math 150", AvailabilityID: slot.ID}, apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.booking.RequestSession(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}

	// ни одна неудачная попытка не оставила следов
	assert.Equal(t, model.SlotStatusAvailable, f.slot(t, slot.ID).Status)
	assert.Empty(t, f.store.Appointments())
	assert.Empty(t, f.store.Notifications())
}

func TestRequestSessionOnTakenSlot(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")

	_, err := f.request(slot, "Math 150")
	require.NoError(t, err)

	_, err = f.request(slot, "Math 150")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "slot unavailable")

	assert.Len(t, f.store.Appointments(), 1)
	assert.Len(t, f.store.Notifications(), 1)
	requireConsistent(t, f.store)
}

func TestConcurrentRequestsExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")

	// половина запросов от одного студента, половина от другого
	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		winner    int64
		winnerID  int64
	)

	start := make(chan struct{})
	for i := range workers {
		student := f.student
		if i%2 == 1 {
			student = f.other
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			id, err := f.requestAs(student, slot, "Math 150")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
				winner, winnerID = id, student.ID
			case apperr.Is(err, apperr.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, winnerID, f.appointment(t, winner).StudentID)
	assert.Equal(t, model.SlotStatusPending, f.slot(t, slot.ID).Status)
	assert.Len(t, f.store.Appointments(), 1)
	requireConsistent(t, f.store)
}

func TestAcceptBooksSlotAndNotifiesWithLocation(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")
	id, err := f.request(slot, "Math 150")
	require.NoError(t, err)

	require.NoError(t, f.booking.UpdateAppointmentStatus(context.Background(), id, "accepted"))

	assert.Equal(t, model.AppointmentStatusAccepted, f.appointment(t, id).Status)
	assert.Equal(t, model.SlotStatusBooked, f.slot(t, slot.ID).Status)

	notes := f.store.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, f.student.ID, notes[1].UserID)
	assert.Equal(t,
		"Bob Stone accepted your Math 150 session on Oct 27, 2025 at 2:00 PM. Location: Hume Hall 324 or 326.",
		notes[1].Message)

	// студент подключён к боту
	pushed := f.dispatcher.Deliveries()
	require.Len(t, pushed, 1)
	assert.Equal(t, int64(1001), pushed[0].ChatID)
	assert.Equal(t, notes[1].Message, pushed[0].Text)

	requireConsistent(t, f.store)
}

func TestDeclineFreesSlot(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")
	id, err := f.request(slot, "CSCI 111")
	require.NoError(t, err)

	require.NoError(t, f.booking.UpdateAppointmentStatus(context.Background(), id, "declined"))

	assert.Equal(t, model.AppointmentStatusDeclined, f.appointment(t, id).Status)
	assert.Equal(t, model.SlotStatusAvailable, f.slot(t, slot.ID).Status)

	notes := f.store.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, "Bob Stone declined your CSCI 111 session on Oct 27, 2025 at 2:00 PM.", notes[1].Message)

	// слот снова можно запросить, уже другим студентом
	again, err := f.requestAs(f.other, slot, "CSCI 111")
	require.NoError(t, err)
	assert.NotEqual(t, id, again)
	assert.Equal(t, f.other.ID, f.appointment(t, again).StudentID)
	assert.Equal(t, model.SlotStatusPending, f.slot(t, slot.ID).Status)
	requireConsistent(t, f.store)
}

func TestCompleteKeepsSlotBooked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")
	id, err := f.request(slot, "Math 150")
	require.NoError(t, err)

	err = f.booking.UpdateAppointmentStatus(ctx, id, "completed")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, model.AppointmentStatusPending, f.appointment(t, id).Status)

	require.NoError(t, f.booking.UpdateAppointmentStatus(ctx, id, "accepted"))
	require.NoError(t, f.booking.UpdateAppointmentStatus(ctx, id, "completed"))

	assert.Equal(t, model.AppointmentStatusCompleted, f.appointment(t, id).Status)
	assert.Equal(t, model.SlotStatusBooked, f.slot(t, slot.ID).Status)

	notes := f.store.Notifications()
	require.Len(t, notes, 3)
	assert.Equal(t, "Your Math 150 session with Bob Stone on Oct 27, 2025 at 2:00 PM was marked completed.", notes[2].Message)
	requireConsistent(t, f.store)
}

func TestUpdateAppointmentStatusRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")
	id, err := f.request(slot, "Math 150")
	require.NoError(t, err)

	for _, status := range []string{"", "pending", "cancelled"} {
		err := f.booking.UpdateAppointmentStatus(ctx, id, status)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "status %q", status)
	}

	err = f.booking.UpdateAppointmentStatus(ctx, 999, "accepted")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = f.booking.UpdateAppointmentStatus(ctx, 0, "accepted")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, f.booking.UpdateAppointmentStatus(ctx, id, "declined"))
	err = f.booking.UpdateAppointmentStatus(ctx, id, "accepted")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, model.SlotStatusAvailable, f.slot(t, slot.ID).Status)
	requireConsistent(t, f.store)
}

func TestAdminCancelSession(t *testing.T) {
	for _, accept := range []bool{false, true} {
		name := "pending"
		if accept {
			name = "accepted"
		}

		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")
			id, err := f.request(slot, "CSCI 111")
			require.NoError(t, err)
			if accept {
				require.NoError(t, f.booking.UpdateAppointmentStatus(ctx, id, "accepted"))
			}
			before := len(f.store.Notifications())

			require.NoError(t, f.booking.AdminCancelSession(ctx, id))

			assert.Equal(t, model.AppointmentStatusDeclined, f.appointment(t, id).Status)
			assert.Equal(t, model.SlotStatusAvailable, f.slot(t, slot.ID).Status)

			notes := f.store.Notifications()[before:]
			require.Len(t, notes, 2)
			assert.Equal(t, f.student.ID, notes[0].UserID)
			assert.Equal(t, "An administrator cancelled your CSCI 111 session on Oct 27, 2025 at 2:00 PM.", notes[0].Message)
			assert.Equal(t, f.tutor.ID, notes[1].UserID)
			assert.Equal(t, "An administrator cancelled your CSCI 111 session with Ann Lee on Oct 27, 2025 at 2:00 PM.", notes[1].Message)
			requireConsistent(t, f.store)
		})
	}
}

func TestAdminCancelRejectsFinishedAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")
	id, err := f.request(slot, "Math 150")
	require.NoError(t, err)
	require.NoError(t, f.booking.UpdateAppointmentStatus(ctx, id, "accepted"))
	require.NoError(t, f.booking.UpdateAppointmentStatus(ctx, id, "completed"))
	before := len(f.store.Notifications())

	err = f.booking.AdminCancelSession(ctx, id)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "not cancellable")

	assert.Equal(t, model.SlotStatusBooked, f.slot(t, slot.ID).Status)
	assert.Len(t, f.store.Notifications(), before)

	err = f.booking.AdminCancelSession(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	requireConsistent(t, f.store)
}
