package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

func TestAddAvailabilityRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.availability.AddAvailability(ctx, f.tutor.ID, "2025-10-27", "14:00")
	require.NoError(t, err)
	assert.Equal(t, "14:00", slot.StartTime.String())
	assert.Equal(t, "15:00", slot.EndTime.String())
	assert.Equal(t, model.SlotStatusAvailable, slot.Status)

	found, err := f.search.SearchAvailability(ctx, SearchParams{
		Subject: "Math 150",
		Date:    "2025-10-27",
		Time:    "14:30",
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, slot.ID, found[0].ID)
	assert.Equal(t, "Bob Stone", found[0].TutorName)
	assert.Equal(t, []string{"CSCI 111", "Math 150"}, found[0].Subjects)
	assert.Equal(t, "15:00", found[0].EndTime.String())
}

func TestAddAvailabilityAcrossMidnight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.availability.AddAvailability(ctx, f.tutor.ID, "2025-10-27", "23:30")
	require.NoError(t, err)
	assert.Equal(t, "23:30", slot.StartTime.String())
	assert.Equal(t, "00:30", slot.EndTime.String())

	// слот виден в поиске без фильтра по времени
	found, err := f.search.SearchAvailability(ctx, SearchParams{Date: "2025-10-27"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	// но не попадает ни под одно время
	for _, at := range []string{"23:30", "23:45", "00:15"} {
		found, err = f.search.SearchAvailability(ctx, SearchParams{Date: "2025-10-27", Time: at})
		require.NoError(t, err)
		assert.Empty(t, found, "time %s", at)
	}
}

func TestAddAvailabilityValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		tutorID int64
		date    string
		start   string
		kind    apperr.Kind
	}{
		{"missing tutor", 0, "2025-10-27", "14:00", apperr.KindValidation},
		{"missing date", f.tutor.ID, "", "14:00", apperr.KindValidation},
		{"missing start", f.tutor.ID, "2025-10-27", "", apperr.KindValidation},
		{"bad date", f.tutor.ID, "27/10/2025", "14:00", apperr.KindValidation},
		{"bad start", f.tutor.ID, "2025-10-27", "2pm", apperr.KindValidation},
		{"not a tutor", f.student.ID, "2025-10-27", "14:00", apperr.KindValidation},
		{"unknown tutor", 999, "2025-10-27", "14:00", apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.availability.AddAvailability(ctx, tt.tutorID, tt.date, tt.start)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
	assert.Empty(t, f.store.Slots())
}

func TestAddAvailabilityDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")

	_, err := f.availability.AddAvailability(ctx, f.tutor.ID, "2025-10-27", "14:00:00")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	// другое время в тот же день допустимо
	_, err = f.availability.AddAvailability(ctx, f.tutor.ID, "2025-10-27", "15:00")
	require.NoError(t, err)
	assert.Len(t, f.store.Slots(), 2)
}

func TestDeleteAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	free := f.addSlot(t, f.tutor.ID, "2025-10-27", "14:00")
	used := f.addSlot(t, f.tutor.ID, "2025-10-27", "16:00")
	id, err := f.request(used, "Math 150")
	require.NoError(t, err)
	require.NoError(t, f.booking.UpdateAppointmentStatus(ctx, id, "declined"))

	require.NoError(t, f.availability.DeleteAvailability(ctx, free.ID))

	// на слот ссылается отклонённая запись
	err = f.availability.DeleteAvailability(ctx, used.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "cancel the session instead")

	err = f.availability.DeleteAvailability(ctx, free.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	slots := f.store.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, used.ID, slots[0].ID)
}

func TestTutorAvailabilityHidesBookedSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booked := f.addSlot(t, f.tutor.ID, "2025-10-27", "09:00")
	pending := f.addSlot(t, f.tutor.ID, "2025-10-26", "10:00")
	free := f.addSlot(t, f.tutor.ID, "2025-10-27", "08:00")

	id, err := f.request(booked, "Math 150")
	require.NoError(t, err)
	require.NoError(t, f.booking.UpdateAppointmentStatus(ctx, id, "accepted"))
	_, err = f.request(pending, "Math 150")
	require.NoError(t, err)

	slots, err := f.availability.TutorAvailability(ctx, f.tutor.ID)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, pending.ID, slots[0].ID)
	assert.Equal(t, free.ID, slots[1].ID)

	_, err = f.availability.TutorAvailability(ctx, 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
