package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

func TestPlanAllowedTransitions(t *testing.T) {
	tests := []struct {
		event    Event
		from     model.AppointmentStatus
		apptTo   model.AppointmentStatus
		slotTo   model.SlotStatus
		slotSame bool
	}{
		{EventAccept, model.AppointmentStatusPending, model.AppointmentStatusAccepted, model.SlotStatusBooked, false},
		{EventDecline, model.AppointmentStatusPending, model.AppointmentStatusDeclined, model.SlotStatusAvailable, false},
		{EventComplete, model.AppointmentStatusAccepted, model.AppointmentStatusCompleted, model.SlotStatusBooked, true},
		{EventAdminCancel, model.AppointmentStatusPending, model.AppointmentStatusDeclined, model.SlotStatusAvailable, false},
		{EventAdminCancel, model.AppointmentStatusAccepted, model.AppointmentStatusDeclined, model.SlotStatusAvailable, false},
	}

	for _, tt := range tests {
		tr, err := Plan(tt.event, tt.from)
		require.NoError(t, err, "%s from %s", tt.event, tt.from)
		assert.Equal(t, tt.apptTo, tr.AppointmentTo)
		assert.Equal(t, tt.slotTo, tr.SlotTo)
		assert.Equal(t, tt.slotSame, !tr.ChangesSlot())
	}
}

func TestPlanRejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		event Event
		from  model.AppointmentStatus
	}{
		{EventAccept, model.AppointmentStatusDeclined},
		{EventAccept, model.AppointmentStatusAccepted},
		{EventDecline, model.AppointmentStatusAccepted},
		{EventComplete, model.AppointmentStatusPending},
		{EventComplete, model.AppointmentStatusCompleted},
		{EventAdminCancel, model.AppointmentStatusDeclined},
		{EventAdminCancel, model.AppointmentStatusCompleted},
	}

	for _, tt := range tests {
		_, err := Plan(tt.event, tt.from)
		require.Error(t, err, "%s from %s", tt.event, tt.from)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	}
}

func TestAdminCancelConflictMessage(t *testing.T) {
	_, err := Plan(EventAdminCancel, model.AppointmentStatusCompleted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not cancellable")
	assert.Contains(t, err.Error(), "pending or accepted")
}

func TestPlanRequest(t *testing.T) {
	tr, err := PlanRequest(model.SlotStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusPending, tr.SlotTo)
	assert.Equal(t, model.AppointmentStatusPending, tr.AppointmentTo)

	for _, s := range []model.SlotStatus{model.SlotStatusPending, model.SlotStatusBooked} {
		_, err := PlanRequest(s)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindConflict))
		assert.Contains(t, err.Error(), "slot unavailable")
	}
}

func TestEventForStatus(t *testing.T) {
	ev, err := EventForStatus(model.AppointmentStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, EventAccept, ev)

	_, err = EventForStatus(model.AppointmentStatusPending)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = EventForStatus("cancelled")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRequestIsNotAnAppointmentTransition(t *testing.T) {
	_, err := Plan(EventRequest, model.AppointmentStatusPending)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(err))
}
