// Package lifecycle holds the paired slot/appointment state machine.
// Every status change in the booking flow is looked up here; call sites never
// compare status values themselves.
package lifecycle

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

type Event string

const (
	EventRequest     Event = "request"
	EventAccept      Event = "accept"
	EventDecline     Event = "decline"
	EventComplete    Event = "complete"
	EventAdminCancel Event = "admin_cancel"
)

// Transition is one row of the state table. AppointmentFrom is empty for
// EventRequest, which creates the appointment.
type Transition struct {
	Event           Event
	AppointmentFrom []model.AppointmentStatus
	AppointmentTo   model.AppointmentStatus
	SlotFrom        []model.SlotStatus
	SlotTo          model.SlotStatus
	SlotUnchanged   bool

	// rejection prefixes the ConflictError returned when the transition is not allowed.
	rejection string
}

var transitions = map[Event]Transition{
	EventRequest: {
		Event:         EventRequest,
		AppointmentTo: model.AppointmentStatusPending,
		SlotFrom:      []model.SlotStatus{model.SlotStatusAvailable},
		SlotTo:        model.SlotStatusPending,
		rejection:     "slot unavailable",
	},
	EventAccept: {
		Event:           EventAccept,
		AppointmentFrom: []model.AppointmentStatus{model.AppointmentStatusPending},
		AppointmentTo:   model.AppointmentStatusAccepted,
		SlotFrom:        []model.SlotStatus{model.SlotStatusPending},
		SlotTo:          model.SlotStatusBooked,
		rejection:       "cannot accept appointment",
	},
	EventDecline: {
		Event:           EventDecline,
		AppointmentFrom: []model.AppointmentStatus{model.AppointmentStatusPending},
		AppointmentTo:   model.AppointmentStatusDeclined,
		SlotFrom:        []model.SlotStatus{model.SlotStatusPending},
		SlotTo:          model.SlotStatusAvailable,
		rejection:       "cannot decline appointment",
	},
	EventComplete: {
		Event:           EventComplete,
		AppointmentFrom: []model.AppointmentStatus{model.AppointmentStatusAccepted},
		AppointmentTo:   model.AppointmentStatusCompleted,
		SlotFrom:        []model.SlotStatus{model.SlotStatusBooked},
		SlotTo:          model.SlotStatusBooked,
		SlotUnchanged:   true,
		rejection:       "cannot complete appointment",
	},
	EventAdminCancel: {
		Event:           EventAdminCancel,
		AppointmentFrom: []model.AppointmentStatus{model.AppointmentStatusPending, model.AppointmentStatusAccepted},
		AppointmentTo:   model.AppointmentStatusDeclined,
		SlotFrom:        []model.SlotStatus{model.SlotStatusPending, model.SlotStatusBooked},
		SlotTo:          model.SlotStatusAvailable,
		rejection:       "not cancellable",
	},
}

// For returns the table row for ev.
func For(ev Event) (Transition, bool) {
	tr, ok := transitions[ev]
	return tr, ok
}

// EventForStatus maps a tutor-requested status onto an event.
func EventForStatus(status model.AppointmentStatus) (Event, error) {
	switch status {
	case model.AppointmentStatusAccepted:
		return EventAccept, nil
	case model.AppointmentStatusDeclined:
		return EventDecline, nil
	case model.AppointmentStatusCompleted:
		return EventComplete, nil
	default:
		return "", apperr.Validation("invalid status %q: expected accepted, declined or completed", status)
	}
}

// Plan checks that ev may fire on an appointment in status current.
func Plan(ev Event, current model.AppointmentStatus) (Transition, error) {
	tr, ok := transitions[ev]
	if !ok || ev == EventRequest {
		return Transition{}, fmt.Errorf("no appointment transition for event %q", ev)
	}
	if !slices.Contains(tr.AppointmentFrom, current) {
		return Transition{}, apperr.Conflict("%s: appointment is %s, expected %s",
			tr.rejection, current, joinStatuses(tr.AppointmentFrom))
	}
	return tr, nil
}

// PlanRequest checks that a new request may be made against a slot in status current.
func PlanRequest(current model.SlotStatus) (Transition, error) {
	tr := transitions[EventRequest]
	if !tr.AllowsSlot(current) {
		return Transition{}, apperr.Conflict("%s: slot is %s, expected %s",
			tr.rejection, current, joinStatuses(tr.SlotFrom))
	}
	return tr, nil
}

func (t Transition) AllowsSlot(status model.SlotStatus) bool {
	return slices.Contains(t.SlotFrom, status)
}

func (t Transition) ChangesSlot() bool {
	return !t.SlotUnchanged
}

// SlotConflict builds the error for a slot that did not match SlotFrom when
// the guarded update ran.
func (t Transition) SlotConflict(availabilityID int64) error {
	return apperr.Conflict("%s: slot %d is no longer %s",
		t.rejection, availabilityID, joinStatuses(t.SlotFrom))
}

// AppointmentConflict builds the error for an appointment that changed
// between the read and the guarded update.
func (t Transition) AppointmentConflict(appointmentID int64) error {
	return apperr.Conflict("%s: appointment %d is no longer %s",
		t.rejection, appointmentID, joinStatuses(t.AppointmentFrom))
}

func joinStatuses[S ~string](statuses []S) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, " or ")
}
