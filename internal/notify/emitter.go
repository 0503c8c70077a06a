package notify

import (
	"fmt"

	"github.com/Freeeeeet/tutoring_scheduler/internal/lifecycle"
	"github.com/Freeeeeet/tutoring_scheduler/internal/location"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

// Emitter turns a lifecycle event into one unread notification per affected
// counterpart.
type Emitter struct {
	locator location.Locator
}

func NewEmitter(locator location.Locator) *Emitter {
	if locator == nil {
		locator = location.PrefixTable(nil)
	}
	return &Emitter{locator: locator}
}

// For returns the notifications for ev on appointment d. The location is only
// looked up for accepted sessions.
func (e *Emitter) For(ev lifecycle.Event, d *model.AppointmentDetails) ([]*model.Notification, error) {
	s := Session{
		StudentName: d.StudentName,
		TutorName:   d.TutorName,
		SubjectName: d.SubjectName,
		Date:        d.Date,
		Start:       d.StartTime,
	}

	switch ev {
	case lifecycle.EventRequest:
		return []*model.Notification{unread(d.TutorID, SessionRequested(s))}, nil
	case lifecycle.EventAccept:
		s.Location = e.locator.Locate(d.SubjectName)
		return []*model.Notification{unread(d.StudentID, SessionAccepted(s))}, nil
	case lifecycle.EventDecline:
		return []*model.Notification{unread(d.StudentID, SessionDeclined(s))}, nil
	case lifecycle.EventComplete:
		return []*model.Notification{unread(d.StudentID, SessionCompleted(s))}, nil
	case lifecycle.EventAdminCancel:
		return []*model.Notification{
			unread(d.StudentID, AdminCancelledForStudent(s)),
			unread(d.TutorID, AdminCancelledForTutor(s)),
		}, nil
	default:
		return nil, fmt.Errorf("no notification for event %q", ev)
	}
}

func unread(userID int64, message string) *model.Notification {
	return &model.Notification{
		UserID:  userID,
		Message: message,
		Status:  model.NotificationStatusUnread,
	}
}
