// Package notify builds inbox messages for booking lifecycle events and
// pushes them to connected chat clients.
package notify

import (
	"fmt"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

// Session is everything a lifecycle message can mention.
type Session struct {
	StudentName string
	TutorName   string
	SubjectName string
	Date        model.Date
	Start       model.ClockTime
	Location    string
}

// FormatDate renders "Oct 27, 2025".
func FormatDate(d model.Date) string {
	return d.Time().Format("Jan 2, 2006")
}

// FormatTime renders "2:00 PM".
func FormatTime(t model.ClockTime) string {
	return t.Kitchen()
}

func (s Session) when() string {
	return fmt.Sprintf("on %s at %s", FormatDate(s.Date), FormatTime(s.Start))
}

func SessionRequested(s Session) string {
	student := s.StudentName
	if student == "" {
		student = "A student"
	}
	return fmt.Sprintf("%s requested a %s session %s.", student, s.SubjectName, s.when())
}

func SessionAccepted(s Session) string {
	msg := fmt.Sprintf("%s accepted your %s session %s.", s.TutorName, s.SubjectName, s.when())
	if s.Location != "" {
		msg += fmt.Sprintf(" Location: %s.", s.Location)
	}
	return msg
}

func SessionDeclined(s Session) string {
	return fmt.Sprintf("%s declined your %s session %s.", s.TutorName, s.SubjectName, s.when())
}

func SessionCompleted(s Session) string {
	return fmt.Sprintf("Your %s session with %s %s was marked completed.", s.SubjectName, s.TutorName, s.when())
}

func AdminCancelledForStudent(s Session) string {
	return fmt.Sprintf("An administrator cancelled your %s session %s.", s.SubjectName, s.when())
}

func AdminCancelledForTutor(s Session) string {
	return fmt.Sprintf("An administrator cancelled your %s session with %s %s.", s.SubjectName, s.StudentName, s.when())
}
