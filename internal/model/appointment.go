package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает решения тьютора
	AppointmentStatusAccepted  AppointmentStatus = "accepted"  // Подтверждено
	AppointmentStatusDeclined  AppointmentStatus = "declined"  // Отклонено тьютором или отменено админом
	AppointmentStatusCompleted AppointmentStatus = "completed" // Завершено
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusAccepted, AppointmentStatusDeclined, AppointmentStatusCompleted:
		return true
	}
	return false
}

// IsActive true для pending и accepted
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusAccepted
}

type Appointment struct {
	ID             int64             `json:"appointment_id"`
	StudentID      int64             `json:"student_id"`
	TutorID        int64             `json:"tutor_id"`
	SubjectID      int64             `json:"subject_id"`
	AvailabilityID int64             `json:"availability_id"`
	Status         AppointmentStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}

// AppointmentDetails запись вместе со слотом, предметом и участниками.
// Используется для переходов и текстов уведомлений.
type AppointmentDetails struct {
	Appointment

	SlotStatus    SlotStatus
	Date          Date
	StartTime     ClockTime
	SubjectName   string
	StudentName   string
	TutorName     string
	StudentChatID *int64
	TutorChatID   *int64
}

// ChatIDFor возвращает Telegram chat id участника записи
func (d *AppointmentDetails) ChatIDFor(userID int64) *int64 {
	switch userID {
	case d.StudentID:
		return d.StudentChatID
	case d.TutorID:
		return d.TutorChatID
	}
	return nil
}
