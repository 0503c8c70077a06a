package model

import "time"

// SearchFilter фильтры поиска свободных слотов; nil/пустые поля не применяются
type SearchFilter struct {
	Subject   string
	TutorName string
	Date      *Date
	Time      *ClockTime
}

// AvailableSlot свободный слот с именем тьютора и его предметами
type AvailableSlot struct {
	Slot
	TutorName string   `json:"tutor_name"`
	Subjects  []string `json:"subjects"`
}

// UpcomingAppointment активная запись с точки зрения студента или тьютора
type UpcomingAppointment struct {
	AppointmentID   int64             `json:"appointment_id"`
	Status          AppointmentStatus `json:"status"`
	AvailabilityID  int64             `json:"availability_id"`
	Date            Date              `json:"available_date"`
	StartTime       ClockTime         `json:"start_time"`
	EndTime         ClockTime         `json:"end_time"`
	SubjectName     string            `json:"subject_name"`
	CounterpartName string            `json:"counterpart_name"`
	Location        string            `json:"location,omitempty"`
}

// TutorAppointment запрос на занятие в списке тьютора
type TutorAppointment struct {
	AppointmentID  int64             `json:"appointment_id"`
	Status         AppointmentStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	AvailabilityID int64             `json:"availability_id"`
	Date           Date              `json:"available_date"`
	StartTime      ClockTime         `json:"start_time"`
	EndTime        ClockTime         `json:"end_time"`
	SubjectName    string            `json:"subject_name"`
	StudentName    string            `json:"student_name"`
}

// AdminSlotView слот с активной записью, если она есть
type AdminSlotView struct {
	Slot
	TutorName         string             `json:"tutor_name"`
	AppointmentID     *int64             `json:"appointment_id"`
	AppointmentStatus *AppointmentStatus `json:"appointment_status"`
	SubjectName       *string            `json:"subject_name"`
	StudentName       *string            `json:"student_name"`
}

type AdminSummary struct {
	TotalUsers           int64 `json:"total_users"`
	TotalStudents        int64 `json:"total_students"`
	TotalTutors          int64 `json:"total_tutors"`
	TotalAppointments    int64 `json:"total_appointments"`
	ActiveAppointments   int64 `json:"active_appointments"`
	PendingAppointments  int64 `json:"pending_appointments"`
	AcceptedAppointments int64 `json:"accepted_appointments"`
}
