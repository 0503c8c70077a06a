package repository

import (
	"context"
	"errors"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

// ErrDuplicate возвращается при нарушении уникальности (слот тьютора на это
// время, активная запись на слот, имя предмета)
var ErrDuplicate = errors.New("duplicate key")

// Lookup точечные чтения; при отсутствии строки возвращают nil, nil
type Lookup interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetSubject(ctx context.Context, id int64) (*model.Subject, error)
	GetSubjectByName(ctx context.Context, name string) (*model.Subject, error)
	GetSlot(ctx context.Context, id int64) (*model.Slot, error)
	GetAppointmentDetails(ctx context.Context, id int64) (*model.AppointmentDetails, error)
}

// Tx набор операций внутри одной транзакции
type Tx interface {
	Lookup

	SlotExists(ctx context.Context, tutorID int64, date model.Date, start model.ClockTime) (bool, error)
	CreateSlot(ctx context.Context, slot *model.Slot) error
	SlotReferenced(ctx context.Context, id int64) (bool, error)
	DeleteSlot(ctx context.Context, id int64) error
	// SwapSlotStatus меняет статус только если текущий входит в from.
	// false означает что строка не подошла под условие.
	SwapSlotStatus(ctx context.Context, id int64, from []model.SlotStatus, to model.SlotStatus) (bool, error)

	CreateAppointment(ctx context.Context, appt *model.Appointment) error
	SwapAppointmentStatus(ctx context.Context, id int64, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error)

	CreateNotifications(ctx context.Context, notifications ...*model.Notification) error

	CreateSubject(ctx context.Context, subject *model.Subject) error
	SubjectReferenced(ctx context.Context, id int64) (bool, error)
	DeleteSubject(ctx context.Context, id int64) error
	LinkTutorSubject(ctx context.Context, tutorID, subjectID int64) error
}

// Store хранилище: транзакции для изменений и проекции для чтения
type Store interface {
	Lookup

	// WithTx выполняет fn в транзакции; ошибка fn откатывает все изменения
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error

	SearchAvailability(ctx context.Context, filter model.SearchFilter) ([]*model.AvailableSlot, error)
	UpcomingAppointments(ctx context.Context, userID int64, role model.Role) ([]*model.UpcomingAppointment, error)
	TutorAppointments(ctx context.Context, tutorID int64) ([]*model.TutorAppointment, error)
	TutorAvailability(ctx context.Context, tutorID int64) ([]*model.Slot, error)
	AdminAvailability(ctx context.Context) ([]*model.AdminSlotView, error)
	AdminSummary(ctx context.Context) (*model.AdminSummary, error)

	ListSubjects(ctx context.Context) ([]*model.Subject, error)
	TutorSubjects(ctx context.Context, tutorID int64) ([]*model.Subject, error)

	ListNotifications(ctx context.Context, userID int64, limit int) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	// MarkNotificationRead возвращает false если уведомления нет
	MarkNotificationRead(ctx context.Context, id int64) (bool, error)
}
