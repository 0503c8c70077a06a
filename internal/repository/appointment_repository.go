package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
)

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(db base.DBTX) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(db)}
}

// Create создаёт новую запись. Частичный уникальный индекс по availability_id
// не даёт появиться второй активной записи на тот же слот.
func (r *AppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (student_id, tutor_id, subject_id, availability_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING appointment_id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		appt.StudentID,
		appt.TutorID,
		appt.SubjectID,
		appt.AvailabilityID,
		string(appt.Status),
	).Scan(&appt.ID, &appt.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create appointment: %w", ErrDuplicate)
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetDetails получает запись вместе со слотом, предметом и участниками
func (r *AppointmentRepository) GetDetails(ctx context.Context, id int64) (*model.AppointmentDetails, error) {
	query := `
		SELECT
			ap.appointment_id,
			ap.student_id,
			ap.tutor_id,
			ap.subject_id,
			ap.availability_id,
			ap.status,
			ap.created_at,
			a.status,
			a.available_date::text,
			a.start_time::text,
			s.subject_name,
			stu.full_name,
			tut.full_name,
			stu.telegram_chat_id,
			tut.telegram_chat_id
		FROM appointments ap
		JOIN availability a ON ap.availability_id = a.availability_id
		JOIN subjects s ON ap.subject_id = s.subject_id
		JOIN users stu ON ap.student_id = stu.user_id
		JOIN users tut ON ap.tutor_id = tut.user_id
		WHERE ap.appointment_id = $1
	`

	var d model.AppointmentDetails
	err := r.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.StudentID,
		&d.TutorID,
		&d.SubjectID,
		&d.AvailabilityID,
		&d.Status,
		&d.CreatedAt,
		&d.SlotStatus,
		&d.Date,
		&d.StartTime,
		&d.SubjectName,
		&d.StudentName,
		&d.TutorName,
		&d.StudentChatID,
		&d.TutorChatID,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment details: %w", err)
	}

	return &d, nil
}

// SwapStatus меняет статус записи, если текущий статус входит в from
func (r *AppointmentRepository) SwapStatus(ctx context.Context, id int64, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $2
		WHERE appointment_id = $1 AND status = ANY($3::text[])
	`

	affected, err := r.ExecAffected(ctx, query, id, string(to), statusStrings(from))
	if err != nil {
		if base.IsUniqueViolation(err) {
			return false, fmt.Errorf("swap appointment status: %w", ErrDuplicate)
		}
		return false, fmt.Errorf("swap appointment status: %w", err)
	}

	return affected == 1, nil
}

// ListUpcoming получает активные записи студента или тьютора.
// counterpart - имя второй стороны.
func (r *AppointmentRepository) ListUpcoming(ctx context.Context, userID int64, role model.Role) ([]*model.UpcomingAppointment, error) {
	ownColumn, counterpartColumn := "ap.student_id", "ap.tutor_id"
	if role == model.RoleTutor {
		ownColumn, counterpartColumn = "ap.tutor_id", "ap.student_id"
	}

	query := `
		SELECT
			ap.appointment_id,
			ap.status,
			a.availability_id,
			a.available_date::text,
			a.start_time::text,
			a.end_time::text,
			s.subject_name,
			cp.full_name
		FROM appointments ap
		JOIN availability a ON ap.availability_id = a.availability_id
		JOIN subjects s ON ap.subject_id = s.subject_id
		JOIN users cp ON ` + counterpartColumn + ` = cp.user_id
		WHERE ` + ownColumn + ` = $1
		  AND ap.status IN ('pending', 'accepted')
		ORDER BY a.available_date, a.start_time, ap.appointment_id
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get upcoming appointments: %w", err)
	}

	return base.CollectRows(rows, func(row pgx.Rows) (*model.UpcomingAppointment, error) {
		var u model.UpcomingAppointment
		err := row.Scan(
			&u.AppointmentID,
			&u.Status,
			&u.AvailabilityID,
			&u.Date,
			&u.StartTime,
			&u.EndTime,
			&u.SubjectName,
			&u.CounterpartName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan upcoming appointment: %w", err)
		}
		return &u, nil
	})
}

// ListByTutor получает все записи тьютора: сначала pending, затем accepted,
// declined, completed; внутри группы - новые первыми
func (r *AppointmentRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.TutorAppointment, error) {
	query := `
		SELECT
			ap.appointment_id,
			ap.status,
			ap.created_at,
			a.availability_id,
			a.available_date::text,
			a.start_time::text,
			a.end_time::text,
			s.subject_name,
			stu.full_name
		FROM appointments ap
		JOIN users stu ON ap.student_id = stu.user_id
		JOIN availability a ON ap.availability_id = a.availability_id
		JOIN subjects s ON ap.subject_id = s.subject_id
		WHERE ap.tutor_id = $1
		ORDER BY
			CASE ap.status
				WHEN 'pending' THEN 0
				WHEN 'accepted' THEN 1
				WHEN 'declined' THEN 2
				WHEN 'completed' THEN 3
				ELSE 4
			END,
			ap.created_at DESC,
			ap.appointment_id DESC
	`

	rows, err := r.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by tutor: %w", err)
	}

	return base.CollectRows(rows, func(row pgx.Rows) (*model.TutorAppointment, error) {
		var t model.TutorAppointment
		err := row.Scan(
			&t.AppointmentID,
			&t.Status,
			&t.CreatedAt,
			&t.AvailabilityID,
			&t.Date,
			&t.StartTime,
			&t.EndTime,
			&t.SubjectName,
			&t.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tutor appointment: %w", err)
		}
		return &t, nil
	})
}
