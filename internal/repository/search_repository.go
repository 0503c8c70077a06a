package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
)

// SearchRepository проекции только для чтения
type SearchRepository struct {
	*base.Repository
}

func NewSearchRepository(db base.DBTX) *SearchRepository {
	return &SearchRepository{Repository: base.NewRepository(db)}
}

// Search ищет свободные слоты по фильтру. Пустые поля фильтра не применяются.
func (r *SearchRepository) Search(ctx context.Context, filter model.SearchFilter) ([]*model.AvailableSlot, error) {
	conditions := []string{"a.status = 'available'"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Subject != "" {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM tutor_subjects fts
			JOIN subjects fs ON fts.subject_id = fs.subject_id
			WHERE fts.tutor_id = a.tutor_id AND fs.subject_name = `+arg(filter.Subject)+`
		)`)
	}
	if filter.TutorName != "" {
		conditions = append(conditions, "strpos(lower(u.full_name), lower("+arg(filter.TutorName)+")) > 0")
	}
	if filter.Date != nil {
		conditions = append(conditions, "a.available_date = "+arg(filter.Date.String())+"::date")
	}
	if filter.Time != nil {
		p := arg(filter.Time.SQL())
		conditions = append(conditions, "a.start_time <= "+p+"::time AND a.end_time >= "+p+"::time")
	}

	query := `
		SELECT
			a.availability_id,
			a.tutor_id,
			a.available_date::text,
			a.start_time::text,
			a.end_time::text,
			a.status,
			u.full_name,
			COALESCE((
				SELECT array_agg(DISTINCT s.subject_name ORDER BY s.subject_name)
				FROM tutor_subjects ts
				JOIN subjects s ON ts.subject_id = s.subject_id
				WHERE ts.tutor_id = a.tutor_id
			), '{}'::text[])
		FROM availability a
		JOIN users u ON a.tutor_id = u.user_id
		WHERE ` + strings.Join(conditions, "\n\t\t  AND ") + `
		ORDER BY a.available_date, a.start_time, a.availability_id
	`

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search availability: %w", err)
	}

	return base.CollectRows(rows, func(row pgx.Rows) (*model.AvailableSlot, error) {
		var s model.AvailableSlot
		err := row.Scan(
			&s.ID,
			&s.TutorID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.Status,
			&s.TutorName,
			&s.Subjects,
		)
		if err != nil {
			return nil, fmt.Errorf("scan available slot: %w", err)
		}
		return &s, nil
	})
}

// AdminAvailability все слоты с активной записью (если есть), новые даты первыми
func (r *SearchRepository) AdminAvailability(ctx context.Context) ([]*model.AdminSlotView, error) {
	query := `
		SELECT
			a.availability_id,
			a.tutor_id,
			a.available_date::text,
			a.start_time::text,
			a.end_time::text,
			a.status,
			tut.full_name,
			ap.appointment_id,
			ap.status,
			s.subject_name,
			stu.full_name
		FROM availability a
		JOIN users tut ON a.tutor_id = tut.user_id
		LEFT JOIN appointments ap
			ON ap.availability_id = a.availability_id
			AND ap.status IN ('pending', 'accepted')
		LEFT JOIN subjects s ON ap.subject_id = s.subject_id
		LEFT JOIN users stu ON ap.student_id = stu.user_id
		ORDER BY a.available_date DESC, a.start_time DESC, a.availability_id DESC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get admin availability: %w", err)
	}

	return base.CollectRows(rows, func(row pgx.Rows) (*model.AdminSlotView, error) {
		var (
			v         model.AdminSlotView
			apptState *string
		)
		err := row.Scan(
			&v.ID,
			&v.TutorID,
			&v.Date,
			&v.StartTime,
			&v.EndTime,
			&v.Status,
			&v.TutorName,
			&v.AppointmentID,
			&apptState,
			&v.SubjectName,
			&v.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan admin slot: %w", err)
		}
		if apptState != nil {
			status := model.AppointmentStatus(*apptState)
			v.AppointmentStatus = &status
		}
		return &v, nil
	})
}

// Count выполняет запрос вида SELECT COUNT(*) ...
func (r *SearchRepository) Count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
