package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
)

const slotColumns = `availability_id, tutor_id, available_date::text, start_time::text, end_time::text, status`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(db base.DBTX) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(db)}
}

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.TutorID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO availability (tutor_id, available_date, start_time, end_time, status)
		VALUES ($1, $2::date, $3::time, $4::time, $5)
		RETURNING availability_id
	`

	err := r.QueryRow(
		ctx, query,
		slot.TutorID,
		slot.Date.String(),
		slot.StartTime.SQL(),
		slot.EndTime.SQL(),
		string(slot.Status),
	).Scan(&slot.ID)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create slot: %w", ErrDuplicate)
		}
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability WHERE availability_id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// ListByTutor получает слоты тьютора в указанных статусах
func (r *SlotRepository) ListByTutor(ctx context.Context, tutorID int64, statuses []model.SlotStatus) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability
		WHERE tutor_id = $1
		  AND status = ANY($2::text[])
		ORDER BY available_date, start_time
	`

	rows, err := r.Query(ctx, query, tutorID, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("get slots by tutor: %w", err)
	}

	return base.CollectRows(rows, func(row pgx.Rows) (*model.Slot, error) {
		slot, err := scanSlot(row)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		return slot, nil
	})
}

// Exists проверяет существование слота тьютора на эту дату и время начала
func (r *SlotRepository) Exists(ctx context.Context, tutorID int64, date model.Date, start model.ClockTime) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM availability
			WHERE tutor_id = $1 AND available_date = $2::date AND start_time = $3::time
		)
	`

	exists, err := r.Repository.Exists(ctx, query, tutorID, date.String(), start.SQL())
	if err != nil {
		return false, fmt.Errorf("check slot exists: %w", err)
	}

	return exists, nil
}

// SwapStatus атомарно меняет статус слота, если текущий статус входит в from.
// Одна команда UPDATE, без отдельного чтения: из двух конкурентных запросов
// строку получит только первый, второй увидит 0 затронутых строк.
func (r *SlotRepository) SwapStatus(ctx context.Context, id int64, from []model.SlotStatus, to model.SlotStatus) (bool, error) {
	query := `
		UPDATE availability
		SET status = $2
		WHERE availability_id = $1 AND status = ANY($3::text[])
	`

	affected, err := r.ExecAffected(ctx, query, id, string(to), statusStrings(from))
	if err != nil {
		return false, fmt.Errorf("swap slot status: %w", err)
	}

	return affected == 1, nil
}

// HasAppointments проверяет ссылается ли на слот хоть одна запись
func (r *SlotRepository) HasAppointments(ctx context.Context, id int64) (bool, error) {
	used, err := r.Repository.Exists(ctx, `SELECT EXISTS(SELECT 1 FROM appointments WHERE availability_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check slot appointments: %w", err)
	}
	return used, nil
}

// Delete удаляет слот
func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM availability WHERE availability_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("slot not found")
	}
	return nil
}

func statusStrings[S ~string](statuses []S) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
