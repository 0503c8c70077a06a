package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
)

type SubjectRepository struct {
	*base.Repository
}

func NewSubjectRepository(db base.DBTX) *SubjectRepository {
	return &SubjectRepository{Repository: base.NewRepository(db)}
}

func scanSubject(row pgx.Rows) (*model.Subject, error) {
	var subject model.Subject
	if err := row.Scan(&subject.ID, &subject.Name); err != nil {
		return nil, fmt.Errorf("scan subject: %w", err)
	}
	return &subject, nil
}

// Create создаёт новый предмет
func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	query := `
		INSERT INTO subjects (subject_name)
		VALUES ($1)
		RETURNING subject_id
	`

	err := r.QueryRow(ctx, query, subject.Name).Scan(&subject.ID)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create subject: %w", ErrDuplicate)
		}
		return fmt.Errorf("create subject: %w", err)
	}

	return nil
}

// GetByID получает предмет по ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	return r.getOne(ctx, "get subject by id", `
		SELECT subject_id, subject_name
		FROM subjects
		WHERE subject_id = $1
	`, id)
}

// GetByName получает предмет по точному названию
func (r *SubjectRepository) GetByName(ctx context.Context, name string) (*model.Subject, error) {
	return r.getOne(ctx, "get subject by name", `
		SELECT subject_id, subject_name
		FROM subjects
		WHERE subject_name = $1
	`, name)
}

func (r *SubjectRepository) getOne(ctx context.Context, op, query string, arg any) (*model.Subject, error) {
	var subject model.Subject
	err := r.QueryRow(ctx, query, arg).Scan(&subject.ID, &subject.Name)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &subject, nil
}

// List получает все предметы по алфавиту
func (r *SubjectRepository) List(ctx context.Context) ([]*model.Subject, error) {
	rows, err := r.Query(ctx, `
		SELECT subject_id, subject_name
		FROM subjects
		ORDER BY subject_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return base.CollectRows(rows, scanSubject)
}

// ListByTutor получает предметы тьютора
func (r *SubjectRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Subject, error) {
	rows, err := r.Query(ctx, `
		SELECT s.subject_id, s.subject_name
		FROM tutor_subjects ts
		JOIN subjects s ON ts.subject_id = s.subject_id
		WHERE ts.tutor_id = $1
		ORDER BY s.subject_name
	`, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list subjects by tutor: %w", err)
	}
	return base.CollectRows(rows, scanSubject)
}

// IsReferenced проверяет используется ли предмет тьюторами или записями
func (r *SubjectRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	used, err := r.Exists(ctx, `
		SELECT EXISTS (SELECT 1 FROM tutor_subjects WHERE subject_id = $1)
			OR EXISTS (SELECT 1 FROM appointments WHERE subject_id = $1)
	`, id)
	if err != nil {
		return false, fmt.Errorf("check subject references: %w", err)
	}
	return used, nil
}

// Delete удаляет предмет
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM subjects WHERE subject_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("subject not found")
	}
	return nil
}

// LinkTutor привязывает предмет к тьютору; повторная привязка ничего не делает
func (r *SubjectRepository) LinkTutor(ctx context.Context, tutorID, subjectID int64) error {
	_, err := r.ExecAffected(ctx, `
		INSERT INTO tutor_subjects (tutor_id, subject_id)
		VALUES ($1, $2)
		ON CONFLICT (tutor_id, subject_id) DO NOTHING
	`, tutorID, subjectID)
	if err != nil {
		return fmt.Errorf("link tutor subject: %w", err)
	}
	return nil
}
