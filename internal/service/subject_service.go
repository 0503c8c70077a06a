package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
)

// SubjectService каталог предметов и привязка предметов к тьюторам
type SubjectService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewSubjectService(store repository.Store, logger *zap.Logger) *SubjectService {
	return &SubjectService{
		store:  store,
		logger: logger,
	}
}

func (s *SubjectService) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	subjects, err := s.store.ListSubjects(ctx)
	if err != nil {
		return nil, storeError("list subjects", err)
	}
	return subjects, nil
}

func (s *SubjectService) TutorSubjects(ctx context.Context, tutorID int64) ([]*model.Subject, error) {
	if err := requireID("tutor_id", tutorID); err != nil {
		return nil, err
	}

	subjects, err := s.store.TutorSubjects(ctx, tutorID)
	if err != nil {
		return nil, storeError("list tutor subjects", err)
	}
	return subjects, nil
}

// AddSubject создаёт предмет; имя обрезается по краям
func (s *SubjectService) AddSubject(ctx context.Context, name string) (*model.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("subject_name is required")
	}

	subject := &model.Subject{Name: name}
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.CreateSubject(ctx, subject); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("subject %q already exists", name)
			}
			return storeError("create subject", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subject added",
		zap.Int64("subject_id", subject.ID),
		zap.String("name", subject.Name),
	)
	return subject, nil
}

// DeleteSubject удаляет предмет, если на него никто не ссылается
func (s *SubjectService) DeleteSubject(ctx context.Context, subjectID int64) error {
	if err := requireID("subject_id", subjectID); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		subject, err := tx.GetSubject(ctx, subjectID)
		if err != nil {
			return storeError("get subject", err)
		}
		if subject == nil {
			return apperr.NotFound("subject %d not found", subjectID)
		}

		used, err := tx.SubjectReferenced(ctx, subjectID)
		if err != nil {
			return storeError("check subject references", err)
		}
		if used {
			return apperr.Conflict("subject %q is used by tutors or appointments", subject.Name)
		}

		if err := tx.DeleteSubject(ctx, subjectID); err != nil {
			return storeError("delete subject", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Subject deleted", zap.Int64("subject_id", subjectID))
	return nil
}

// SaveTutorSubjects привязывает предметы к тьютору; незнакомые названия
// создаются. Возвращает полный список предметов тьютора.
func (s *SubjectService) SaveTutorSubjects(ctx context.Context, tutorID int64, names []string) ([]*model.Subject, error) {
	if err := requireID("tutor_id", tutorID); err != nil {
		return nil, err
	}

	var cleaned []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperr.Validation("at least one subject name is required")
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		tutor, err := tx.GetUser(ctx, tutorID)
		if err != nil {
			return storeError("get tutor", err)
		}
		if tutor == nil {
			return apperr.NotFound("tutor %d not found", tutorID)
		}
		if tutor.Role != model.RoleTutor {
			return apperr.Validation("user %d is not a tutor", tutorID)
		}

		for _, name := range cleaned {
			subject, err := tx.GetSubjectByName(ctx, name)
			if err != nil {
				return storeError("get subject", err)
			}
			if subject == nil {
				subject = &model.Subject{Name: name}
				if err := tx.CreateSubject(ctx, subject); err != nil {
					if errors.Is(err, repository.ErrDuplicate) {
						return apperr.Conflict("subject %q was just created, retry", name)
					}
					return storeError("create subject", err)
				}
			}
			if err := tx.LinkTutorSubject(ctx, tutorID, subject.ID); err != nil {
				return storeError("link tutor subject", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tutor subjects saved",
		zap.Int64("tutor_id", tutorID),
		zap.Strings("subjects", cleaned),
	)

	return s.TutorSubjects(ctx, tutorID)
}
