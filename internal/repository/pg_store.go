package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
)

// repos набор репозиториев поверх пула или транзакции
type repos struct {
	users         *UserRepository
	subjects      *SubjectRepository
	slots         *SlotRepository
	appointments  *AppointmentRepository
	notifications *NotificationRepository
	search        *SearchRepository
}

func newRepos(db base.DBTX) repos {
	return repos{
		users:         NewUserRepository(db),
		subjects:      NewSubjectRepository(db),
		slots:         NewSlotRepository(db),
		appointments:  NewAppointmentRepository(db),
		notifications: NewNotificationRepository(db),
		search:        NewSearchRepository(db),
	}
}

func (r repos) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return r.users.GetByID(ctx, id)
}

func (r repos) GetSubject(ctx context.Context, id int64) (*model.Subject, error) {
	return r.subjects.GetByID(ctx, id)
}

func (r repos) GetSubjectByName(ctx context.Context, name string) (*model.Subject, error) {
	return r.subjects.GetByName(ctx, name)
}

func (r repos) GetSlot(ctx context.Context, id int64) (*model.Slot, error) {
	return r.slots.GetByID(ctx, id)
}

func (r repos) GetAppointmentDetails(ctx context.Context, id int64) (*model.AppointmentDetails, error) {
	return r.appointments.GetDetails(ctx, id)
}

// PgStore хранилище поверх PostgreSQL
type PgStore struct {
	repos
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{
		repos: newRepos(pool),
		pool:  pool,
	}
}

// CreateUser нужен для сидов и интеграционных тестов
func (s *PgStore) CreateUser(ctx context.Context, user *model.User) error {
	return s.users.Create(ctx, user)
}

// WithTx выполняет fn в транзакции. Репозитории внутри fn работают
// через ту же транзакцию, что и commit/rollback.
func (s *PgStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{repos: newRepos(tx)})
	})
}

func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PgStore) SearchAvailability(ctx context.Context, filter model.SearchFilter) ([]*model.AvailableSlot, error) {
	return s.search.Search(ctx, filter)
}

func (s *PgStore) UpcomingAppointments(ctx context.Context, userID int64, role model.Role) ([]*model.UpcomingAppointment, error) {
	return s.appointments.ListUpcoming(ctx, userID, role)
}

func (s *PgStore) TutorAppointments(ctx context.Context, tutorID int64) ([]*model.TutorAppointment, error) {
	return s.appointments.ListByTutor(ctx, tutorID)
}

func (s *PgStore) TutorAvailability(ctx context.Context, tutorID int64) ([]*model.Slot, error) {
	return s.slots.ListByTutor(ctx, tutorID, []model.SlotStatus{model.SlotStatusAvailable, model.SlotStatusPending})
}

func (s *PgStore) AdminAvailability(ctx context.Context) ([]*model.AdminSlotView, error) {
	return s.search.AdminAvailability(ctx)
}

// AdminSummary считает сводку параллельными запросами к пулу
func (s *PgStore) AdminSummary(ctx context.Context) (*model.AdminSummary, error) {
	var summary model.AdminSummary

	counts := []struct {
		dst   *int64
		query string
	}{
		{&summary.TotalUsers, `SELECT COUNT(*) FROM users`},
		{&summary.TotalStudents, `SELECT COUNT(*) FROM users WHERE role = 'student'`},
		{&summary.TotalTutors, `SELECT COUNT(*) FROM users WHERE role = 'tutor'`},
		{&summary.TotalAppointments, `SELECT COUNT(*) FROM appointments`},
		{&summary.ActiveAppointments, `SELECT COUNT(*) FROM appointments WHERE status IN ('pending', 'accepted')`},
		{&summary.PendingAppointments, `SELECT COUNT(*) FROM appointments WHERE status = 'pending'`},
		{&summary.AcceptedAppointments, `SELECT COUNT(*) FROM appointments WHERE status = 'accepted'`},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		g.Go(func() error {
			n, err := s.search.Count(gctx, c.query)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin summary: %w", err)
	}

	return &summary, nil
}

func (s *PgStore) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	return s.subjects.List(ctx)
}

func (s *PgStore) TutorSubjects(ctx context.Context, tutorID int64) ([]*model.Subject, error) {
	return s.subjects.ListByTutor(ctx, tutorID)
}

func (s *PgStore) ListNotifications(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, limit)
}

func (s *PgStore) CountUnread(ctx context.Context, userID int64) (int, error) {
	return s.notifications.CountUnread(ctx, userID)
}

func (s *PgStore) MarkNotificationRead(ctx context.Context, id int64) (bool, error) {
	return s.notifications.MarkRead(ctx, id)
}

// pgTx операции в рамках одной транзакции
type pgTx struct {
	repos
}

func (t *pgTx) SlotExists(ctx context.Context, tutorID int64, date model.Date, start model.ClockTime) (bool, error) {
	return t.slots.Exists(ctx, tutorID, date, start)
}

func (t *pgTx) CreateSlot(ctx context.Context, slot *model.Slot) error {
	return t.slots.Create(ctx, slot)
}

func (t *pgTx) SlotReferenced(ctx context.Context, id int64) (bool, error) {
	return t.slots.HasAppointments(ctx, id)
}

func (t *pgTx) DeleteSlot(ctx context.Context, id int64) error {
	return t.slots.Delete(ctx, id)
}

func (t *pgTx) SwapSlotStatus(ctx context.Context, id int64, from []model.SlotStatus, to model.SlotStatus) (bool, error) {
	return t.slots.SwapStatus(ctx, id, from, to)
}

func (t *pgTx) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	return t.appointments.Create(ctx, appt)
}

func (t *pgTx) SwapAppointmentStatus(ctx context.Context, id int64, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error) {
	return t.appointments.SwapStatus(ctx, id, from, to)
}

func (t *pgTx) CreateNotifications(ctx context.Context, notifications ...*model.Notification) error {
	return t.notifications.CreateBatch(ctx, notifications...)
}

func (t *pgTx) CreateSubject(ctx context.Context, subject *model.Subject) error {
	return t.subjects.Create(ctx, subject)
}

func (t *pgTx) SubjectReferenced(ctx context.Context, id int64) (bool, error) {
	return t.subjects.IsReferenced(ctx, id)
}

func (t *pgTx) DeleteSubject(ctx context.Context, id int64) error {
	return t.subjects.Delete(ctx, id)
}

func (t *pgTx) LinkTutorSubject(ctx context.Context, tutorID, subjectID int64) error {
	return t.subjects.LinkTutor(ctx, tutorID, subjectID)
}

var (
	_ Store = (*PgStore)(nil)
	_ Tx    = (*pgTx)(nil)
)
