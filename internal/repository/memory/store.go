// Package memory implements repository.Store in process memory. Each
// transaction works on a private copy of the state and the copy replaces the
// live state only when fn returns nil, so a failed transaction leaves no trace.
// Transactions are serialised by a single mutex.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
)

type sequences struct {
	user, subject, slot, appointment, notification int64
}

type state struct {
	users         map[int64]model.User
	subjects      map[int64]model.Subject
	tutorSubjects map[int64]map[int64]struct{}
	slots         map[int64]model.Slot
	appointments  map[int64]model.Appointment
	notifications map[int64]model.Notification
	seq           sequences
}

func newState() state {
	return state{
		users:         map[int64]model.User{},
		subjects:      map[int64]model.Subject{},
		tutorSubjects: map[int64]map[int64]struct{}{},
		slots:         map[int64]model.Slot{},
		appointments:  map[int64]model.Appointment{},
		notifications: map[int64]model.Notification{},
	}
}

func (s state) clone() state {
	out := state{
		users:         make(map[int64]model.User, len(s.users)),
		subjects:      make(map[int64]model.Subject, len(s.subjects)),
		tutorSubjects: make(map[int64]map[int64]struct{}, len(s.tutorSubjects)),
		slots:         make(map[int64]model.Slot, len(s.slots)),
		appointments:  make(map[int64]model.Appointment, len(s.appointments)),
		notifications: make(map[int64]model.Notification, len(s.notifications)),
		seq:           s.seq,
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.subjects {
		out.subjects[k] = v
	}
	for tutor, set := range s.tutorSubjects {
		cp := make(map[int64]struct{}, len(set))
		for id := range set {
			cp[id] = struct{}{}
		}
		out.tutorSubjects[tutor] = cp
	}
	for k, v := range s.slots {
		out.slots[k] = v
	}
	for k, v := range s.appointments {
		out.appointments[k] = v
	}
	for k, v := range s.notifications {
		out.notifications[k] = v
	}
	return out
}

// Store in-memory реализация repository.Store
type Store struct {
	mu    sync.RWMutex
	state state
	nowFn func() time.Time
}

func New() *Store {
	return &Store{state: newState(), nowFn: time.Now}
}

// SetNow подменяет часы; используется в тестах для детерминированного created_at
func (s *Store) SetNow(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// CreateUser добавляет пользователя; регистрация вне ядра, метод для сидов и тестов
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.state.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("create user: %w", repository.ErrDuplicate)
		}
	}
	s.state.seq.user++
	user.ID = s.state.seq.user
	user.CreatedAt = s.nowFn()
	s.state.users[user.ID] = *user
	return nil
}

func (s *Store) WithTx(_ context.Context, fn func(tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{state: s.state.clone(), now: s.nowFn()}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) GetUser(_ context.Context, id int64) (u *model.User, _ error) {
	s.read(func(st *state) { u = st.user(id) })
	return u, nil
}

func (s *Store) GetSubject(_ context.Context, id int64) (sub *model.Subject, _ error) {
	s.read(func(st *state) { sub = st.subject(id) })
	return sub, nil
}

func (s *Store) GetSubjectByName(_ context.Context, name string) (sub *model.Subject, _ error) {
	s.read(func(st *state) { sub = st.subjectByName(name) })
	return sub, nil
}

func (s *Store) GetSlot(_ context.Context, id int64) (slot *model.Slot, _ error) {
	s.read(func(st *state) { slot = st.slot(id) })
	return slot, nil
}

func (s *Store) GetAppointmentDetails(_ context.Context, id int64) (d *model.AppointmentDetails, _ error) {
	s.read(func(st *state) { d = st.details(id) })
	return d, nil
}

func (s *Store) SearchAvailability(_ context.Context, filter model.SearchFilter) ([]*model.AvailableSlot, error) {
	out := []*model.AvailableSlot{}
	s.read(func(st *state) {
		for _, slot := range st.slots {
			if slot.Status != model.SlotStatusAvailable {
				continue
			}
			tutor := st.users[slot.TutorID]
			subjects := st.subjectNames(slot.TutorID)

			if filter.Subject != "" && !slices.Contains(subjects, filter.Subject) {
				continue
			}
			if filter.TutorName != "" && !strings.Contains(strings.ToLower(tutor.FullName), strings.ToLower(filter.TutorName)) {
				continue
			}
			if filter.Date != nil && slot.Date.Compare(*filter.Date) != 0 {
				continue
			}
			if filter.Time != nil && !slot.Contains(*filter.Time) {
				continue
			}
			out = append(out, &model.AvailableSlot{Slot: slot, TutorName: tutor.FullName, Subjects: subjects})
		}
	})

	slices.SortFunc(out, func(a, b *model.AvailableSlot) int {
		return compareSlots(&a.Slot, &b.Slot)
	})
	return out, nil
}

func (s *Store) UpcomingAppointments(_ context.Context, userID int64, role model.Role) ([]*model.UpcomingAppointment, error) {
	type row struct {
		view *model.UpcomingAppointment
		slot model.Slot
	}
	var rows []row

	s.read(func(st *state) {
		for _, a := range st.appointments {
			if !a.Status.IsActive() {
				continue
			}
			own, counterpart := a.StudentID, a.TutorID
			if role == model.RoleTutor {
				own, counterpart = a.TutorID, a.StudentID
			}
			if own != userID {
				continue
			}
			slot := st.slots[a.AvailabilityID]
			rows = append(rows, row{
				slot: slot,
				view: &model.UpcomingAppointment{
					AppointmentID:   a.ID,
					Status:          a.Status,
					AvailabilityID:  slot.ID,
					Date:            slot.Date,
					StartTime:       slot.StartTime,
					EndTime:         slot.EndTime,
					SubjectName:     st.subjects[a.SubjectID].Name,
					CounterpartName: st.users[counterpart].FullName,
				},
			})
		}
	})

	slices.SortFunc(rows, func(a, b row) int {
		return cmp.Or(
			a.slot.Date.Compare(b.slot.Date),
			cmp.Compare(a.slot.StartTime, b.slot.StartTime),
			cmp.Compare(a.view.AppointmentID, b.view.AppointmentID),
		)
	})

	out := make([]*model.UpcomingAppointment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view)
	}
	return out, nil
}

var statusRank = map[model.AppointmentStatus]int{
	model.AppointmentStatusPending:   0,
	model.AppointmentStatusAccepted:  1,
	model.AppointmentStatusDeclined:  2,
	model.AppointmentStatusCompleted: 3,
}

func (s *Store) TutorAppointments(_ context.Context, tutorID int64) ([]*model.TutorAppointment, error) {
	out := []*model.TutorAppointment{}
	s.read(func(st *state) {
		for _, a := range st.appointments {
			if a.TutorID != tutorID {
				continue
			}
			slot := st.slots[a.AvailabilityID]
			out = append(out, &model.TutorAppointment{
				AppointmentID:  a.ID,
				Status:         a.Status,
				CreatedAt:      a.CreatedAt,
				AvailabilityID: slot.ID,
				Date:           slot.Date,
				StartTime:      slot.StartTime,
				EndTime:        slot.EndTime,
				SubjectName:    st.subjects[a.SubjectID].Name,
				StudentName:    st.users[a.StudentID].FullName,
			})
		}
	})

	slices.SortFunc(out, func(a, b *model.TutorAppointment) int {
		return cmp.Or(
			cmp.Compare(statusRank[a.Status], statusRank[b.Status]),
			b.CreatedAt.Compare(a.CreatedAt),
			cmp.Compare(b.AppointmentID, a.AppointmentID),
		)
	})
	return out, nil
}

func (s *Store) TutorAvailability(_ context.Context, tutorID int64) ([]*model.Slot, error) {
	out := []*model.Slot{}
	s.read(func(st *state) {
		for _, slot := range st.slots {
			if slot.TutorID == tutorID && slot.Status != model.SlotStatusBooked {
				out = append(out, &slot)
			}
		}
	})
	slices.SortFunc(out, compareSlots)
	return out, nil
}

func (s *Store) AdminAvailability(context.Context) ([]*model.AdminSlotView, error) {
	out := []*model.AdminSlotView{}
	s.read(func(st *state) {
		for _, slot := range st.slots {
			v := &model.AdminSlotView{Slot: slot, TutorName: st.users[slot.TutorID].FullName}
			if a := st.activeAppointment(slot.ID); a != nil {
				id, status := a.ID, a.Status
				subject := st.subjects[a.SubjectID].Name
				student := st.users[a.StudentID].FullName
				v.AppointmentID = &id
				v.AppointmentStatus = &status
				v.SubjectName = &subject
				v.StudentName = &student
			}
			out = append(out, v)
		}
	})
	slices.SortFunc(out, func(a, b *model.AdminSlotView) int {
		return compareSlots(&b.Slot, &a.Slot)
	})
	return out, nil
}

func (s *Store) AdminSummary(context.Context) (*model.AdminSummary, error) {
	var sum model.AdminSummary
	s.read(func(st *state) {
		for _, u := range st.users {
			sum.TotalUsers++
			switch u.Role {
			case model.RoleStudent:
				sum.TotalStudents++
			case model.RoleTutor:
				sum.TotalTutors++
			}
		}
		for _, a := range st.appointments {
			sum.TotalAppointments++
			switch a.Status {
			case model.AppointmentStatusPending:
				sum.PendingAppointments++
				sum.ActiveAppointments++
			case model.AppointmentStatusAccepted:
				sum.AcceptedAppointments++
				sum.ActiveAppointments++
			}
		}
	})
	return &sum, nil
}

func (s *Store) ListSubjects(context.Context) ([]*model.Subject, error) {
	out := []*model.Subject{}
	s.read(func(st *state) {
		for _, sub := range st.subjects {
			out = append(out, &sub)
		}
	})
	slices.SortFunc(out, compareSubjects)
	return out, nil
}

func (s *Store) TutorSubjects(_ context.Context, tutorID int64) ([]*model.Subject, error) {
	out := []*model.Subject{}
	s.read(func(st *state) {
		for id := range st.tutorSubjects[tutorID] {
			sub := st.subjects[id]
			out = append(out, &sub)
		}
	})
	slices.SortFunc(out, compareSubjects)
	return out, nil
}

func (s *Store) ListNotifications(_ context.Context, userID int64, limit int) ([]*model.Notification, error) {
	out := []*model.Notification{}
	s.read(func(st *state) {
		for _, n := range st.notifications {
			if n.UserID == userID {
				out = append(out, &n)
			}
		}
	})
	slices.SortFunc(out, func(a, b *model.Notification) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CountUnread(_ context.Context, userID int64) (count int, _ error) {
	s.read(func(st *state) {
		for _, n := range st.notifications {
			if n.UserID == userID && n.Status == model.NotificationStatusUnread {
				count++
			}
		}
	})
	return count, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.state.notifications[id]
	if !ok {
		return false, nil
	}
	n.Status = model.NotificationStatusRead
	s.state.notifications[id] = n
	return true, nil
}

// Slots копия всех слотов, для проверок инвариантов в тестах
func (s *Store) Slots() []model.Slot {
	var out []model.Slot
	s.read(func(st *state) {
		for _, slot := range st.slots {
			out = append(out, slot)
		}
	})
	slices.SortFunc(out, func(a, b model.Slot) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Appointments копия всех записей
func (s *Store) Appointments() []model.Appointment {
	var out []model.Appointment
	s.read(func(st *state) {
		for _, a := range st.appointments {
			out = append(out, a)
		}
	})
	slices.SortFunc(out, func(a, b model.Appointment) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Notifications копия всех уведомлений
func (s *Store) Notifications() []model.Notification {
	var out []model.Notification
	s.read(func(st *state) {
		for _, n := range st.notifications {
			out = append(out, n)
		}
	})
	slices.SortFunc(out, func(a, b model.Notification) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func compareSlots(a, b *model.Slot) int {
	return cmp.Or(
		a.Date.Compare(b.Date),
		cmp.Compare(a.StartTime, b.StartTime),
		cmp.Compare(a.ID, b.ID),
	)
}

func compareSubjects(a, b *model.Subject) int {
	return cmp.Compare(a.Name, b.Name)
}

func (st *state) user(id int64) *model.User {
	u, ok := st.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (st *state) subject(id int64) *model.Subject {
	sub, ok := st.subjects[id]
	if !ok {
		return nil
	}
	return &sub
}

func (st *state) subjectByName(name string) *model.Subject {
	for _, sub := range st.subjects {
		if sub.Name == name {
			return &sub
		}
	}
	return nil
}

func (st *state) slot(id int64) *model.Slot {
	slot, ok := st.slots[id]
	if !ok {
		return nil
	}
	return &slot
}

func (st *state) subjectNames(tutorID int64) []string {
	names := []string{}
	for id := range st.tutorSubjects[tutorID] {
		names = append(names, st.subjects[id].Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func (st *state) activeAppointment(slotID int64) *model.Appointment {
	for _, a := range st.appointments {
		if a.AvailabilityID == slotID && a.Status.IsActive() {
			return &a
		}
	}
	return nil
}

func (st *state) details(id int64) *model.AppointmentDetails {
	a, ok := st.appointments[id]
	if !ok {
		return nil
	}
	slot := st.slots[a.AvailabilityID]
	student := st.users[a.StudentID]
	tutor := st.users[a.TutorID]
	return &model.AppointmentDetails{
		Appointment:   a,
		SlotStatus:    slot.Status,
		Date:          slot.Date,
		StartTime:     slot.StartTime,
		SubjectName:   st.subjects[a.SubjectID].Name,
		StudentName:   student.FullName,
		TutorName:     tutor.FullName,
		StudentChatID: student.TelegramChatID,
		TutorChatID:   tutor.TelegramChatID,
	}
}

var _ repository.Store = (*Store)(nil)
