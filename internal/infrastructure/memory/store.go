// Package memory provides map-backed implementations of the repository ports.
// It mirrors the Postgres schema constraints: unique e-mail, task owner must
// exist, and deleting a user removes its tasks.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-api/internal/domain/repository"
)

type userRow struct {
	user entity.User
	seq  uint64
}

type taskRow struct {
	task entity.Task
	seq  uint64
}

// Store holds users and tasks; safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	seq     uint64
	users   map[string]*userRow
	emails  map[string]string // email -> user id
	tasks   map[string]*taskRow
	nowFunc func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]*userRow),
		emails:  make(map[string]string),
		tasks:   make(map[string]*taskRow),
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the UserRepository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Tasks returns the TaskRepository view of the store.
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

// newestFirst orders by created_at DESC, then insertion order DESC.
func newestFirst(aTime, bTime time.Time, aSeq, bSeq uint64) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aSeq > bSeq
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.emails[u.Email]; taken {
		return repository.ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.nowFunc()
	}
	r.s.users[u.ID] = &userRow{user: *u, seq: r.s.next()}
	r.s.emails[u.Email] = u.ID
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]*userRow, 0, len(r.s.users))
	for _, row := range r.s.users {
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return newestFirst(rows[i].user.CreatedAt, rows[j].user.CreatedAt, rows[i].seq, rows[j].seq)
	})
	out := make([]entity.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.user)
	}
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := row.user
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.s.users[id].user
	return &u, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if owner, taken := r.s.emails[u.Email]; taken && owner != u.ID {
		return repository.ErrDuplicateEmail
	}
	delete(r.s.emails, row.user.Email)
	r.s.emails[u.Email] = u.ID
	// id and created_at are immutable
	row.user.Name = u.Name
	row.user.Email = u.Email
	*u = row.user
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	for tid, t := range r.s.tasks {
		if t.task.UserID == id {
			delete(r.s.tasks, tid)
		}
	}
	delete(r.s.emails, row.user.Email)
	delete(r.s.users, id)
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)

type TaskRepository struct{ s *Store }

// withOwner must be called with the lock held.
func (r *TaskRepository) withOwner(t entity.Task) entity.Task {
	if row, ok := r.s.users[t.UserID]; ok {
		owner := row.user
		t.Owner = &owner
	}
	return t
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[t.UserID]; !ok {
		// foreign key violation
		return repository.ErrNotFound
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.s.nowFunc()
	}
	if t.Status == "" {
		t.Status = entity.TaskStatusPending
	}
	stored := *t
	stored.Owner = nil
	r.s.tasks[t.ID] = &taskRow{task: stored, seq: r.s.next()}
	return nil
}

func (r *TaskRepository) List(_ context.Context) ([]entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]*taskRow, 0, len(r.s.tasks))
	for _, row := range r.s.tasks {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return newestFirst(rows[i].task.CreatedAt, rows[j].task.CreatedAt, rows[i].seq, rows[j].seq)
	})
	out := make([]entity.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.withOwner(row.task))
	}
	return out, nil
}

func (r *TaskRepository) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := r.withOwner(row.task)
	return &t, nil
}

func (r *TaskRepository) Update(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.tasks[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	row.task.Title = t.Title
	row.task.Description = t.Description
	row.task.Status = t.Status
	*t = r.withOwner(row.task)
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
