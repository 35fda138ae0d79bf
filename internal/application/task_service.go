package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-task-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-api/pkg/events"
	"github.com/oksasatya/go-ddd-task-api/pkg/helpers"
)

type TaskService struct {
	Repo      repo.TaskRepository
	Users     *UserService
	Publisher events.Publisher
	Logger    *logrus.Logger
}

func NewTaskService(repo repo.TaskRepository, users *UserService, pub events.Publisher, logger *logrus.Logger) *TaskService {
	if pub == nil {
		pub = events.Nop
	}
	return &TaskService{Repo: repo, Users: users, Publisher: pub, Logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description string
	UserID      string
	// Status defaults to pending when empty.
	Status entity.TaskStatus
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *entity.TaskStatus
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*entity.Task, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, errInvalidStatus
	}
	owner, err := s.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = entity.TaskStatusPending
	}
	t := &entity.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		UserID:      owner.ID,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		// owner deleted between the check and the insert
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError(err)
	}
	t.Owner = owner
	s.publish(ctx, events.NewTaskEvent(events.TaskCreated, taskPayload(t)))
	return t, nil
}

// List returns every task with its owner, newest first.
func (s *TaskService) List(ctx context.Context) ([]entity.Task, error) {
	tasks, err := s.Repo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return tasks, nil
}

func (s *TaskService) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTaskNotFound
	}
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeError(err)
	}
	return t, nil
}

// Update applies the supplied fields only. The owner cannot be changed.
func (s *TaskService) Update(ctx context.Context, id string, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, errInvalidStatus
		}
		t.Status = *in.Status
	}

	if err := s.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeError(err)
	}
	s.publish(ctx, events.NewTaskEvent(events.TaskUpdated, taskPayload(t)))
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTaskNotFound
		}
		return storeError(err)
	}
	s.publish(ctx, events.NewTaskEvent(events.TaskDeleted, taskPayload(t)))
	return nil
}

func (s *TaskService) publish(ctx context.Context, e events.Event) {
	if err := s.Publisher.Publish(ctx, e); err != nil {
		helpers.LogError(s.Logger, "publish event failed", err, logrus.Fields{"event": e.Type, "event_id": e.ID})
	}
}

func taskPayload(t *entity.Task) events.TaskPayload {
	p := events.TaskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
	}
	if t.Owner != nil {
		p.UserName = t.Owner.Name
		p.UserEmail = t.Owner.Email
	}
	return p
}
