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

type UserService struct {
	Repo      repo.UserRepository
	Publisher events.Publisher
	Logger    *logrus.Logger
}

func NewUserService(repo repo.UserRepository, pub events.Publisher, logger *logrus.Logger) *UserService {
	if pub == nil {
		pub = events.Nop
	}
	return &UserService{Repo: repo, Publisher: pub, Logger: logger}
}

type CreateUserInput struct {
	Name  string
	Email string
}

// UpdateUserInput carries a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, storeError(err)
	}

	u := &entity.User{ID: uuid.NewString(), Name: in.Name, Email: in.Email}
	if err := s.Repo.Create(ctx, u); err != nil {
		// the unique index caught a concurrent insert
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, storeError(err)
	}
	s.publish(ctx, events.NewUserEvent(events.UserCreated, userPayload(u)))
	return u, nil
}

// List returns every user, newest first.
func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != u.Email {
		other, err := s.Repo.GetByEmail(ctx, *in.Email)
		switch {
		case err == nil && other != nil && other.ID != u.ID:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return nil, storeError(err)
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, storeError(err)
	}
	s.publish(ctx, events.NewUserEvent(events.UserUpdated, userPayload(u)))
	return u, nil
}

// Delete removes the user and, through the store, all of its tasks.
func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return storeError(err)
	}
	s.publish(ctx, events.NewUserEvent(events.UserDeleted, userPayload(u)))
	return nil
}

// publish never fails the caller; the write has already been committed.
func (s *UserService) publish(ctx context.Context, e events.Event) {
	if err := s.Publisher.Publish(ctx, e); err != nil {
		helpers.LogError(s.Logger, "publish event failed", err, logrus.Fields{"event": e.Type, "event_id": e.ID})
	}
}

func userPayload(u *entity.User) events.UserPayload {
	return events.UserPayload{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}
