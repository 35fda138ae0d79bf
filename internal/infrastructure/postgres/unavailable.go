package postgres

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-api/internal/domain/repository"
)

// UnavailableUserRepository stands in for the users table when postgres could
// not be reached at startup. Every call fails with repository.ErrUnavailable.
type UnavailableUserRepository struct{ Cause error }

func (r UnavailableUserRepository) err() error {
	return fmt.Errorf("%w: %w", repository.ErrUnavailable, r.Cause)
}

func (r UnavailableUserRepository) Create(context.Context, *entity.User) error { return r.err() }
func (r UnavailableUserRepository) List(context.Context) ([]entity.User, error) {
	return nil, r.err()
}
func (r UnavailableUserRepository) GetByID(context.Context, string) (*entity.User, error) {
	return nil, r.err()
}
func (r UnavailableUserRepository) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, r.err()
}
func (r UnavailableUserRepository) Update(context.Context, *entity.User) error { return r.err() }
func (r UnavailableUserRepository) Delete(context.Context, string) error       { return r.err() }

var _ repository.UserRepository = UnavailableUserRepository{}

// UnavailableTaskRepository is the tasks counterpart of UnavailableUserRepository.
type UnavailableTaskRepository struct{ Cause error }

func (r UnavailableTaskRepository) err() error {
	return fmt.Errorf("%w: %w", repository.ErrUnavailable, r.Cause)
}

func (r UnavailableTaskRepository) Create(context.Context, *entity.Task) error { return r.err() }
func (r UnavailableTaskRepository) List(context.Context) ([]entity.Task, error) {
	return nil, r.err()
}
func (r UnavailableTaskRepository) GetByID(context.Context, string) (*entity.Task, error) {
	return nil, r.err()
}
func (r UnavailableTaskRepository) Update(context.Context, *entity.Task) error { return r.err() }
func (r UnavailableTaskRepository) Delete(context.Context, string) error       { return r.err() }

var _ repository.TaskRepository = UnavailableTaskRepository{}
