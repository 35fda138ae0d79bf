package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when the unique e-mail constraint rejects a write.
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrUnavailable is returned while the backing database cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	// List returns all users, newest first.
	List(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// Delete removes the user together with all of its tasks.
	Delete(ctx context.Context, id string) error
}
