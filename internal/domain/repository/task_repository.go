package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
)

// TaskRepository defines the interface for task-related database operations.
// Reads return tasks with Owner populated.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	List(ctx context.Context) ([]entity.Task, error)
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
}
