package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-api/internal/domain/repository"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const selectTaskWithOwner = `
	SELECT t.id, t.title, t.description, t.status, t.user_id, t.created_at,
	       u.id, u.name, u.email, u.created_at
	FROM tasks t
	JOIN users u ON u.id = t.user_id
`

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{Owner: &entity.User{}}
	var status string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.UserID, &t.CreatedAt,
		&t.Owner.ID, &t.Owner.Name, &t.Owner.Email, &t.Owner.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TaskStatus(status)
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = entity.TaskStatusPending
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, title, description, status, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, t.ID, t.Title, t.Description, string(t.Status), t.UserID)

	if err := row.Scan(&t.CreatedAt); err != nil {
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context) ([]entity.Task, error) {
	rows, err := r.pool.Query(ctx, selectTaskWithOwner+` ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, selectTaskWithOwner+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Update writes title, description and status; user_id is never touched.
func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3
		WHERE id = $4
	`, t.Title, t.Description, string(t.Status), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	fresh, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *fresh
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
