package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-task-api/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-api/pkg/events"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newServices(t *testing.T) (*UserService, *TaskService, *recordingPublisher) {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	users := NewUserService(store.Users(), pub, nil)
	tasks := NewTaskService(store.Tasks(), users, pub, nil)
	return users, tasks, pub
}

func strPtr(s string) *string { return &s }

func TestUserCreateAndGet(t *testing.T) {
	users, _, pub := newServices(t)
	ctx := context.Background()

	u, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, *u, *got)
	assert.Equal(t, []string{events.UserCreated}, pub.types())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	_, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	_, err = users.Create(ctx, CreateUserInput{Name: "Other", Email: "ana@x.com"})
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, "Email já cadastrado", apperror.From(err).Message)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUserGetUnknownOrMalformedID(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	for _, id := range []string{"00000000-0000-4000-8000-000000000000", "not-a-uuid", ""} {
		_, err := users.GetByID(ctx, id)
		require.ErrorIs(t, err, ErrUserNotFound, id)
		assert.Equal(t, "Usuário não encontrado", apperror.From(err).Message)
	}
}

func TestUserListEmptyAndOrdered(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	first, err := users.Create(ctx, CreateUserInput{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	second, err := users.Create(ctx, CreateUserInput{Name: "B", Email: "b@x.com"})
	require.NoError(t, err)

	list, err = users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestUserUpdatePartial(t *testing.T) {
	users, _, pub := newServices(t)
	ctx := context.Background()

	u, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	updated, err := users.Update(ctx, u.ID, UpdateUserInput{Name: strPtr("Ana Maria")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "ana@x.com", updated.Email)
	assert.Equal(t, u.ID, updated.ID)
	assert.True(t, u.CreatedAt.Equal(updated.CreatedAt))

	// same e-mail is not a conflict with itself
	_, err = users.Update(ctx, u.ID, UpdateUserInput{Email: strPtr("ana@x.com")})
	require.NoError(t, err)

	updated, err = users.Update(ctx, u.ID, UpdateUserInput{Email: strPtr("maria@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "maria@x.com", updated.Email)

	// the old address is free again
	_, err = users.Create(ctx, CreateUserInput{Name: "New", Email: "ana@x.com"})
	require.NoError(t, err)

	assert.Equal(t, []string{events.UserCreated, events.UserUpdated, events.UserUpdated, events.UserUpdated, events.UserCreated}, pub.types())
}

func TestEmptyUpdateChangesNothing(t *testing.T) {
	users, tasks, _ := newServices(t)
	ctx := context.Background()

	u, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	task, err := tasks.Create(ctx, CreateTaskInput{Title: "T", Description: "D", UserID: u.ID, Status: entity.TaskStatusDone})
	require.NoError(t, err)
	beforeUser, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	beforeTask, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)

	gotUser, err := users.Update(ctx, u.ID, UpdateUserInput{})
	require.NoError(t, err)
	assert.Equal(t, beforeUser.ID, gotUser.ID)
	assert.Equal(t, beforeUser.Name, gotUser.Name)
	assert.Equal(t, beforeUser.Email, gotUser.Email)
	assert.True(t, beforeUser.CreatedAt.Equal(gotUser.CreatedAt))

	gotTask, err := tasks.Update(ctx, task.ID, UpdateTaskInput{})
	require.NoError(t, err)
	assert.Equal(t, beforeTask.ID, gotTask.ID)
	assert.Equal(t, beforeTask.Title, gotTask.Title)
	assert.Equal(t, beforeTask.Description, gotTask.Description)
	assert.Equal(t, beforeTask.Status, gotTask.Status)
	assert.Equal(t, beforeTask.UserID, gotTask.UserID)
	assert.True(t, beforeTask.CreatedAt.Equal(gotTask.CreatedAt))

	afterUser, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, *beforeUser, *afterUser)
	afterTask, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, beforeTask.Title, afterTask.Title)
	assert.Equal(t, beforeTask.Status, afterTask.Status)
}

// staleEmailLookup misses every e-mail lookup, as if another writer took the
// address between the service's check and its write.
type staleEmailLookup struct {
	*memory.UserRepository
}

func (staleEmailLookup) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func TestUniqueConstraintBackstopsEmailCheck(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	users := NewUserService(staleEmailLookup{memory.NewStore().Users()}, pub, nil)

	_, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	b, err := users.Create(ctx, CreateUserInput{Name: "Bia", Email: "bia@x.com"})
	require.NoError(t, err)

	_, err = users.Create(ctx, CreateUserInput{Name: "Other", Email: "ana@x.com"})
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = users.Update(ctx, b.ID, UpdateUserInput{Email: strPtr("ana@x.com")})
	require.ErrorIs(t, err, ErrEmailTaken)

	got, err := users.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "bia@x.com", got.Email)
	assert.Equal(t, []string{events.UserCreated, events.UserCreated}, pub.types())
}

func TestUnavailableStoreIsNotInternal(t *testing.T) {
	users := NewUserService(downStore{}, nil, nil)
	_, err := users.List(context.Background())
	assert.Equal(t, apperror.KindUnavailable, apperror.KindOf(err))
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}

type downStore struct {
	repository.UserRepository
}

func (downStore) List(context.Context) ([]entity.User, error) {
	return nil, repository.ErrUnavailable
}

func TestUserUpdateEmailTakenByAnother(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	_, err := users.Create(ctx, CreateUserInput{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	b, err := users.Create(ctx, CreateUserInput{Name: "B", Email: "b@x.com"})
	require.NoError(t, err)

	_, err = users.Update(ctx, b.ID, UpdateUserInput{Email: strPtr("a@x.com")})
	require.ErrorIs(t, err, ErrEmailTaken)

	got, err := users.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", got.Email)
}

func TestUserUpdateUnknown(t *testing.T) {
	users, _, _ := newServices(t)
	_, err := users.Update(context.Background(), "00000000-0000-4000-8000-000000000000", UpdateUserInput{Name: strPtr("x")})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDeleteCascadesTasks(t *testing.T) {
	users, tasks, pub := newServices(t)
	ctx := context.Background()

	u, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	other, err := users.Create(ctx, CreateUserInput{Name: "Bia", Email: "bia@x.com"})
	require.NoError(t, err)

	t1, err := tasks.Create(ctx, CreateTaskInput{Title: "T1", Description: "D", UserID: u.ID})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, CreateTaskInput{Title: "T2", Description: "D", UserID: u.ID})
	require.NoError(t, err)
	kept, err := tasks.Create(ctx, CreateTaskInput{Title: "T3", Description: "D", UserID: other.ID})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, u.ID))

	_, err = users.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = tasks.GetByID(ctx, t1.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	list, err := tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)

	err = users.Delete(ctx, u.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	assert.Contains(t, pub.types(), events.UserDeleted)
}

func TestTaskCreateDefaultsAndOwner(t *testing.T) {
	users, tasks, pub := newServices(t)
	ctx := context.Background()

	u, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	task, err := tasks.Create(ctx, CreateTaskInput{Title: "Comprar pão", Description: "Na padaria", UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusPending, task.Status)
	assert.Equal(t, u.ID, task.UserID)
	assert.Equal(t, "Ana", task.OwnerName())

	done, err := tasks.Create(ctx, CreateTaskInput{Title: "X", Description: "Y", UserID: u.ID, Status: entity.TaskStatusDone})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusDone, done.Status)

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.OwnerName())

	pub.mu.Lock()
	last := pub.events[len(pub.events)-1]
	pub.mu.Unlock()
	assert.Equal(t, events.TaskCreated, last.Type)
	require.NotNil(t, last.Task)
	assert.Equal(t, "ana@x.com", last.Task.UserEmail)
}

func TestTaskCreateUnknownUser(t *testing.T) {
	_, tasks, pub := newServices(t)
	ctx := context.Background()

	_, err := tasks.Create(ctx, CreateTaskInput{Title: "T", Description: "D", UserID: "00000000-0000-4000-8000-000000000000"})
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	list, err := tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, pub.types())
}

func TestTaskCreateRejectsUnknownStatus(t *testing.T) {
	users, tasks, _ := newServices(t)
	ctx := context.Background()
	u, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	_, err = tasks.Create(ctx, CreateTaskInput{Title: "T", Description: "D", UserID: u.ID, Status: "archived"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	list, err := tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskUpdatePartialKeepsOwner(t *testing.T) {
	users, tasks, _ := newServices(t)
	ctx := context.Background()

	u, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	task, err := tasks.Create(ctx, CreateTaskInput{Title: "T", Description: "D", UserID: u.ID})
	require.NoError(t, err)

	done := entity.TaskStatusDone
	updated, err := tasks.Update(ctx, task.ID, UpdateTaskInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusDone, updated.Status)
	assert.Equal(t, "T", updated.Title)
	assert.Equal(t, "D", updated.Description)
	assert.Equal(t, u.ID, updated.UserID)
	assert.Equal(t, "Ana", updated.OwnerName())

	pending := entity.TaskStatusPending
	updated, err = tasks.Update(ctx, task.ID, UpdateTaskInput{Title: strPtr("T2"), Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, entity.TaskStatusPending, updated.Status)

	bogus := entity.TaskStatus("archived")
	_, err = tasks.Update(ctx, task.ID, UpdateTaskInput{Status: &bogus})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestTaskNotFound(t *testing.T) {
	_, tasks, _ := newServices(t)
	ctx := context.Background()
	id := "00000000-0000-4000-8000-000000000000"

	_, err := tasks.GetByID(ctx, id)
	require.ErrorIs(t, err, ErrTaskNotFound)
	assert.Equal(t, "Tarefa não encontrada", apperror.From(err).Message)

	_, err = tasks.Update(ctx, id, UpdateTaskInput{Title: strPtr("x")})
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.ErrorIs(t, tasks.Delete(ctx, id), ErrTaskNotFound)
	require.ErrorIs(t, tasks.Delete(ctx, "bad"), ErrTaskNotFound)
}

func TestTaskListNewestFirstWithOwners(t *testing.T) {
	users, tasks, _ := newServices(t)
	ctx := context.Background()

	a, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	b, err := users.Create(ctx, CreateUserInput{Name: "Bia", Email: "bia@x.com"})
	require.NoError(t, err)

	first, err := tasks.Create(ctx, CreateTaskInput{Title: "1", Description: "d", UserID: a.ID})
	require.NoError(t, err)
	second, err := tasks.Create(ctx, CreateTaskInput{Title: "2", Description: "d", UserID: b.ID})
	require.NoError(t, err)

	list, err := tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, "Bia", list[0].OwnerName())
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "Ana", list[1].OwnerName())
}

func TestTaskDelete(t *testing.T) {
	users, tasks, pub := newServices(t)
	ctx := context.Background()

	u, err := users.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	task, err := tasks.Create(ctx, CreateTaskInput{Title: "T", Description: "D", UserID: u.ID})
	require.NoError(t, err)

	require.NoError(t, tasks.Delete(ctx, task.ID))
	_, err = tasks.GetByID(ctx, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	// the owner is untouched
	_, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, events.TaskDeleted, pub.types()[len(pub.types())-1])
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	store := memory.NewStore()
	pub := &recordingPublisher{err: errors.New("broker down")}
	users := NewUserService(store.Users(), pub, nil)

	u, err := users.Create(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	_, err = users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
}
