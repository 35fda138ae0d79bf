package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-api/internal/domain/repository"
)

func TestUserEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	require.NoError(t, users.Create(ctx, &entity.User{Name: "Ana", Email: "ana@x.com"}))
	err := users.Create(ctx, &entity.User{Name: "Other", Email: "ana@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserUpdateMovesEmailIndex(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	ana := &entity.User{Name: "Ana", Email: "ana@x.com"}
	bob := &entity.User{Name: "Bob", Email: "bob@x.com"}
	require.NoError(t, users.Create(ctx, ana))
	require.NoError(t, users.Create(ctx, bob))

	ana.Email = "bob@x.com"
	assert.ErrorIs(t, users.Update(ctx, ana), repository.ErrDuplicateEmail)

	ana.Email = "ana2@x.com"
	require.NoError(t, users.Update(ctx, ana))

	_, err := users.GetByEmail(ctx, "ana@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := users.GetByEmail(ctx, "ana2@x.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	// the freed address is reusable
	require.NoError(t, users.Create(ctx, &entity.User{Name: "Carla", Email: "ana@x.com"}))
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2025, 10, 8, 10, 0, 0, 0, time.UTC)
	tick := 0
	s.nowFunc = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.NoError(t, s.Users().Create(ctx, &entity.User{Name: email, Email: email}))
	}
	list, err := s.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c@x.com", list[0].Email)
	assert.Equal(t, "a@x.com", list[2].Email)
}

func TestListEmpty(t *testing.T) {
	s := NewStore()
	users, err := s.Users().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	tasks, err := s.Tasks().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskRequiresOwnerAndResolvesIt(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Tasks().Create(ctx, &entity.Task{Title: "T", Description: "D", UserID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	ana := &entity.User{Name: "Ana", Email: "ana@x.com"}
	require.NoError(t, s.Users().Create(ctx, ana))
	task := &entity.Task{Title: "T", Description: "D", UserID: ana.ID}
	require.NoError(t, s.Tasks().Create(ctx, task))
	assert.Equal(t, entity.TaskStatusPending, task.Status)

	got, err := s.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "Ana", got.OwnerName())
}

func TestDeleteUserCascadesTasks(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	ana := &entity.User{Name: "Ana", Email: "ana@x.com"}
	bob := &entity.User{Name: "Bob", Email: "bob@x.com"}
	require.NoError(t, s.Users().Create(ctx, ana))
	require.NoError(t, s.Users().Create(ctx, bob))

	t1 := &entity.Task{Title: "1", Description: "d", UserID: ana.ID}
	t2 := &entity.Task{Title: "2", Description: "d", UserID: ana.ID}
	t3 := &entity.Task{Title: "3", Description: "d", UserID: bob.ID}
	for _, task := range []*entity.Task{t1, t2, t3} {
		require.NoError(t, s.Tasks().Create(ctx, task))
	}

	require.NoError(t, s.Users().Delete(ctx, ana.ID))

	for _, id := range []string{t1.ID, t2.ID} {
		_, err := s.Tasks().GetByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
	_, err := s.Tasks().GetByID(ctx, t3.ID)
	assert.NoError(t, err)
	assert.ErrorIs(t, s.Users().Delete(ctx, ana.ID), repository.ErrNotFound)
}

func TestTaskUpdateKeepsOwnerAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ana := &entity.User{Name: "Ana", Email: "ana@x.com"}
	require.NoError(t, s.Users().Create(ctx, ana))
	task := &entity.Task{Title: "T", Description: "D", UserID: ana.ID}
	require.NoError(t, s.Tasks().Create(ctx, task))
	created := task.CreatedAt

	upd := *task
	upd.Status = entity.TaskStatusDone
	upd.UserID = "someone-else"
	upd.CreatedAt = created.Add(time.Hour)
	require.NoError(t, s.Tasks().Update(ctx, &upd))

	assert.Equal(t, ana.ID, upd.UserID)
	assert.True(t, created.Equal(upd.CreatedAt))
	assert.Equal(t, entity.TaskStatusDone, upd.Status)
	assert.Equal(t, "Ana", upd.OwnerName())
}

// Run with -race: List copies rows while Update rewrites them in place.
func TestConcurrentListAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	users, tasks := s.Users(), s.Tasks()

	ana := &entity.User{Name: "Ana", Email: "ana@x.com"}
	require.NoError(t, users.Create(ctx, ana))
	task := &entity.Task{Title: "T", Description: "D", UserID: ana.ID}
	require.NoError(t, tasks.Create(ctx, task))

	const rounds = 500
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			u := &entity.User{ID: ana.ID, Name: fmt.Sprintf("Ana %d", i), Email: fmt.Sprintf("ana%d@x.com", i)}
			assert.NoError(t, users.Update(ctx, u))
			tk := &entity.Task{ID: task.ID, Title: fmt.Sprintf("T %d", i), Description: "D", Status: entity.TaskStatusDone}
			assert.NoError(t, tasks.Update(ctx, tk))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			list, err := users.List(ctx)
			assert.NoError(t, err)
			assert.Len(t, list, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			list, err := tasks.List(ctx)
			assert.NoError(t, err)
			assert.Len(t, list, 1)
		}
	}()
	wg.Wait()

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Ana %d", rounds-1), list[0].Name)
}
