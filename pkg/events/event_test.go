package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskEvent(t *testing.T) {
	e := NewTaskEvent(TaskCreated, TaskPayload{ID: "t1", Title: "T", Status: "pending", UserID: "u1"})

	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCreated, e.Type)
	assert.False(t, e.OccurredAt.IsZero())
	assert.Nil(t, e.User)
	require.NotNil(t, e.Task)
	assert.Equal(t, "t1", e.Task.ID)
}

func TestEventJSONOmitsEmptyPayload(t *testing.T) {
	e := NewUserEvent(UserDeleted, UserPayload{ID: "u1"})
	b, err := json.Marshal(e)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Contains(t, raw, "user")
	assert.NotContains(t, raw, "task")
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, Nop.Publish(context.Background(), New(UserCreated)))
}

// blockingHandler holds every event until release is closed.
type blockingHandler struct {
	release chan struct{}
	mu      sync.Mutex
	got     []Event
	ctxErr  error
}

func (h *blockingHandler) Handle(ctx context.Context, e Event) error {
	<-h.release
	h.mu.Lock()
	defer h.mu.Unlock()
	h.got = append(h.got, e)
	h.ctxErr = ctx.Err()
	return errors.New("mail provider down")
}

func TestBackgroundPublisherDoesNotBlockCaller(t *testing.T) {
	h := &blockingHandler{release: make(chan struct{})}
	var failed []string
	var mu sync.Mutex
	p := NewBackground(h, time.Minute, func(e Event, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, e.Type+": "+err.Error())
	})

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan error, 1)
	go func() { returned <- p.Publish(ctx, New(UserCreated)) }()

	select {
	case err := <-returned:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Publish waited for the handler")
	}

	// the request finishing must not cancel the handler
	cancel()
	close(h.release)
	require.NoError(t, p.Wait(context.Background()))

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.got, 1)
	assert.NoError(t, h.ctxErr)
	assert.Equal(t, []string{"user.created: mail provider down"}, failed)
}

func TestBackgroundWaitHonoursDeadline(t *testing.T) {
	h := &blockingHandler{release: make(chan struct{})}
	defer close(h.release)
	p := NewBackground(h, time.Minute, nil)
	require.NoError(t, p.Publish(context.Background(), New(TaskCreated)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.DeadlineExceeded)
}
