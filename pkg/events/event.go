// Package events carries domain events from the services to their projections
// (search index, e-mail notifications). Events are published after the write
// has been committed; losing one never affects the stored data.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

type UserPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type TaskPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName,omitempty"`
	UserEmail   string    `json:"userEmail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Event is the JSON envelope put on the broker.
type Event struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurredAt"`
	User       *UserPayload `json:"user,omitempty"`
	Task       *TaskPayload `json:"task,omitempty"`
}

func New(eventType string) Event {
	return Event{ID: uuid.NewString(), Type: eventType, OccurredAt: time.Now().UTC()}
}

func NewUserEvent(eventType string, p UserPayload) Event {
	e := New(eventType)
	e.User = &p
	return e
}

func NewTaskEvent(eventType string, p TaskPayload) Event {
	e := New(eventType)
	e.Task = &p
	return e
}

// Publisher delivers events to whatever consumes them.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Handler consumes a single event.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// Nop is used when no broker or projection is configured.
var Nop Publisher = nopPublisher{}

// Background hands events to a Handler on its own goroutine, so a slow
// projection (search, mail) never holds up the request that published them.
// Each event gets the publisher's values but not its cancellation, bounded by
// Timeout. Failures go to OnError.
type Background struct {
	Handler Handler
	Timeout time.Duration
	OnError func(e Event, err error)

	wg sync.WaitGroup
}

const defaultHandleTimeout = 15 * time.Second

func NewBackground(h Handler, timeout time.Duration, onError func(Event, error)) *Background {
	if timeout <= 0 {
		timeout = defaultHandleTimeout
	}
	return &Background{Handler: h, Timeout: timeout, OnError: onError}
}

func (p *Background) Publish(ctx context.Context, e Event) error {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.Timeout)
		defer cancel()
		if err := p.Handler.Handle(hctx, e); err != nil && p.OnError != nil {
			p.OnError(e, err)
		}
	}()
	return nil
}

// Wait blocks until in-flight events are handled or ctx is done.
func (p *Background) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
