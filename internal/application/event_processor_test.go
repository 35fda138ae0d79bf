package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-task-api/pkg/events"
	"github.com/oksasatya/go-ddd-task-api/pkg/mailer"
)

type fakeSender struct {
	jobs []mailer.EmailJob
	err  error
}

func (f *fakeSender) Send(_ context.Context, job mailer.EmailJob) error {
	f.jobs = append(f.jobs, job)
	return f.err
}

func TestEventProcessorWelcomeMail(t *testing.T) {
	sender := &fakeSender{}
	p := NewEventProcessor(nil, sender, "Tarefas", nil)

	err := p.Handle(context.Background(), events.NewUserEvent(events.UserCreated, events.UserPayload{
		ID: "u1", Name: "Ana", Email: "ana@x.com", CreatedAt: time.Now(),
	}))
	require.NoError(t, err)
	require.Len(t, sender.jobs, 1)
	assert.Equal(t, "ana@x.com", sender.jobs[0].To)
	assert.Equal(t, "Bem-vindo ao Tarefas, Ana", sender.jobs[0].Subject)
	assert.NotEmpty(t, sender.jobs[0].HTML)
}

func TestEventProcessorTaskAssignedMail(t *testing.T) {
	sender := &fakeSender{}
	p := NewEventProcessor(nil, sender, "", nil)

	err := p.Handle(context.Background(), events.NewTaskEvent(events.TaskCreated, events.TaskPayload{
		ID: "t1", Title: "Comprar pão", Description: "Na padaria", Status: "pending",
		UserID: "u1", UserName: "Ana", UserEmail: "ana@x.com",
	}))
	require.NoError(t, err)
	require.Len(t, sender.jobs, 1)
	assert.Equal(t, "Nova tarefa: Comprar pão", sender.jobs[0].Subject)
}

func TestEventProcessorWithoutMailerOrIndex(t *testing.T) {
	p := NewEventProcessor(nil, nil, "", nil)
	ctx := context.Background()

	for _, e := range []events.Event{
		events.NewUserEvent(events.UserCreated, events.UserPayload{ID: "u1", Email: "a@x.com"}),
		events.NewUserEvent(events.UserUpdated, events.UserPayload{ID: "u1"}),
		events.NewUserEvent(events.UserDeleted, events.UserPayload{ID: "u1"}),
		events.NewTaskEvent(events.TaskCreated, events.TaskPayload{ID: "t1"}),
		events.NewTaskEvent(events.TaskUpdated, events.TaskPayload{ID: "t1"}),
		events.NewTaskEvent(events.TaskDeleted, events.TaskPayload{ID: "t1"}),
		events.New("something.else"),
	} {
		assert.NoError(t, p.Handle(ctx, e), e.Type)
	}
}

func TestEventProcessorReportsFailures(t *testing.T) {
	sender := &fakeSender{err: errors.New("mailgun down")}
	p := NewEventProcessor(nil, sender, "", nil)

	err := p.Handle(context.Background(), events.NewUserEvent(events.UserCreated, events.UserPayload{ID: "u1", Email: "a@x.com"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mailgun down")

	err = p.Handle(context.Background(), events.New(events.TaskCreated))
	assert.Error(t, err)
}
