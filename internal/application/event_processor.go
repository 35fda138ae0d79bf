package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-task-api/pkg/events"
	"github.com/oksasatya/go-ddd-task-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-task-api/pkg/mailer"
	"github.com/oksasatya/go-ddd-task-api/pkg/mailer/templates"
)

// EventProcessor projects domain events into the search index and sends
// notification e-mails. Either side may be absent.
type EventProcessor struct {
	Index   *search.Index
	Mailer  mailer.Sender
	AppName string
	Logger  *logrus.Logger
}

func NewEventProcessor(index *search.Index, sender mailer.Sender, appName string, logger *logrus.Logger) *EventProcessor {
	return &EventProcessor{Index: index, Mailer: sender, AppName: appName, Logger: logger}
}

// Handle applies one event. Index and mail failures are joined so the
// caller can decide whether to redeliver.
func (p *EventProcessor) Handle(ctx context.Context, e events.Event) error {
	switch e.Type {
	case events.UserCreated:
		if e.User == nil {
			return errMissingPayload(e)
		}
		return errors.Join(
			p.Index.IndexUser(ctx, *e.User),
			p.send(ctx, templates.Welcome, e.User.Email, templates.EmailData{
				Name:      e.User.Name,
				Email:     e.User.Email,
				CreatedAt: e.User.CreatedAt,
			}),
		)
	case events.UserUpdated:
		if e.User == nil {
			return errMissingPayload(e)
		}
		return errors.Join(
			p.Index.IndexUser(ctx, *e.User),
			p.Index.RenameOwner(ctx, e.User.ID, e.User.Name),
		)
	case events.UserDeleted:
		if e.User == nil {
			return errMissingPayload(e)
		}
		return p.Index.DeleteUser(ctx, e.User.ID)
	case events.TaskCreated:
		if e.Task == nil {
			return errMissingPayload(e)
		}
		return errors.Join(
			p.Index.IndexTask(ctx, *e.Task),
			p.send(ctx, templates.TaskAssigned, e.Task.UserEmail, templates.EmailData{
				Name:            e.Task.UserName,
				Email:           e.Task.UserEmail,
				TaskTitle:       e.Task.Title,
				TaskDescription: e.Task.Description,
				TaskStatus:      e.Task.Status,
				CreatedAt:       e.Task.CreatedAt,
			}),
		)
	case events.TaskUpdated:
		if e.Task == nil {
			return errMissingPayload(e)
		}
		return p.Index.IndexTask(ctx, *e.Task)
	case events.TaskDeleted:
		if e.Task == nil {
			return errMissingPayload(e)
		}
		return p.Index.DeleteTask(ctx, e.Task.ID)
	default:
		helpers.LogInfo(p.Logger, "ignoring unknown event", logrus.Fields{"event": e.Type, "id": e.ID})
		return nil
	}
}

func (p *EventProcessor) send(ctx context.Context, name, to string, data templates.EmailData) error {
	if p.Mailer == nil || to == "" {
		return nil
	}
	data.AppName = p.AppName
	subject, text, html, err := templates.Render(name, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := p.Mailer.Send(ctx, mailer.EmailJob{To: to, Subject: subject, Text: text, HTML: html}); err != nil {
		return fmt.Errorf("send %s to %s: %w", name, to, err)
	}
	helpers.LogInfo(p.Logger, "email sent", logrus.Fields{"template": name, "to": to})
	return nil
}

func errMissingPayload(e events.Event) error {
	return fmt.Errorf("event %s (%s) has no payload", e.ID, e.Type)
}

var _ events.Handler = (*EventProcessor)(nil)
