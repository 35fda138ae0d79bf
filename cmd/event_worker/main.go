package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-task-api/config"
	"github.com/oksasatya/go-ddd-task-api/internal/application"
	"github.com/oksasatya/go-ddd-task-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-task-api/pkg/events"
	"github.com/oksasatya/go-ddd-task-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-task-api/pkg/mailer"
)

// event_worker consumes domain events from RabbitMQ and applies them to the
// search index and the mailer.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-event-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	es, err := helpers.NewESClient(cfg.ESOptions())
	if err != nil {
		logger.WithError(err).Fatal("failed to init elasticsearch client")
	}
	index := search.NewIndex(es, cfg.ESUsersIndex, cfg.ESTasksIndex, logger)

	var sender mailer.Sender
	if cfg.MailEnabled() {
		sender = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	} else {
		logger.Info("MAIL_SEND_ENABLED=false or Mailgun not configured; notifications disabled")
	}
	processor := application.NewEventProcessor(index, sender, cfg.AppName, logger)

	conn, ch, err := helpers.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
	if err != nil {
		logger.WithError(err).Fatal("amqp connect")
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	msgs, err := ch.Consume(cfg.RabbitMQEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			var e events.Event
			if err := json.Unmarshal(msg.Body, &e); err != nil {
				logger.WithError(err).Warn("bad message")
				_ = msg.Nack(false, false)
				continue
			}

			c, cancelMsg := context.WithTimeout(ctx, 15*time.Second)
			err := processor.Handle(c, e)
			cancelMsg()
			if err != nil {
				// a redelivered message that fails again is dropped
				logger.WithError(err).WithField("event", e.Type).Warn("event handling failed")
				_ = msg.Nack(false, !msg.Redelivered)
				continue
			}
			_ = msg.Ack(false)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("event worker listening")
	<-stop
	logger.Info("shutting down...")
	cancel()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
