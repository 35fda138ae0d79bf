package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-api/config"
	"github.com/oksasatya/go-ddd-task-api/internal/application"
	"github.com/oksasatya/go-ddd-task-api/internal/domain/entity"
	pginfra "github.com/oksasatya/go-ddd-task-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-task-api/pkg/events"
	"github.com/oksasatya/go-ddd-task-api/pkg/helpers"
)

// seed creates a demo user with two tasks. Running it again is a no-op.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	if cfg.StorageDriver == config.StorageMemory {
		logger.Fatal("seed needs STORAGE_DRIVER=postgres")
	}

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:            cfg.PostgresDSN(),
		MaxConns:       2,
		MinConns:       1,
		MaxConnLife:    cfg.DBMaxConnLife,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	users := application.NewUserService(pginfra.NewUserRepository(pool), events.Nop, logger)
	tasks := application.NewTaskService(pginfra.NewTaskRepository(pool), users, events.Nop, logger)

	u, err := users.Create(ctx, application.CreateUserInput{Name: "João Silva", Email: "joao.silva@example.com"})
	if errors.Is(err, application.ErrEmailTaken) {
		logger.WithField("email", "joao.silva@example.com").Info("demo user already seeded")
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to seed user")
	}
	logger.WithFields(logrus.Fields{"id": u.ID, "email": u.Email}).Info("seeded user")

	for _, in := range []application.CreateTaskInput{
		{Title: "Estudar Go", Description: "Goroutines, channels e context", UserID: u.ID},
		{Title: "Configurar banco", Description: "Subir o Postgres e rodar as migrações", UserID: u.ID, Status: entity.TaskStatusDone},
	} {
		t, err := tasks.Create(ctx, in)
		if err != nil {
			logger.WithError(err).Fatal("failed to seed task")
		}
		logger.WithFields(logrus.Fields{"id": t.ID, "title": t.Title, "status": t.Status}).Info("seeded task")
	}
}
