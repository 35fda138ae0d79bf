// @title         API de Gerenciamento de Usuários e Tarefas
// @version       1.0.0
// @description   API REST para gerenciamento de usuários e tarefas.
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
// @BasePath      /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-api/config"
	"github.com/oksasatya/go-ddd-task-api/internal/application"
	"github.com/oksasatya/go-ddd-task-api/internal/container"
	"github.com/oksasatya/go-ddd-task-api/internal/health/checkers"
	"github.com/oksasatya/go-ddd-task-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-task-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-task-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-task-api/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-api/internal/router"
	"github.com/oksasatya/go-ddd-task-api/pkg/events"
	"github.com/oksasatya/go-ddd-task-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-task-api/pkg/mailer"
	"github.com/oksasatya/go-ddd-task-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	container.SetConfig(cfg)
	container.SetLogger(logger)

	closeStorage := setupStorage(ctx, cfg, logger)
	defer closeStorage()

	// Redis (rate limiting)
	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unreachable; rate limiting fails open")
		}
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	// Elasticsearch (search projection)
	es, err := helpers.NewESClient(cfg.ESOptions())
	if err != nil {
		logger.WithError(err).Fatal("failed to init elasticsearch client")
	}
	container.SetES(es)
	index := search.NewIndex(es, cfg.ESUsersIndex, cfg.ESTasksIndex, logger)
	container.SetSearchIndex(index)

	pub, closePub := buildPublisher(cfg, index, logger)
	defer closePub()
	container.SetPublisher(pub)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(cfg)))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(middleware.AccessLog(logger))
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r, "")
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "storage": cfg.StorageDriver}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}

// setupStorage installs the stores chosen by STORAGE_DRIVER. A postgres that is
// down at startup does not stop the process: CRUD answers 503 and /ready
// reports the database as disconnected (no pool) or error (migrations failed).
func setupStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) func() {
	if cfg.StorageDriver == config.StorageMemory {
		store := memory.NewStore()
		container.SetStores(store.Users(), store.Tasks())
		container.SetDatabaseChecker(checkers.MemoryChecker{})
		logger.Warn("using in-memory storage; data is lost on restart")
		return func() {}
	}

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:            cfg.PostgresDSN(),
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		MaxConnLife:    cfg.DBMaxConnLife,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if err != nil {
		logger.WithError(err).Error("postgres unreachable; serving in degraded mode")
		container.SetStores(pginfra.UnavailableUserRepository{Cause: err}, pginfra.UnavailableTaskRepository{Cause: err})
		return func() {}
	}

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Error("migration failed; serving in degraded mode")
		container.SetStores(pginfra.UnavailableUserRepository{Cause: err}, pginfra.UnavailableTaskRepository{Cause: err})
		container.SetDatabaseChecker(checkers.FailedChecker{Component: "postgres", Err: err})
		return pool.Close
	}
	container.SetPGPool(pool)
	container.SetStores(pginfra.NewUserRepository(pool), pginfra.NewTaskRepository(pool))
	container.SetDatabaseChecker(checkers.NewPostgresChecker(pool))
	return pool.Close
}

// buildPublisher prefers the broker; without one, projections run in the
// background of this process when anything consumes them.
func buildPublisher(cfg *config.Config, index *search.Index, logger *logrus.Logger) (events.Publisher, func()) {
	if cfg.RabbitMQURL != "" {
		rp, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to rabbitmq")
		}
		logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("publishing domain events to rabbitmq")
		return rp, rp.Close
	}

	var sender mailer.Sender
	if cfg.MailEnabled() {
		sender = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}
	if index.Enabled() || sender != nil {
		bg := events.NewBackground(application.NewEventProcessor(index, sender, cfg.AppName, logger), 15*time.Second,
			func(e events.Event, err error) {
				helpers.LogError(logger, "event projection failed", err, logrus.Fields{"event": e.Type, "event_id": e.ID})
			})
		return bg, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := bg.Wait(ctx); err != nil {
				logger.WithError(err).Warn("shutdown before all events were projected")
			}
		}
	}
	return events.Nop, func() {}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	origins := cfg.CORSOrigins()
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
