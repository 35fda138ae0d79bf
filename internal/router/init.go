package router

import (
	"time"

	"github.com/oksasatya/go-ddd-task-api/internal/application"
	"github.com/oksasatya/go-ddd-task-api/internal/container"
	"github.com/oksasatya/go-ddd-task-api/internal/health"
	"github.com/oksasatya/go-ddd-task-api/internal/health/checkers"
	handlers "github.com/oksasatya/go-ddd-task-api/internal/interface/http"
	"github.com/oksasatya/go-ddd-task-api/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-api/internal/router/modules"
)

type Services struct {
	Users *application.UserService
	Tasks *application.TaskService
}

// BuildServices wires the application services from the container's stores.
func BuildServices() Services {
	logger := container.GetLogger()
	pub := container.GetPublisher()
	users := application.NewUserService(container.GetUserRepository(), pub, logger)
	tasks := application.NewTaskService(container.GetTaskRepository(), users, pub, logger)
	return Services{Users: users, Tasks: tasks}
}

func buildHealth() *health.Service {
	var deps []health.Checker
	if rdb := container.GetRedis(); rdb != nil {
		deps = append(deps, checkers.NewRedisChecker(rdb))
	}
	if es := container.GetES(); es != nil {
		deps = append(deps, checkers.NewElasticsearchChecker(es))
	}
	return health.NewService(container.GetConfig().Env, container.GetDatabaseChecker(), container.GetLogger(), deps...)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svcs := BuildServices()

	r.Use(middleware.RateLimit(
		container.GetRedis(),
		cfg.RateLimitPerMinute,
		time.Minute,
		middleware.KeyByIP(),
		middleware.AnyAllow(
			middleware.AllowPrivateIP(),
			middleware.AllowPathPrefixes("/health", "/ready", "/api/docs"),
		),
		logger,
	))

	search := handlers.NewSearchHandler(container.GetSearchIndex(), logger)
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(buildHealth())))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svcs.Users, logger), search))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(svcs.Tasks, logger), search))
	if cfg.DocsEnabled {
		r.Add(modules.NewDocsModule())
	}
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(cfg.Env, cfg.StorageDriver))
	}
}
