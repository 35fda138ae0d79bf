package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-api/config"
	"github.com/oksasatya/go-ddd-task-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-api/internal/health"
	"github.com/oksasatya/go-ddd-task-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-task-api/pkg/events"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	esClient    *elasticsearch.Client

	userRepo repository.UserRepository
	taskRepo repository.TaskRepository

	searchIndex *search.Index
	publisher   events.Publisher
	dbChecker   health.Checker
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}
func SetPGPool(p *pgxpool.Pool)           { pgPool = p }
func GetPGPool() *pgxpool.Pool            { return pgPool }
func SetRedis(r *redis.Client)            { redisClient = r }
func GetRedis() *redis.Client             { return redisClient }
func SetES(c *elasticsearch.Client)       { esClient = c }
func GetES() *elasticsearch.Client        { return esClient }
func SetSearchIndex(x *search.Index)      { searchIndex = x }
func GetSearchIndex() *search.Index       { return searchIndex }
func SetDatabaseChecker(c health.Checker) { dbChecker = c }
func GetDatabaseChecker() health.Checker  { return dbChecker }

// SetStores installs the repositories chosen by STORAGE_DRIVER.
func SetStores(users repository.UserRepository, tasks repository.TaskRepository) {
	userRepo, taskRepo = users, tasks
}
func GetUserRepository() repository.UserRepository { return userRepo }
func GetTaskRepository() repository.TaskRepository { return taskRepo }

func SetPublisher(p events.Publisher) { publisher = p }
func GetPublisher() events.Publisher {
	if publisher == nil {
		return events.Nop
	}
	return publisher
}
