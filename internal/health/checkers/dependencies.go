package checkers

import (
	"context"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-task-api/pkg/helpers"
)

// MemoryChecker always succeeds; the in-process store cannot be unreachable.
type MemoryChecker struct{}

func (MemoryChecker) Name() string                { return "memory" }
func (MemoryChecker) Check(context.Context) error { return nil }

type RedisChecker struct {
	rdb *redis.Client
}

func NewRedisChecker(rdb *redis.Client) *RedisChecker { return &RedisChecker{rdb: rdb} }

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return helpers.PingRedis(ctx, c.rdb)
}

type ElasticsearchChecker struct {
	es *elasticsearch.Client
}

func NewElasticsearchChecker(es *elasticsearch.Client) *ElasticsearchChecker {
	return &ElasticsearchChecker{es: es}
}

func (c *ElasticsearchChecker) Name() string { return "elasticsearch" }

func (c *ElasticsearchChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return helpers.PingES(ctx, c.es)
}

// FailedChecker reports a startup failure that keeps a component out of service.
type FailedChecker struct {
	Component string
	Err       error
}

func (c FailedChecker) Name() string                { return c.Component }
func (c FailedChecker) Check(context.Context) error { return c.Err }
