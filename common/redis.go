package common

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/go-redis/redis/v8"

	"github.com/aitoolhub/aitoolhub/common/config"
	"github.com/aitoolhub/aitoolhub/common/logger"
)

// RDB is the shared Redis client; nil when Redis is not configured.
var RDB *redis.Client

// RedisEnabled reports whether Redis-backed features should be used.
var RedisEnabled = false

// InitRedisClient connects to Redis when REDIS_CONN_STRING is set. Without
// Redis the rate limiter degrades to process-local state, which only holds
// on single-instance deployments.
func InitRedisClient() error {
	if config.RedisConnString == "" {
		logger.Logger.Info("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}

	opt, err := redis.ParseURL(config.RedisConnString)
	if err != nil {
		return errors.Wrap(err, "parse redis connection string")
	}
	RDB = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "ping redis")
	}

	RedisEnabled = true
	logger.Logger.Info("Redis is enabled")
	return nil
}
