package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/aitoolhub/aitoolhub/common"
)

// memoryRateLimiter is the process-local fallback. Its counters are not
// shared across instances, so multi-instance deployments must configure
// Redis for limits to hold globally.
type memoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

func newMemoryRateLimiter() *memoryRateLimiter {
	return &memoryRateLimiter{windows: make(map[string][]time.Time)}
}

func (l *memoryRateLimiter) allow(key string, maxRequests int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)
	kept := l.windows[key][:0]
	for _, t := range l.windows[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= maxRequests {
		l.windows[key] = kept
		return false
	}
	l.windows[key] = append(kept, now)
	return true
}

func redisRateLimitAllow(c *gin.Context, key string, maxRequests int, window time.Duration) (bool, error) {
	ctx := c.Request.Context()
	now := time.Now()
	cutoff := now.Add(-window)

	pipe := common.RDB.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	count := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	if count.Val() >= int64(maxRequests) {
		return false, nil
	}

	pipe = common.RDB.TxPipeline()
	pipe.ZAdd(ctx, key, &redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// RateLimit enforces a sliding-window limit per client IP. Backed by Redis
// when enabled; otherwise process-local. A Redis failure fails open so a
// cache outage cannot take the API down.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	memory := newMemoryRateLimiter()
	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()

		allowed := true
		if common.RedisEnabled {
			var err error
			allowed, err = redisRateLimitAllow(c, key, maxRequests, window)
			if err != nil {
				gmw.GetLogger(c).Warn("redis rate limit check failed, allowing request", zap.Error(err))
				allowed = true
			}
		} else {
			allowed = memory.allow(key, maxRequests, window)
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
