package middleware

import (
	"time"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/aitoolhub/common/helper"
	"github.com/aitoolhub/aitoolhub/common/logger"
)

// Logger binds a request-scoped logger carrying the request id into the
// request context, so downstream code can recover it with gmw.GetLogger,
// and emits one access log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		lg := logger.Logger.With(zap.String("request_id", c.GetString(helper.RequestIdKey)))
		c.Request = c.Request.WithContext(gmw.SetLogger(c.Request.Context(), lg))

		start := time.Now()
		c.Next()

		lg.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
