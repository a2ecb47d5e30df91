package main

import (
	"context"
	"time"

	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aitoolhub/aitoolhub/common"
	"github.com/aitoolhub/aitoolhub/common/client"
	"github.com/aitoolhub/aitoolhub/common/config"
	"github.com/aitoolhub/aitoolhub/common/logger"
	"github.com/aitoolhub/aitoolhub/common/telemetry"
	"github.com/aitoolhub/aitoolhub/model"
	"github.com/aitoolhub/aitoolhub/router"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	logger.SetupLogger()
	lg := logger.Logger

	client.Init()

	telemetryBundle, err := telemetry.InitOpenTelemetry(context.Background())
	if err != nil {
		lg.Fatal("failed to initialize OpenTelemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryBundle.Shutdown(shutdownCtx); err != nil {
			lg.Error("failed to shut down OpenTelemetry", zap.Error(err))
		}
	}()

	if err := common.InitRedisClient(); err != nil {
		lg.Fatal("failed to initialize redis", zap.Error(err))
	}

	if err := model.InitDB(); err != nil {
		lg.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := model.CloseDB(); err != nil {
			lg.Error("failed to close database", zap.Error(err))
		}
	}()

	model.SetupSearchCacheSweeper(config.SearchCacheSweepInterval)

	if !config.DebugEnabled {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	// Let gin.Context.Value fall through to the request context so the
	// request-scoped logger is reachable from handlers.
	engine.ContextWithFallback = true
	engine.Use(gin.Recovery())
	router.SetRouter(engine)

	lg.Info("server starting", zap.String("port", config.Port))
	if err := engine.Run(":" + config.Port); err != nil {
		lg.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
