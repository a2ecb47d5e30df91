package model

import (
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/aitoolhub/aitoolhub/common/config"
	"github.com/aitoolhub/aitoolhub/common/logger"
	"github.com/aitoolhub/aitoolhub/common/metrics"
)

// DB is the shared database handle used by the package-level store functions.
var DB *gorm.DB

func chooseDialector() gorm.Dialector {
	dsn := config.SQLDSN
	switch {
	case dsn == "":
		logger.Logger.Info("SQL_DSN not set, using SQLite", zap.String("path", config.SQLitePath))
		return sqlite.Open(config.SQLitePath)
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		logger.Logger.Info("using PostgreSQL as database")
		return postgres.Open(dsn)
	default:
		logger.Logger.Info("using MySQL as database")
		return mysql.Open(dsn)
	}
}

// InitDB opens the database and migrates the schema.
func InitDB() error {
	db, err := gorm.Open(chooseDialector(), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	if config.OpenTelemetryEnabled {
		// Metrics stay on the prometheus counters; the plugin only traces.
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return errors.Wrap(err, "install gorm tracing plugin")
		}
	}
	DB = db

	if err := migrateDB(); err != nil {
		return errors.Wrap(err, "migrate database")
	}
	return nil
}

func migrateDB() error {
	return DB.AutoMigrate(
		&Tool{},
		&Review{},
		&SearchCache{},
	)
}

// CloseDB releases the underlying connection pool.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}
	return errors.Wrap(sqlDB.Close(), "close database")
}

// SetupSearchCacheSweeper deletes expired search cache rows on a fixed
// interval, independent of query traffic.
func SetupSearchCacheSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = config.SearchCacheSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := SweepSearchCache()
			if err != nil {
				logger.Logger.Error("search cache sweep failed", zap.Error(err))
				continue
			}
			metrics.SearchCacheEvents.WithLabelValues("sweep").Inc()
			if deleted > 0 {
				logger.Logger.Info("search cache swept", zap.Int64("deleted", deleted))
			}
		}
	}()
}
