package config

import (
	"os"
	"strconv"
	"time"
)

// Env returns the value of the environment variable or the default.
func Env(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EnvInt returns the integer value of the environment variable or the default.
func EnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// EnvBool returns the boolean value of the environment variable or the default.
func EnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

var (
	// Port is the HTTP listen port.
	Port = Env("PORT", "3000")
	// DebugEnabled toggles verbose logging.
	DebugEnabled = EnvBool("DEBUG", false)

	// SQLDSN selects the database. Empty means a local SQLite file.
	SQLDSN = Env("SQL_DSN", "")
	// SQLitePath is the SQLite database file used when SQL_DSN is empty.
	SQLitePath = Env("SQLITE_PATH", "aitoolhub.db")
	// RedisConnString enables Redis-backed rate limiting when set. Without
	// it the limiter falls back to process-local state, which only holds on
	// single-instance deployments.
	RedisConnString = Env("REDIS_CONN_STRING", "")

	// GeminiAPIKey authenticates against the embedding provider.
	GeminiAPIKey = Env("GEMINI_API_KEY", "")
	// EmbeddingModel is the provider model identifier; persisted embeddings
	// carry this string so a model upgrade can trigger re-embedding.
	EmbeddingModel = Env("EMBEDDING_MODEL", "gemini-embedding-001")
	// EmbeddingBaseURL points at the embedding API; overridden in tests.
	EmbeddingBaseURL = Env("EMBEDDING_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	// EmbeddingDimensions is the fixed output dimensionality requested from
	// the provider and enforced on every response.
	EmbeddingDimensions = EnvInt("EMBEDDING_DIMENSIONS", 768)

	// SearchCacheTTL is how long a cached search result stays valid.
	SearchCacheTTL = time.Duration(EnvInt("SEARCH_CACHE_TTL_MINUTES", 60)) * time.Minute
	// SearchCacheSweepInterval schedules the expired-entry sweeper.
	SearchCacheSweepInterval = time.Duration(EnvInt("SEARCH_CACHE_SWEEP_MINUTES", 30)) * time.Minute

	// EmbeddingBatchItemDelay spaces out sequential embedding calls in batch
	// paths. The provider's documented rate target implies a far larger gap
	// than this default; both are kept tunable instead of hard-coding either.
	EmbeddingBatchItemDelay = time.Duration(EnvInt("EMBEDDING_BATCH_DELAY_MS", 200)) * time.Millisecond
	// EmbeddingBatchFailureDelay is the cooldown applied after a failed item
	// in a batch before the next one is attempted.
	EmbeddingBatchFailureDelay = time.Duration(EnvInt("EMBEDDING_BATCH_FAILURE_DELAY_MS", 60000)) * time.Millisecond

	// RelayTimeout bounds outbound HTTP requests in seconds.
	RelayTimeout = EnvInt("RELAY_TIMEOUT", 120)

	// OpenTelemetryEnabled turns on OTLP trace and metric export plus the
	// gin and gorm instrumentation.
	OpenTelemetryEnabled = EnvBool("OTEL_ENABLED", false)
	// OpenTelemetryEndpoint is the OTLP collector endpoint; required when
	// OTEL_ENABLED is true.
	OpenTelemetryEndpoint = Env("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	// OpenTelemetryInsecure disables TLS towards the collector.
	OpenTelemetryInsecure = EnvBool("OTEL_EXPORTER_OTLP_INSECURE", false)
	// OpenTelemetryServiceName names this service in exported telemetry.
	OpenTelemetryServiceName = Env("OTEL_SERVICE_NAME", "aitoolhub")
	// OpenTelemetryEnvironment tags telemetry with a deployment environment.
	OpenTelemetryEnvironment = Env("OTEL_ENVIRONMENT", "")

	// RateLimitRequests and RateLimitWindow configure the API sliding window.
	RateLimitRequests = EnvInt("RATE_LIMIT_REQUESTS", 120)
	RateLimitWindow   = time.Duration(EnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second
)
