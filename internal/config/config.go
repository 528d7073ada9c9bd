// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// ============================================================
// DEVELOPER: Add new configuration fields here.
// ============================================================
// Use struct tags to define:
// - `env:"VAR_NAME"` - the environment variable name
// - `env:",required"` - make it required
// - `envDefault:"value"` - set a default value
//
// After adding fields here, update loader.go Validate() if custom
// validation is needed.
// ============================================================
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"LearningProgressService"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSAllowedOrigins is a comma separated list; "*" allows any origin.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// ============================================================
	// Progress configuration
	// ============================================================
	DailyGoal int    `env:"DAILY_GOAL" envDefault:"10"`
	Timezone  string `env:"TIMEZONE" envDefault:"Local"`

	// MilestonesConfigPath is optional; the builtin milestones are used when empty.
	MilestonesConfigPath string `env:"MILESTONES_CONFIG_PATH" envDefault:"config/milestones.yaml"`

	// PublishNotifications publishes milestone notifications on Redis pub/sub
	// when the Redis store is used.
	PublishNotifications bool `env:"PUBLISH_NOTIFICATIONS" envDefault:"false"`

	// ============================================================
	// Storage configuration
	// ============================================================
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"redis"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"learning_progress.db"`
	StateTTLHours int    `env:"STATE_TTL_HOURS" envDefault:"0"`

	// ============================================================
	// Redis configuration
	// ============================================================
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled    bool   `env:"OTEL_ENABLED" envDefault:"true"`
	ZipkinEndpoint string `env:"ZIPKIN_ENDPOINT"`
}
