// Package config provides centralized configuration management.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Upload    UploadConfig
	Inference InferenceConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// StoreConfig selects and configures the dataset store.
type StoreConfig struct {
	Backend  string `env:"STORE_BACKEND" default:"sqlite"`
	DSN      string `env:"STORE_DSN" envAlt:"DATABASE_URL" default:"file:dataprocess.db"`
	MaxConns int32  `env:"STORE_MAX_CONNS" default:"10"`
}

// UploadConfig holds file upload settings.
type UploadConfig struct {
	MaxFileSize   int64         `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"` // 100MB
	MaxConcurrent int           `env:"UPLOAD_MAX_CONCURRENT" default:"5"`
	MaxWaitTime   time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
	Timeout       time.Duration `env:"UPLOAD_TIMEOUT" default:"5m"`
}

// InferenceConfig holds the type inference thresholds.
type InferenceConfig struct {
	ErrorRate       float64 `env:"INFER_ERROR_RATE" default:"0.2"`
	CategoryPercent float64 `env:"INFER_CATEGORY_PERCENT" default:"50"`
	SamplePercent   float64 `env:"INFER_SAMPLE_PERCENT" default:"0.1"`
	MinSamples      int     `env:"INFER_MIN_SAMPLES" default:"3"`
	Seed            uint64  `env:"INFER_SEED" default:"0"` // 0 = random
	DurationUnit    string  `env:"INFER_DURATION_UNIT" default:"ns"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
	UploadLimit       int  `env:"RATE_LIMIT_UPLOAD_PER_MINUTE" default:"10"`
}

// SecurityConfig holds security settings.
type SecurityConfig struct {
	TrustedProxies []string `env:"TRUSTED_PROXIES" default:""`
	EnableCSP      bool     `env:"SECURITY_ENABLE_CSP" default:"true"`
	RequireAPIKey  bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys        []string `env:"API_KEYS" default:""`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"` // text or json
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	DatadogEnabled bool          `env:"DATADOG_ENABLED" default:"false"`
	JobName        string        `env:"DATADOG_JOB_NAME" default:"dataprocess"`
	Tags           string        `env:"DATADOG_TAGS" default:""`
	FlushInterval  time.Duration `env:"DATADOG_FLUSH_INTERVAL" default:"10s"`
}
