package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the revision client.
type Config struct {
	// Service
	APIBaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:5001"`
	AuthToken      string        `env:"AUTH_TOKEN"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryBase      time.Duration `env:"RETRY_BASE" envDefault:"200ms"`

	// Endpoint paths are relative to APIBaseURL.
	Routes Routes

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"` // empty logs to stdout only

	// Lifecycle
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`
	MaxUploadSize int64         `env:"MAX_UPLOAD_SIZE" envDefault:"20971520"` // 20MB in bytes
	QuestionCount int           `env:"QUIZ_QUESTION_COUNT" envDefault:"5"`

	// Recommendation cache
	VideoCacheProvider string        `env:"VIDEO_CACHE_PROVIDER" envDefault:"memory"` // "memory", "redis" or "none"
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	VideoCacheTTL      time.Duration `env:"VIDEO_CACHE_TTL" envDefault:"30m"`

	// Lifecycle notifications
	EventsProvider string `env:"EVENTS_PROVIDER" envDefault:"none"` // "nats" or "none"
	NATSURL        string `env:"NATS_URL"`

	// Local status surface (watch mode)
	StatusPort int `env:"STATUS_PORT" envDefault:"8090"`
}

// Routes are the resource-group paths on the external service.
type Routes struct {
	Documents string `env:"DOCUMENTS_PATH" envDefault:"/api/pdfs/"`
	Quiz      string `env:"QUIZ_PATH" envDefault:"/api/quiz/"`
	Chats     string `env:"CHATS_PATH" envDefault:"/api/chats/"`
	Videos    string `env:"VIDEOS_PATH" envDefault:"/api/youtube/"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
