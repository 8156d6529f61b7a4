package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all shell runtime configuration.
type Config struct {
	Server      ServerConfig
	Scheduler   SchedulerConfig
	Storage     StorageConfig
	Logging     LogConfig
	RateLimit   RateLimitConfig
	Bridge      BridgeConfig
	Performance PerformanceConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"127.0.0.1"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// SchedulerConfig holds frame scheduler configuration. A nil frame time
// leaves the budget to the performance mode; zero disables it.
type SchedulerConfig struct {
	FrameTime *time.Duration `envconfig:"FRAME_TIME"`
}

// FrameTimeOr returns the configured frame time, or fallback when none was
// given.
func (c SchedulerConfig) FrameTimeOr(fallback time.Duration) time.Duration {
	if c.FrameTime == nil {
		return fallback
	}
	return *c.FrameTime
}

// StorageConfig holds the persisted key-value store location. An empty path
// keeps state in memory only.
type StorageConfig struct {
	Path string `envconfig:"STORAGE_PATH"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// BridgeConfig holds host command bridge configuration.
type BridgeConfig struct {
	Timeout         time.Duration `envconfig:"BRIDGE_TIMEOUT" default:"10s"`
	BreakerFailures uint32        `envconfig:"BRIDGE_BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"BRIDGE_BREAKER_TIMEOUT" default:"30s"`
}

// PerformanceConfig holds performance mode and memory monitoring settings.
type PerformanceConfig struct {
	Mode            string        `envconfig:"PERF_MODE" default:"turbo"`
	MemoryInterval  time.Duration `envconfig:"PERF_MEMORY_INTERVAL" default:"5s"`
	MemoryLimitMB   uint64        `envconfig:"PERF_MEMORY_LIMIT_MB" default:"0"`
	MonitorsEnabled bool          `envconfig:"PERF_MONITORS_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "127.0.0.1",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 5 * time.Second,
		},
		Scheduler: SchedulerConfig{},
		Storage:   StorageConfig{},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Bridge: BridgeConfig{
			Timeout:         10 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Performance: PerformanceConfig{
			Mode:            "turbo",
			MemoryInterval:  5 * time.Second,
			MonitorsEnabled: true,
		},
	}
}
