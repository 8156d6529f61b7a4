// Package config provides 12-factor configuration for the shell runtime.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags in cmd/shell override environment variables.
//
// Configuration Sections:
//   - Server: HTTP listen address, CORS origins, shutdown grace period
//   - Scheduler: per-frame budget (0 = unlimited)
//   - Storage: path of the persisted key-value file
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting
//   - Bridge: host command timeout and circuit breaker thresholds
//   - Performance: initial performance mode and memory monitor
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Shell listening on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - PORT, HOST, ALLOWED_ORIGINS, SHUTDOWN_TIMEOUT
//   - FRAME_TIME, STORAGE_PATH
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - BRIDGE_TIMEOUT, BRIDGE_BREAKER_FAILURES, BRIDGE_BREAKER_TIMEOUT
//   - PERF_MODE, PERF_MEMORY_INTERVAL, PERF_MEMORY_LIMIT_MB, PERF_MONITORS_ENABLED
package config
