// Package middleware provides the HTTP middleware of the shell's local API.
//
// Middleware stack:
//   - RequestID: tags requests with a ULID based X-Request-ID
//   - Logger: structured request logging with zap
//   - CORS: cross-origin resource sharing for the UI origin
//   - RateLimit: per-IP token bucket rate limiting with idle cleanup
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
