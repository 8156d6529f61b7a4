package bridge

import (
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/resilience"
)

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithObserver attaches a metrics hook.
func WithObserver(o Observer) Option {
	return func(b *Bridge) {
		b.observer = o
	}
}

// WithTimeout bounds every invocation. Zero means no deadline beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d >= 0 {
			b.timeout = d
		}
	}
}

// WithBreakerSettings configures the circuit breaker guarding the host.
// Caller mistakes (bad params, unknown commands) never count as failures,
// whatever IsFailure says.
func WithBreakerSettings(settings resilience.Settings) Option {
	return func(b *Bridge) {
		b.breakerSettings = settings
	}
}

// WithClock replaces time.Now for invocation timing.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) {
		if now != nil {
			b.now = now
		}
	}
}
