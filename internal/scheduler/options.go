package scheduler

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Scheduler.
type Option = func(*Scheduler)

// WithLogger sets the logger used for task failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFrameTime sets the initial per-frame budget. Zero means unlimited.
func WithFrameTime(d time.Duration) Option {
	return func(s *Scheduler) {
		s.SetFrameTime(d)
	}
}

// WithTargetFPS sets the frame budget from a refresh rate.
func WithTargetFPS(fps int) Option {
	return func(s *Scheduler) {
		if fps <= 0 {
			s.SetFrameTime(0)
			return
		}
		s.SetFrameTime(time.Second / time.Duration(fps))
	}
}

// WithClock replaces time.Now. Tests use it to make passes deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithObserver attaches metrics hooks.
func WithObserver(observer Observer) Option {
	return func(s *Scheduler) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// WithFrameSource replaces the ticker that drives Run.
func WithFrameSource(source FrameSource) Option {
	return func(s *Scheduler) {
		s.frames = source
	}
}
