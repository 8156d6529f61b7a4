package performance

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// FrameBudget is the part of the scheduler the tuner adjusts.
type FrameBudget interface {
	SetFrameTime(d time.Duration)
	FrameTime() time.Duration
}

// Tuner applies performance modes to a scheduler.
type Tuner struct {
	budget FrameBudget
	logger *zap.Logger

	mu        sync.RWMutex
	mode      Mode
	threshold uint64
	active    bool
}

// NewTuner creates a tuner starting in turbo mode without touching the
// scheduler's current frame time.
func NewTuner(budget FrameBudget, logger *zap.Logger) *Tuner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tuner{
		budget:    budget,
		logger:    logger,
		mode:      ModeTurbo,
		threshold: profiles[ModeTurbo].GCThreshold,
		active:    true,
	}
}

// SetMode applies the frame time and GC threshold of mode.
func (t *Tuner) SetMode(mode Mode) error {
	p, ok := profiles[mode]
	if !ok {
		return ErrUnknownMode
	}

	t.mu.Lock()
	t.mode = mode
	t.threshold = p.GCThreshold
	t.mu.Unlock()

	t.budget.SetFrameTime(p.FrameTime)
	t.logger.Info("Performance mode changed",
		zap.String("mode", string(mode)),
		zap.Duration("frame_time", p.FrameTime),
		zap.Uint64("gc_threshold", p.GCThreshold),
	)
	return nil
}

// SetFPSTarget sets the frame time from "unlimited" or a refresh rate. The
// mode's GC threshold is kept.
func (t *Tuner) SetFPSTarget(target string) error {
	d, err := ParseFPSTarget(target)
	if err != nil {
		return err
	}
	t.budget.SetFrameTime(d)
	t.logger.Info("FPS target changed", zap.String("target", target), zap.Duration("frame_time", d))
	return nil
}

// SetMemoryLimit overrides the GC threshold of the current mode.
func (t *Tuner) SetMemoryLimit(bytes uint64) {
	t.mu.Lock()
	t.threshold = bytes
	t.mu.Unlock()
}

// SetActive turns memory-pressure handling on or off.
func (t *Tuner) SetActive(active bool) {
	t.mu.Lock()
	t.active = active
	t.mu.Unlock()
}

// Active reports whether memory-pressure handling is on.
func (t *Tuner) Active() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// Mode returns the last mode set.
func (t *Tuner) Mode() Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// MemoryThreshold returns the heap size above which a collection is queued.
func (t *Tuner) MemoryThreshold() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.threshold
}

// Current returns the effective profile: the mode with the live frame time
// and threshold, which SetFPSTarget and SetMemoryLimit may have changed.
func (t *Tuner) Current() Profile {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Profile{
		Mode:        t.mode,
		FrameTime:   t.budget.FrameTime(),
		GCThreshold: t.threshold,
	}
}
