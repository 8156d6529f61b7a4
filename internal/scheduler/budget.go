package scheduler

import "time"

// DefaultFrameTime is the per-frame allowance at 60Hz (about 16.67ms).
const DefaultFrameTime = time.Second / 60

// Ceiling fractions of the frame time, per tier. They overlap rather than
// partition the frame.
const (
	HighCeiling   = 0.8
	NormalCeiling = 0.6
	LowCeiling    = 0.4
)

// Budget is the time allowance of one drain pass. A zero FrameTime means
// unlimited: every task queued when the pass starts runs in that pass.
type Budget struct {
	FrameTime time.Duration
}

// Unlimited reports whether the budget has no ceiling.
func (b Budget) Unlimited() bool {
	return b.FrameTime <= 0
}

// Ceiling returns the elapsed-time limit below which tasks of priority p may
// still start in a pass.
func (b Budget) Ceiling(p Priority) time.Duration {
	return time.Duration(float64(b.FrameTime) * ceilingFraction(p))
}

// Allows reports whether a task of priority p may start after elapsed time
// has passed since the start of the pass.
func (b Budget) Allows(p Priority, elapsed time.Duration) bool {
	if b.Unlimited() {
		return true
	}
	return elapsed < b.Ceiling(p)
}

func ceilingFraction(p Priority) float64 {
	switch p {
	case PriorityHigh:
		return HighCeiling
	case PriorityLow:
		return LowCeiling
	default:
		return NormalCeiling
	}
}
