package scheduler

import "time"

// minFrameInterval is the refresh interval used when the budget is unlimited.
const minFrameInterval = time.Millisecond

// FrameSource delivers display refresh signals to the frame driver.
type FrameSource interface {
	Frames() <-chan time.Time
	Reset(interval time.Duration)
	Stop()
}

// TickerSource is a FrameSource backed by time.Ticker. Like a display refresh
// callback it drops signals while the receiver is busy.
type TickerSource struct {
	ticker *time.Ticker
}

// NewTickerSource starts a ticker firing every interval.
func NewTickerSource(interval time.Duration) *TickerSource {
	return &TickerSource{ticker: time.NewTicker(clampInterval(interval))}
}

func (t *TickerSource) Frames() <-chan time.Time {
	return t.ticker.C
}

func (t *TickerSource) Reset(interval time.Duration) {
	t.ticker.Reset(clampInterval(interval))
}

func (t *TickerSource) Stop() {
	t.ticker.Stop()
}

func clampInterval(d time.Duration) time.Duration {
	if d < minFrameInterval {
		return minFrameInterval
	}
	return d
}
