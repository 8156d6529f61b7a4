package scheduler

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// passWindow is how many recent pass durations feed the mean/p95 figures.
const passWindow = 120

// PassResult describes one drain pass.
type PassResult struct {
	StartedAt time.Time
	Duration  time.Duration
	Executed  [3]int // indexed by Priority
	Failed    int
	Remaining int
	// Skipped is set when the pass was refused because another pass was
	// already running.
	Skipped bool
}

// Total returns the number of tasks started in the pass.
func (r PassResult) Total() int {
	return r.Executed[PriorityHigh] + r.Executed[PriorityNormal] + r.Executed[PriorityLow]
}

// Observer receives scheduler events. Implementations must not block.
type Observer interface {
	OnSchedule(p Priority)
	OnPass(result PassResult)
	OnTaskFailure(p Priority, err error)
}

type nopObserver struct{}

func (nopObserver) OnSchedule(Priority)           {}
func (nopObserver) OnPass(PassResult)             {}
func (nopObserver) OnTaskFailure(Priority, error) {}

// Stats is a point-in-time snapshot of the scheduler.
type Stats struct {
	Queued    map[string]int `json:"queued"`
	Passes    uint64         `json:"passes"`
	Executed  uint64         `json:"executed"`
	Failed    uint64         `json:"failed"`
	FrameTime time.Duration  `json:"frame_time"`
	LastPass  time.Duration  `json:"last_pass"`
	MeanPass  time.Duration  `json:"mean_pass"`
	P95Pass   time.Duration  `json:"p95_pass"`
	Draining  bool           `json:"draining"`
}

// passHistory is a fixed-size ring of recent pass durations in seconds.
type passHistory struct {
	samples [passWindow]float64
	next    int
	full    bool
}

func (h *passHistory) add(d time.Duration) {
	h.samples[h.next] = d.Seconds()
	h.next = (h.next + 1) % passWindow
	if h.next == 0 {
		h.full = true
	}
}

func (h *passHistory) values() []float64 {
	n := h.next
	if h.full {
		n = passWindow
	}
	out := make([]float64, n)
	copy(out, h.samples[:n])
	return out
}

// summarize returns mean and 95th percentile of the recorded passes.
func (h *passHistory) summarize() (mean, p95 time.Duration) {
	xs := h.values()
	if len(xs) == 0 {
		return 0, 0
	}

	slices.Sort(xs)
	mean = secondsToDuration(stat.Mean(xs, nil))
	p95 = secondsToDuration(stat.Quantile(0.95, stat.Empirical, xs, nil))
	return mean, p95
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
