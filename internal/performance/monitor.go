package performance

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/scheduler"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/timers"
)

// DefaultCheckInterval is how often the heap is sampled.
const DefaultCheckInterval = 5 * time.Second

// TaskScheduler queues work on the frame scheduler.
type TaskScheduler interface {
	Schedule(fn scheduler.TaskFunc, p scheduler.Priority)
}

// MemoryObserver receives heap readings.
type MemoryObserver interface {
	RecordMemory(heap uint64, collected bool)
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithHeapReader replaces the runtime heap reading.
func WithHeapReader(read func() uint64) MonitorOption {
	return func(m *Monitor) { m.readHeap = read }
}

// WithCollector replaces the collection run by the GC task.
func WithCollector(collect func()) MonitorOption {
	return func(m *Monitor) { m.collect = collect }
}

// WithMemoryObserver attaches a metrics hook.
func WithMemoryObserver(o MemoryObserver) MonitorOption {
	return func(m *Monitor) { m.observer = o }
}

// WithMonitorLogger sets the logger.
func WithMonitorLogger(logger *zap.Logger) MonitorOption {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Monitor watches heap usage against the tuner's threshold.
type Monitor struct {
	tuner    *Tuner
	sched    TaskScheduler
	readHeap func() uint64
	collect  func()
	observer MemoryObserver
	logger   *zap.Logger

	pending   atomic.Bool
	collected atomic.Uint64
}

// NewMonitor creates a memory monitor. It does nothing until Check or Start
// is called.
func NewMonitor(tuner *Tuner, sched TaskScheduler, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		tuner:    tuner,
		sched:    sched,
		readHeap: heapAlloc,
		collect:  collect,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Check samples the heap once. Above the threshold it queues a high-priority
// collection unless one is already queued, and reports whether it did.
func (m *Monitor) Check() bool {
	heap := m.readHeap()
	if m.observer != nil {
		m.observer.RecordMemory(heap, false)
	}

	if !m.tuner.Active() || heap <= m.tuner.MemoryThreshold() {
		return false
	}
	if !m.pending.CompareAndSwap(false, true) {
		return false
	}

	m.logger.Debug("Memory pressure, queueing collection",
		zap.Uint64("heap", heap),
		zap.Uint64("threshold", m.tuner.MemoryThreshold()),
	)
	m.sched.Schedule(m.runCollection, scheduler.PriorityHigh)
	return true
}

func (m *Monitor) runCollection() error {
	defer m.pending.Store(false)

	m.collect()
	m.collected.Add(1)
	if m.observer != nil {
		m.observer.RecordMemory(m.readHeap(), true)
	}
	return nil
}

// Collections returns how many pressure collections have run.
func (m *Monitor) Collections() uint64 {
	return m.collected.Load()
}

// Start runs Check every interval on a timer owned by g.
func (m *Monitor) Start(g *timers.Group, interval time.Duration) (*timers.Handle, error) {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return g.Every("memory-monitor", interval, func() { m.Check() })
}

func heapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

func collect() {
	runtime.GC()
	debug.FreeOSMemory()
}
