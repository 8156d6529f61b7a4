package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrTaskPanicked wraps the value recovered from a panicking task.
var ErrTaskPanicked = errors.New("scheduled task panicked")

// Scheduler queues tasks in three priority tiers and drains them once per
// frame under the frame budget.
//
// Schedule may be called from any goroutine, including from inside a running
// task. Tasks themselves only ever run on the goroutine calling OnFrame (the
// one running Run), one at a time.
type Scheduler struct {
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
	frames   FrameSource

	frameTime atomic.Int64 // time.Duration
	draining  atomic.Bool

	mu     sync.Mutex
	queue  queue
	seqNo  uint64
	stats  passHistory
	passes uint64
	runs   uint64
	fails  uint64
	last   time.Duration

	wake chan struct{}
}

// New creates a scheduler with a 60Hz budget unless overridden.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:   zap.NewNop(),
		observer: nopObserver{},
		now:      time.Now,
		wake:     make(chan struct{}, 1),
	}
	s.frameTime.Store(int64(DefaultFrameTime))

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Schedule appends fn to the tier of priority p. Out-of-range priorities go
// to the normal tier. Queues are unbounded.
func (s *Scheduler) Schedule(fn TaskFunc, p Priority) {
	if fn == nil {
		return
	}
	p = p.normalize()

	s.mu.Lock()
	s.seqNo++
	s.queue.push(&Task{
		fn:         fn,
		priority:   p,
		enqueuedAt: s.now(),
		seqNo:      s.seqNo,
	})
	s.mu.Unlock()

	s.observer.OnSchedule(p)
	s.notify()
}

// ScheduleNamed is Schedule with the tier given by name ("high", "normal",
// "low"). Anything else is treated as "normal".
func (s *Scheduler) ScheduleNamed(fn TaskFunc, priority string) {
	s.Schedule(fn, ParsePriority(priority))
}

// Go schedules a task that cannot fail.
func (s *Scheduler) Go(fn func(), p Priority) {
	if fn == nil {
		return
	}
	s.Schedule(func() error {
		fn()
		return nil
	}, p)
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// SetFrameTime changes the frame budget. Negative values become 0 (unlimited).
func (s *Scheduler) SetFrameTime(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.frameTime.Store(int64(d))
}

// FrameTime returns the current frame budget.
func (s *Scheduler) FrameTime() time.Duration {
	return time.Duration(s.frameTime.Load())
}

// Budget returns the budget a pass started now would use.
func (s *Scheduler) Budget() Budget {
	return Budget{FrameTime: s.FrameTime()}
}

// Len returns the number of queued tasks across all tiers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.len()
}

// Pending returns the number of queued tasks in tier p.
func (s *Scheduler) Pending(p Priority) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.lenOf(p.normalize())
}

// OnFrame runs one drain pass. It is the refresh callback: a call made while
// a pass is already running returns immediately with Skipped set.
func (s *Scheduler) OnFrame() PassResult {
	if !s.draining.CompareAndSwap(false, true) {
		return PassResult{Skipped: true}
	}
	defer s.draining.Store(false)

	budget := s.Budget()
	start := s.now()
	result := PassResult{StartedAt: start}
	quota := s.passQuota(budget)

	// Every ceiling is checked against the same start time.
	for _, p := range drainOrder {
		for budget.Allows(p, s.now().Sub(start)) {
			if quota != nil && result.Executed[p] >= quota[p] {
				break
			}
			task := s.pop(p)
			if task == nil {
				break
			}

			result.Executed[p]++
			if err := s.run(task); err != nil {
				result.Failed++
				s.logger.Warn("Scheduled task failed",
					zap.String("priority", p.String()),
					zap.Duration("queued_for", task.Wait(start)),
					zap.Error(err),
				)
				s.observer.OnTaskFailure(p, err)
			}
		}
	}

	result.Duration = s.now().Sub(start)

	s.mu.Lock()
	result.Remaining = s.queue.len()
	s.passes++
	s.runs += uint64(result.Total())
	s.fails += uint64(result.Failed)
	s.last = result.Duration
	s.stats.add(result.Duration)
	s.mu.Unlock()

	s.observer.OnPass(result)
	return result
}

// passQuota returns, for an unlimited budget, the per-tier number of tasks
// queued at the start of the pass. Tasks scheduled during such a pass wait
// for the next one. Budgeted passes return nil.
func (s *Scheduler) passQuota(budget Budget) *[3]int {
	if !budget.Unlimited() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var quota [3]int
	for _, p := range drainOrder {
		quota[p] = s.queue.lenOf(p)
	}
	return &quota
}

func (s *Scheduler) pop(p Priority) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.pop(p)
}

// run executes a task, turning a panic into an error.
func (s *Scheduler) run(task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return task.fn()
}

// Run drives OnFrame from the frame source until ctx is done. While the
// queues are empty it sleeps until Schedule wakes it. Tasks still queued when
// ctx ends stay queued.
func (s *Scheduler) Run(ctx context.Context) error {
	source := s.frames
	interval := frameInterval(s.FrameTime())
	if source == nil {
		ticker := NewTickerSource(interval)
		defer ticker.Stop()
		source = ticker
	}

	s.logger.Debug("Frame driver started", zap.Duration("frame_time", s.FrameTime()))

	for {
		if s.Len() == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.wake:
				continue
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-source.Frames():
			s.OnFrame()
		}

		if next := frameInterval(s.FrameTime()); next != interval {
			source.Reset(next)
			interval = next
		}
	}
}

// Stats returns a snapshot of queue depths and pass timings.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	queued := make(map[string]int, len(drainOrder))
	for _, p := range drainOrder {
		queued[p.String()] = s.queue.lenOf(p)
	}

	mean, p95 := s.stats.summarize()
	return Stats{
		Queued:    queued,
		Passes:    s.passes,
		Executed:  s.runs,
		Failed:    s.fails,
		FrameTime: s.FrameTime(),
		LastPass:  s.last,
		MeanPass:  mean,
		P95Pass:   p95,
		Draining:  s.draining.Load(),
	}
}

func frameInterval(frameTime time.Duration) time.Duration {
	return clampInterval(frameTime)
}
