// Package timers provides scoped repeating and one-shot timers.
//
// Every timer belongs to a Group. Stopping a handle cancels one timer;
// closing the group cancels all of them and waits for callbacks already in
// flight, so a component that owns a Group can shut down without leaking
// goroutines.
package timers

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrInvalidInterval = errors.New("timer interval must be positive")
	ErrGroupClosed     = errors.New("timer group is closed")
)

// Handle controls a single timer. Stop is safe to call more than once and
// from inside the timer's own callback.
type Handle struct {
	name string
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newHandle(name string) *Handle {
	return &Handle{
		name: name,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Stop cancels the timer. A callback that is already running finishes.
func (h *Handle) Stop() {
	h.once.Do(func() { close(h.stop) })
}

// Done is closed once the timer goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Name returns the label given when the timer was started.
func (h *Handle) Name() string {
	return h.name
}

// Group owns a set of timers.
type Group struct {
	logger *zap.Logger

	mu      sync.Mutex
	handles map[*Handle]struct{}
	closed  bool
	wg      sync.WaitGroup
}

// NewGroup creates an empty group. A nil logger discards callback panics.
func NewGroup(logger *zap.Logger) *Group {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Group{
		logger:  logger,
		handles: make(map[*Handle]struct{}),
	}
}

// Every calls fn every interval until the handle is stopped or the group is
// closed. The first call happens one interval after Every returns.
func (g *Group) Every(name string, interval time.Duration, fn func()) (*Handle, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	h, err := g.add(name)
	if err != nil {
		return nil, err
	}

	go func() {
		defer g.finish(h)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
			}

			// A stop that raced with the tick wins.
			select {
			case <-h.stop:
				return
			default:
			}
			g.call(h, fn)
		}
	}()

	return h, nil
}

// After calls fn once after d unless the handle is stopped first. A
// non-positive d fires on the next scheduling opportunity.
func (g *Group) After(name string, d time.Duration, fn func()) (*Handle, error) {
	h, err := g.add(name)
	if err != nil {
		return nil, err
	}

	go func() {
		defer g.finish(h)

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-h.stop:
		case <-timer.C:
			g.call(h, fn)
		}
	}()

	return h, nil
}

// Len returns the number of live timers.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handles)
}

// Close stops every timer and waits for their goroutines to exit. Later
// calls to Every and After fail with ErrGroupClosed. Close must not be called
// from inside a timer callback of the same group.
func (g *Group) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.wg.Wait()
		return
	}
	g.closed = true
	for h := range g.handles {
		h.Stop()
	}
	g.mu.Unlock()

	g.wg.Wait()
}

func (g *Group) add(name string) (*Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, ErrGroupClosed
	}

	h := newHandle(name)
	g.handles[h] = struct{}{}
	g.wg.Add(1)
	return h, nil
}

func (g *Group) finish(h *Handle) {
	g.mu.Lock()
	delete(g.handles, h)
	g.mu.Unlock()

	close(h.done)
	g.wg.Done()
}

func (g *Group) call(h *Handle, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Timer callback panicked",
				zap.String("timer", h.name),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
