package notify

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/shared/id"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/timers"
)

const defaultBuffer = 16

// Observer counts shown notifications.
type Observer interface {
	RecordNotification(level string)
}

// Option configures a Center.
type Option func(*Center)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Center) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithObserver attaches a metrics hook.
func WithObserver(o Observer) Option {
	return func(c *Center) {
		c.observer = o
	}
}

// WithBuffer sets the per-subscriber channel size.
func WithBuffer(n int) Option {
	return func(c *Center) {
		if n > 0 {
			c.buffer = n
		}
	}
}

// Center holds the visible notifications and fans out events.
type Center struct {
	logger   *zap.Logger
	observer Observer
	ttl      time.Duration
	buffer   int
	timers   *timers.Group

	mu      sync.Mutex
	active  []Notification
	expiry  map[id.NotificationID]*timers.Handle
	subs    map[int]chan Event
	nextSub int
	closed  bool
}

// NewCenter creates a notification center. Expiry timers run on the
// center's own timer group, released by Close.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		logger: zap.NewNop(),
		ttl:    DefaultTTL,
		buffer: defaultBuffer,
		expiry: make(map[id.NotificationID]*timers.Handle),
		subs:   make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.timers = timers.NewGroup(c.logger)
	return c
}

// Show makes a notification visible for the TTL and returns it. After Close
// it is only logged.
func (c *Center) Show(message string, level Level) Notification {
	now := time.Now()
	n := Notification{
		ID:        id.NewNotificationID(),
		Message:   message,
		Level:     ParseLevel(string(level)),
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.logger.Debug("Notification shown",
		zap.String("id", n.ID.String()),
		zap.String("level", string(n.Level)),
		zap.String("message", n.Message),
	)
	if c.observer != nil {
		c.observer.RecordNotification(string(n.Level))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return n
	}

	h, err := c.timers.After("notification "+n.ID.String(), c.ttl, func() { c.Dismiss(n.ID) })
	if err != nil {
		return n
	}

	c.active = append(c.active, n)
	c.expiry[n.ID] = h
	c.publishLocked(Event{Type: EventShown, Notification: n})
	return n
}

// Info shows an info notification.
func (c *Center) Info(message string) Notification { return c.Show(message, LevelInfo) }

// Success shows a success notification.
func (c *Center) Success(message string) Notification { return c.Show(message, LevelSuccess) }

// Warning shows a warning notification.
func (c *Center) Warning(message string) Notification { return c.Show(message, LevelWarning) }

// Error shows an error notification.
func (c *Center) Error(message string) Notification { return c.Show(message, LevelError) }

// Dismiss removes a notification before it expires. It reports whether the
// notification was still visible.
func (c *Center) Dismiss(nid id.NotificationID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.active, func(n Notification) bool { return n.ID == nid })
	if i < 0 {
		return false
	}

	n := c.active[i]
	c.active = slices.Delete(c.active, i, i+1)
	if h, ok := c.expiry[nid]; ok {
		h.Stop()
		delete(c.expiry, nid)
	}
	c.publishLocked(Event{Type: EventRemoved, Notification: n})
	return true
}

// Active returns the visible notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.active)
}

// Subscribe returns a channel of events and a function that ends the
// subscription. A subscriber that falls behind misses events. The channel
// is closed when the subscription ends or the center closes.
func (c *Center) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Event, c.buffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	key := c.nextSub
	c.nextSub++
	c.subs[key] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[key]; ok {
				delete(c.subs, key)
				close(sub)
			}
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (c *Center) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Close stops expiry timers and ends every subscription.
func (c *Center) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for key, ch := range c.subs {
		close(ch)
		delete(c.subs, key)
	}
	c.mu.Unlock()

	// Expiry callbacks take c.mu, so the group is closed outside it.
	c.timers.Close()
}

func (c *Center) publishLocked(e Event) {
	for _, ch := range c.subs {
		select {
		case ch <- e:
		default:
			c.logger.Debug("Dropping notification event for slow subscriber",
				zap.String("id", e.Notification.ID.String()))
		}
	}
}
