// Package bridge is the typed command boundary between the shell front end
// and its host.
//
// Commands are declared once with NewCommand and served with Handle. Go
// callers use Invoke and get compile-time checked parameters and results;
// the HTTP and webview layer uses InvokeJSON with raw JSON. Every call runs
// under a timeout and a circuit breaker, and is timed and logged.
package bridge

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/resilience"
)

// Observer receives the outcome of every invocation.
type Observer interface {
	OnCommand(command string, duration time.Duration, err error)
}

// route is the type-erased form of a registered handler.
type route struct {
	handler any
	json    func(ctx context.Context, raw []byte) (any, error)
}

// Bridge dispatches commands to registered handlers.
type Bridge struct {
	logger          *zap.Logger
	observer        Observer
	timeout         time.Duration
	now             func() time.Time
	breakerSettings resilience.Settings
	breaker         *resilience.Breaker

	mu     sync.RWMutex
	routes map[string]route
}

// New creates an empty bridge.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		logger: zap.NewNop(),
		now:    time.Now,
		routes: make(map[string]route),
	}
	for _, opt := range opts {
		opt(b)
	}

	settings := b.breakerSettings
	isFailure := settings.IsFailure
	settings.IsFailure = func(err error) bool {
		if err == nil || callerFault(err) {
			return false
		}
		if isFailure != nil {
			return isFailure(err)
		}
		return true
	}
	onChange := settings.OnStateChange
	settings.OnStateChange = func(name string, from, to resilience.State) {
		b.logger.Warn("Host breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		if onChange != nil {
			onChange(name, from, to)
		}
	}
	b.breaker = resilience.New("bridge", settings)

	return b
}

// Handle registers fn as the handler of cmd.
func Handle[P, R any](b *Bridge, cmd Command[P, R], fn Handler[P, R]) error {
	if fn == nil {
		return fmt.Errorf("command %s: nil handler", cmd.name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.routes[cmd.name]; exists {
		return &CommandError{Command: cmd.name, Err: ErrDuplicateCommand}
	}

	b.routes[cmd.name] = route{
		handler: fn,
		json: func(ctx context.Context, raw []byte) (any, error) {
			params, err := decodeParams[P](raw)
			if err != nil {
				return nil, err
			}
			return fn(ctx, params)
		},
	}
	return nil
}

// Invoke calls cmd with typed params.
func Invoke[P, R any](ctx context.Context, b *Bridge, cmd Command[P, R], params P) (R, error) {
	var zero R

	r, ok := b.lookup(cmd.name)
	if !ok {
		return zero, b.fail(cmd.name, 0, ErrUnknownCommand)
	}
	fn, ok := r.handler.(Handler[P, R])
	if !ok {
		return zero, b.fail(cmd.name, 0, ErrTypeMismatch)
	}

	out, err := b.call(ctx, cmd.name, func(ctx context.Context) (any, error) {
		return fn(ctx, params)
	})
	if err != nil {
		return zero, err
	}
	res, _ := out.(R)
	return res, nil
}

// InvokeJSON calls the command registered under name with JSON params and
// returns the JSON-encoded result. Empty or null params decode to the zero
// parameter value.
func (b *Bridge) InvokeJSON(ctx context.Context, name string, raw []byte) ([]byte, error) {
	r, ok := b.lookup(name)
	if !ok {
		return nil, b.fail(name, 0, ErrUnknownCommand)
	}

	out, err := b.call(ctx, name, func(ctx context.Context) (any, error) {
		return r.json(ctx, raw)
	})
	if err != nil {
		return nil, err
	}

	encoded, err := sonic.Marshal(out)
	if err != nil {
		return nil, &CommandError{Command: name, Err: fmt.Errorf("encode result: %w", err)}
	}
	return encoded, nil
}

// Commands returns the registered command names in sorted order.
func (b *Bridge) Commands() []string {
	b.mu.RLock()
	names := make([]string, 0, len(b.routes))
	for name := range b.routes {
		names = append(names, name)
	}
	b.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Has reports whether a command is registered under name.
func (b *Bridge) Has(name string) bool {
	_, ok := b.lookup(name)
	return ok
}

// BreakerState returns the state of the host circuit breaker.
func (b *Bridge) BreakerState() resilience.State {
	return b.breaker.State()
}

func (b *Bridge) lookup(name string) (route, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.routes[name]
	return r, ok
}

// call runs fn under the timeout and breaker and records the outcome.
func (b *Bridge) call(ctx context.Context, name string, fn func(context.Context) (any, error)) (any, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := b.now()
	var out any
	err := b.breaker.Execute(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
			}
		}()
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err = fn(ctx)
		return err
	})
	elapsed := b.now().Sub(start)

	if err != nil {
		return nil, b.fail(name, elapsed, err)
	}

	if b.observer != nil {
		b.observer.OnCommand(name, elapsed, nil)
	}
	b.logger.Debug("Command completed", zap.String("command", name), zap.Duration("duration", elapsed))
	return out, nil
}

func (b *Bridge) fail(name string, elapsed time.Duration, err error) error {
	if b.observer != nil {
		b.observer.OnCommand(name, elapsed, err)
	}

	level := zap.ErrorLevel
	if callerFault(err) {
		level = zap.WarnLevel
	}
	b.logger.Log(level, "Command failed",
		zap.String("command", name),
		zap.Duration("duration", elapsed),
		zap.Error(err),
	)
	return &CommandError{Command: name, Err: err}
}

func decodeParams[P any](raw []byte) (P, error) {
	var params P
	if len(raw) == 0 || string(raw) == "null" {
		return params, nil
	}
	if err := sonic.Unmarshal(raw, &params); err != nil {
		return params, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return params, nil
}
