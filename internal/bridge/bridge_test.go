package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/resilience"
)

type greetParams struct {
	Name string `json:"name"`
}

type greetResult struct {
	Greeting string `json:"greeting"`
}

var (
	greet = NewCommand[greetParams, greetResult]("greet")
	fail  = NewCommand[Empty, Empty]("fail")
)

type call struct {
	command string
	err     error
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []call
}

func (o *recordingObserver) OnCommand(command string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, call{command: command, err: err})
}

func greetHandler(_ context.Context, p greetParams) (greetResult, error) {
	if p.Name == "" {
		p.Name = "stranger"
	}
	return greetResult{Greeting: "hello " + p.Name}, nil
}

func newGreeter(t *testing.T, opts ...Option) *Bridge {
	t.Helper()
	b := New(opts...)
	require.NoError(t, Handle(b, greet, greetHandler))
	return b
}

func TestInvoke(t *testing.T) {
	b := newGreeter(t)

	res, err := Invoke(context.Background(), b, greet, greetParams{Name: "tab"})
	require.NoError(t, err)
	assert.Equal(t, "hello tab", res.Greeting)
}

func TestInvokeJSON(t *testing.T) {
	b := newGreeter(t)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "params", raw: `{"name":"json"}`, want: `{"greeting":"hello json"}`},
		{name: "empty body", raw: ``, want: `{"greeting":"hello stranger"}`},
		{name: "null body", raw: `null`, want: `{"greeting":"hello stranger"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := b.InvokeJSON(context.Background(), "greet", []byte(tt.raw))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestInvokeJSONInvalidParams(t *testing.T) {
	b := newGreeter(t)

	_, err := b.InvokeJSON(context.Background(), "greet", []byte(`{"name":`))

	assert.ErrorIs(t, err, ErrInvalidParams)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "greet", cmdErr.Command)
}

func TestUnknownCommand(t *testing.T) {
	obs := &recordingObserver{}
	b := New(WithObserver(obs))

	_, err := b.InvokeJSON(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = Invoke(context.Background(), b, greet, greetParams{})
	assert.ErrorIs(t, err, ErrUnknownCommand)

	require.Len(t, obs.calls, 2)
	assert.Equal(t, "nope", obs.calls[0].command)
}

func TestDuplicateCommand(t *testing.T) {
	b := newGreeter(t)

	err := Handle(b, greet, greetHandler)
	assert.ErrorIs(t, err, ErrDuplicateCommand)
	assert.Error(t, Handle[Empty, Empty](b, fail, nil))
}

func TestTypeMismatch(t *testing.T) {
	b := newGreeter(t)
	impostor := NewCommand[Empty, Empty]("greet")

	_, err := Invoke(context.Background(), b, impostor, Empty{})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestHandlerErrorIsWrapped(t *testing.T) {
	errHost := errors.New("host exploded")
	core, logs := observer.New(zap.WarnLevel)
	obs := &recordingObserver{}
	b := New(WithLogger(zap.New(core)), WithObserver(obs))
	require.NoError(t, Handle(b, fail, func(context.Context, Empty) (Empty, error) {
		return Empty{}, errHost
	}))

	_, err := Invoke(context.Background(), b, fail, Empty{})

	assert.ErrorIs(t, err, errHost)
	assert.EqualError(t, err, "command fail: host exploded")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.ErrorLevel, logs.All()[0].Level)
	require.Len(t, obs.calls, 1)
	assert.ErrorIs(t, obs.calls[0].err, errHost)
}

func TestHandlerPanicBecomesError(t *testing.T) {
	b := New()
	require.NoError(t, Handle(b, fail, func(context.Context, Empty) (Empty, error) {
		panic("kaboom")
	}))

	var err error
	require.NotPanics(t, func() {
		_, err = Invoke(context.Background(), b, fail, Empty{})
	})
	assert.ErrorIs(t, err, ErrHandlerPanicked)
}

func TestTimeout(t *testing.T) {
	b := New(WithTimeout(10 * time.Millisecond))
	require.NoError(t, Handle(b, fail, func(ctx context.Context, _ Empty) (Empty, error) {
		<-ctx.Done()
		return Empty{}, ctx.Err()
	}))

	_, err := Invoke(context.Background(), b, fail, Empty{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCancelledContextSkipsHandler(t *testing.T) {
	b := New()
	called := false
	require.NoError(t, Handle(b, fail, func(context.Context, Empty) (Empty, error) {
		called = true
		return Empty{}, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Invoke(ctx, b, fail, Empty{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestBreakerOpensOnHostFailures(t *testing.T) {
	var transitions []string
	b := New(WithBreakerSettings(resilience.Settings{
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 2 },
		Timeout:     time.Hour,
		OnStateChange: func(_ string, from, to resilience.State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	}))
	calls := 0
	require.NoError(t, Handle(b, fail, func(context.Context, Empty) (Empty, error) {
		calls++
		return Empty{}, errors.New("down")
	}))

	for i := 0; i < 2; i++ {
		_, _ = Invoke(context.Background(), b, fail, Empty{})
	}
	_, err := Invoke(context.Background(), b, fail, Empty{})

	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.True(t, IsUnavailable(err))
	assert.Equal(t, 2, calls)
	assert.Equal(t, resilience.StateOpen, b.BreakerState())
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestBreakerIgnoresCallerMistakes(t *testing.T) {
	b := newGreeter(t, WithBreakerSettings(resilience.Settings{
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 1 },
	}))

	for i := 0; i < 5; i++ {
		_, err := b.InvokeJSON(context.Background(), "greet", []byte(`[`))
		require.ErrorIs(t, err, ErrInvalidParams)
	}

	assert.Equal(t, resilience.StateClosed, b.BreakerState())
}

func TestBreakerCustomFailureFilter(t *testing.T) {
	errNotFound := errors.New("not found")
	b := New(WithBreakerSettings(resilience.Settings{
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 1 },
		IsFailure:   func(err error) bool { return !errors.Is(err, errNotFound) },
	}))
	require.NoError(t, Handle(b, fail, func(context.Context, Empty) (Empty, error) {
		return Empty{}, errNotFound
	}))

	_, err := Invoke(context.Background(), b, fail, Empty{})
	assert.ErrorIs(t, err, errNotFound)
	assert.Equal(t, resilience.StateClosed, b.BreakerState())
}

func TestCommands(t *testing.T) {
	b := newGreeter(t)
	require.NoError(t, Handle(b, fail, func(context.Context, Empty) (Empty, error) { return Empty{}, nil }))

	assert.Equal(t, []string{"fail", "greet"}, b.Commands())
	assert.True(t, b.Has("greet"))
	assert.False(t, b.Has("nope"))
	assert.Equal(t, "greet", greet.Name())
}

func TestConcurrentInvoke(t *testing.T) {
	b := newGreeter(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := Invoke(context.Background(), b, greet, greetParams{Name: "x"})
			assert.NoError(t, err)
			assert.Equal(t, "hello x", res.Greeting)
		}()
	}
	wg.Wait()
}
