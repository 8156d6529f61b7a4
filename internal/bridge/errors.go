package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/infrastructure/resilience"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrDuplicateCommand = errors.New("command already registered")
	ErrInvalidParams    = errors.New("invalid command parameters")
	ErrTypeMismatch     = errors.New("command registered with different parameter or result types")
	ErrHandlerPanicked  = errors.New("command handler panicked")
)

// CommandError is returned for every failed invocation. Err carries the
// cause, so errors.Is sees through it to the sentinels above, to
// resilience.ErrCircuitOpen and to the handler's own errors.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err means the host refused the call without
// running it.
func IsUnavailable(err error) bool {
	return errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests)
}

// callerFault reports errors that say nothing about host health.
func callerFault(err error) bool {
	return errors.Is(err, ErrInvalidParams) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, context.Canceled)
}
