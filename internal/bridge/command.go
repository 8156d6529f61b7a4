package bridge

import "context"

// Command names a host command together with its parameter and result
// types. Declaring commands as package-level values gives callers a typed
// handle on both ends of the bridge:
//
//	var CloseTab = bridge.NewCommand[CloseTabParams, bridge.Empty]("close_tab")
type Command[P, R any] struct {
	name string
}

// NewCommand declares a command. name is the wire name used by InvokeJSON.
func NewCommand[P, R any](name string) Command[P, R] {
	return Command[P, R]{name: name}
}

// Name returns the wire name.
func (c Command[P, R]) Name() string {
	return c.name
}

// Handler serves one command.
type Handler[P, R any] func(ctx context.Context, params P) (R, error)

// Empty is the parameter or result type of commands that carry nothing.
type Empty struct{}
