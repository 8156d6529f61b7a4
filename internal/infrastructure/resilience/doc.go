/*
Package resilience provides the circuit breaker that guards host command calls.

# Overview

Every bridge invocation runs through a Breaker. When the host keeps failing, the
breaker opens and calls fail fast with ErrCircuitOpen until Timeout elapses; a
limited number of trial calls then decide whether it closes again.

# Usage

	breaker := resilience.New("bridge", resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, bridge.ErrInvalidParams)
		},
	})

	err := breaker.Execute(func() error {
		return host.Call(ctx)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
