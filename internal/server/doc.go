// Package server wires the shell's components together.
//
// This package orchestrates all components:
//   - Frame scheduler, driven by its own goroutine
//   - Command bridge with the browser commands registered
//   - Settings over the persisted key-value store
//   - Notifications and the WebSocket stream
//   - Performance tuner and memory monitor
//   - HTTP routing with Gin and the middleware stack
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Build components and register commands
//  4. Run: frame driver, HTTP server and timers under one errgroup
//  5. Graceful shutdown when the context is cancelled
//  6. Close: stop timers and streams, clear data if configured
//
// Example Usage:
//
//	srv, err := server.New(config.LoadOrDefault(), logger)
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.Run(ctx)
package server
