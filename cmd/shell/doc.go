// Package main is the entry point of the Vishwakarma browser shell host.
//
// The host runs the frame scheduler that paces UI work, the command bridge
// the UI calls into for tab and navigation commands, settings and
// notifications, and a local HTTP/WebSocket API for the UI process.
//
// Architecture:
//
//	UI (webview) → HTTP /commands/:name → Bridge → Tab manager
//	             ← WebSocket /stream     ← Notifications
//	Frame driver → Scheduler (high / normal / low tiers)
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./shell -port 8000 -storage ~/.vishwakarma/store.json
//
//	# Development mode (colored logs, debug level)
//	./shell -dev -fps 120 -mode quantum
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
