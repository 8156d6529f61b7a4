// Package http provides the handlers of the shell's local REST API.
//
// The UI process and developer tools talk to the shell through these
// endpoints; browser commands go through the command bridge so they share
// its timeout, breaker and metrics.
//
// Endpoints:
//   - Health: / and /health
//   - Metrics: /metrics (Prometheus)
//   - Commands: GET /commands, POST /commands/:name
//   - Tabs: GET /tabs
//   - Settings: GET|PUT /settings, /settings/reset, /settings/export, /settings/import
//   - Privacy: POST /browsing-data/clear
//   - Scheduler: GET /scheduler/stats
//   - Performance: GET /performance, PUT /performance/mode, PUT /performance/fps
//   - Notifications: GET /notifications, DELETE /notifications/:id
//
// Example Usage:
//
//	handlers := http.NewHandlers(deps)
//	handlers.Register(router)
package http
