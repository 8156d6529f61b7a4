// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output, one object per line
//   - Development: colored console output
//
// Each runtime component gets a named child logger, so lines carry a
// "component" field ("scheduler", "bridge", "settings", ...):
//
//	logger := logging.NewDefault()
//	sched := scheduler.New(scheduler.WithLogger(logger.Component("scheduler")))
//	logger.Info("Shell starting", zap.String("addr", ":8000"))
package logging
