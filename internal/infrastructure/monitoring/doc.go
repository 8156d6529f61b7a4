/*
Package monitoring provides Prometheus metrics for the shell runtime.

# Overview

Metrics live on a private registry and cover HTTP requests, scheduler passes,
host command calls, notifications, WebSocket connections and memory
pressure. *Metrics implements scheduler.Observer directly and is handed to
the bridge as its command observer.

# Usage

	metrics := monitoring.NewMetrics()

	sched := scheduler.New(scheduler.WithObserver(metrics))
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Uptime is refreshed by a timer the caller owns.
	_ = metrics.StartUptime(group)
*/
package monitoring
