package monitoring

import (
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/scheduler"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/timers"
)

const namespace = "shell"

// Metrics holds all Prometheus metrics of the runtime. Each instance owns
// its registry, so several runtimes (or tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Scheduler metrics
	TasksScheduled *prometheus.CounterVec
	TasksExecuted  *prometheus.CounterVec
	TaskFailures   *prometheus.CounterVec
	PassDuration   prometheus.Histogram
	QueueDepth     prometheus.Gauge

	// Bridge metrics
	CommandCalls    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	BreakerState    *prometheus.GaugeVec

	// Notification metrics
	Notifications *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// Memory metrics
	HeapBytes   prometheus.Gauge
	GCTriggered prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for the JSON API
	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current values for the health endpoint.
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	AvgLatencyMS      float64 `json:"avg_latency_ms"`
	ActiveConnections int64   `json:"active_connections"`
	CommandCalls      int64   `json:"command_calls"`
	CommandErrors     int64   `json:"command_errors"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector on a fresh registry that also
// carries the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),

		TasksScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "tasks_scheduled_total",
				Help:      "Tasks queued, by priority tier",
			},
			[]string{"priority"},
		),
		TasksExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "tasks_executed_total",
				Help:      "Tasks started by a drain pass, by priority tier",
			},
			[]string{"priority"},
		),
		TaskFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "task_failures_total",
				Help:      "Tasks that returned an error or panicked",
			},
			[]string{"priority"},
		),
		PassDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "pass_duration_seconds",
				Help:      "Wall time of one drain pass",
				Buckets:   []float64{.0005, .001, .002, .004, .008, .0125, .0167, .025, .05, .1},
			},
		),
		QueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "queue_depth",
				Help:      "Tasks left queued after the last pass",
			},
		),

		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bridge",
				Name:      "command_calls_total",
				Help:      "Host command invocations",
			},
			[]string{"command", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "bridge",
				Name:      "command_duration_seconds",
				Help:      "Host command duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"command"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "bridge",
				Name:      "breaker_state",
				Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"breaker"},
		),

		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Notifications shown, by level",
			},
			[]string{"level"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		HeapBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "memory",
				Name:      "heap_alloc_bytes",
				Help:      "Heap bytes seen by the last memory check",
			},
		),
		GCTriggered: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "memory",
				Name:      "gc_triggered_total",
				Help:      "Garbage collections requested under memory pressure",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "uptime_seconds",
				Help:      "Runtime uptime in seconds",
			},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// StartUptime updates the uptime gauge every second on a timer owned by g.
func (m *Metrics) StartUptime(g *timers.Group) error {
	m.updateUptime()
	_, err := g.Every("uptime", time.Second, m.updateUptime)
	return err
}

func (m *Metrics) updateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// OnSchedule implements scheduler.Observer.
func (m *Metrics) OnSchedule(p scheduler.Priority) {
	m.TasksScheduled.WithLabelValues(p.String()).Inc()
}

// OnPass implements scheduler.Observer.
func (m *Metrics) OnPass(result scheduler.PassResult) {
	if result.Skipped {
		return
	}
	for _, p := range scheduler.Priorities() {
		if n := result.Executed[p]; n > 0 {
			m.TasksExecuted.WithLabelValues(p.String()).Add(float64(n))
		}
	}
	m.PassDuration.Observe(result.Duration.Seconds())
	m.QueueDepth.Set(float64(result.Remaining))
}

// OnTaskFailure implements scheduler.Observer.
func (m *Metrics) OnTaskFailure(p scheduler.Priority, _ error) {
	m.TaskFailures.WithLabelValues(p.String()).Inc()
}

// OnCommand records a host command invocation.
func (m *Metrics) OnCommand(command string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.CommandCalls.WithLabelValues(command, status).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.CommandCalls++
	if err != nil {
		m.snapshot.CommandErrors++
	}
	m.mu.Unlock()
}

// SetBreakerState records a circuit breaker state (0 closed, 1 half-open, 2 open).
func (m *Metrics) SetBreakerState(name string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordNotification counts a shown notification.
func (m *Metrics) RecordNotification(level string) {
	m.Notifications.WithLabelValues(level).Inc()
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message.
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections.
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections.
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// RecordMemory records a heap reading and whether it triggered a collection.
func (m *Metrics) RecordMemory(heap uint64, collected bool) {
	m.HeapBytes.Set(float64(heap))
	if collected {
		m.GCTriggered.Inc()
	}
}

// Snapshot returns the values served by the health endpoint.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()

	if s.TotalRequests > 0 {
		s.AvgLatencyMS = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}

// Goroutines returns the current goroutine count.
func Goroutines() int {
	return runtime.NumGoroutine()
}
