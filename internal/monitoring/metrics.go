package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics (observer listener)
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Tool metrics
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec

	// One-shot execution metrics
	ExecTotal    *prometheus.CounterVec
	ExecDuration prometheus.Histogram

	// Interactive session metrics
	InteractionsTotal *prometheus.CounterVec
	SafetyBlocks      *prometheus.CounterVec
	SessionSpawns     prometheus.Counter
	SessionDeaths     prometheus.Counter
	SessionsActive    prometheus.Gauge
	PTYBytesRead      prometheus.Counter
	PTYBytesWritten   prometheus.Counter
	PTYReadTimeouts   prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for the JSON health API
type MetricsSnapshot struct {
	TotalRequests int64 `json:"total_requests"`
	TotalErrors   int64 `json:"total_errors"`
	ExecCommands  int64 `json:"exec_commands"`
	Interactions  int64 `json:"interactions"`
	SafetyBlocks  int64 `json:"safety_blocks"`
	SessionSpawns int64 `json:"session_spawns"`
	SessionDeaths int64 `json:"session_deaths"`
	PTYBytesRead  int64 `json:"pty_bytes_read"`
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termgate_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termgate_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termgate_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termgate_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000},
			},
			[]string{"method", "path"},
		),

		// Tool metrics
		ToolCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termgate_tool_calls_total",
				Help: "Total number of tool calls",
			},
			[]string{"tool", "status"},
		),
		ToolDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termgate_tool_duration_seconds",
				Help:    "Tool call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"tool"},
		),

		// One-shot execution metrics
		ExecTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termgate_exec_total",
				Help: "Total number of one-shot commands by outcome",
			},
			[]string{"status"},
		),
		ExecDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "termgate_exec_duration_seconds",
				Help:    "One-shot command duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),

		// Interactive session metrics
		InteractionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termgate_interactions_total",
				Help: "Total number of terminal interactions by outcome",
			},
			[]string{"outcome"},
		),
		SafetyBlocks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termgate_safety_blocks_total",
				Help: "Total number of commands held for confirmation",
			},
			[]string{"tool"},
		),
		SessionSpawns: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termgate_session_spawns_total",
				Help: "Total number of terminal sessions spawned",
			},
		),
		SessionDeaths: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termgate_session_deaths_total",
				Help: "Total number of terminal sessions that exited",
			},
		),
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termgate_sessions_active",
				Help: "Number of live terminal sessions (0 or 1)",
			},
		),
		PTYBytesRead: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termgate_pty_bytes_read_total",
				Help: "Total bytes read from the PTY",
			},
		),
		PTYBytesWritten: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termgate_pty_bytes_written_total",
				Help: "Total bytes written to the PTY",
			},
		),
		PTYReadTimeouts: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termgate_pty_read_timeouts_total",
				Help: "Total PTY reads that returned no data in time",
			},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termgate_ws_connections",
				Help: "Number of active screen mirror connections",
			},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termgate_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// UptimeSeconds returns seconds since the collector was created
func (m *Metrics) UptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordToolCall records a tool call
func (m *Metrics) RecordToolCall(tool, status string, duration time.Duration) {
	m.ToolCalls.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordExec records a one-shot command outcome
func (m *Metrics) RecordExec(status string, duration time.Duration) {
	m.ExecTotal.WithLabelValues(status).Inc()
	m.ExecDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.ExecCommands++
	m.mu.Unlock()
}

// RecordInteraction records a terminal interaction outcome
func (m *Metrics) RecordInteraction(outcome string) {
	m.InteractionsTotal.WithLabelValues(outcome).Inc()

	m.mu.Lock()
	m.snapshot.Interactions++
	m.mu.Unlock()
}

// RecordSafetyBlock records a command held for confirmation
func (m *Metrics) RecordSafetyBlock(tool string) {
	m.SafetyBlocks.WithLabelValues(tool).Inc()

	m.mu.Lock()
	m.snapshot.SafetyBlocks++
	m.mu.Unlock()
}

// RecordSessionSpawn records a terminal spawn
func (m *Metrics) RecordSessionSpawn() {
	m.SessionSpawns.Inc()
	m.SessionsActive.Set(1)

	m.mu.Lock()
	m.snapshot.SessionSpawns++
	m.mu.Unlock()
}

// RecordSessionDeath records a terminal exit or termination
func (m *Metrics) RecordSessionDeath() {
	m.SessionDeaths.Inc()
	m.SessionsActive.Set(0)

	m.mu.Lock()
	m.snapshot.SessionDeaths++
	m.mu.Unlock()
}

// RecordPTYRead records bytes drained from the PTY
func (m *Metrics) RecordPTYRead(n int) {
	m.PTYBytesRead.Add(float64(n))

	m.mu.Lock()
	m.snapshot.PTYBytesRead += int64(n)
	m.mu.Unlock()
}

// RecordPTYWrite records bytes sent to the PTY
func (m *Metrics) RecordPTYWrite(n int) {
	m.PTYBytesWritten.Add(float64(n))
}

// RecordPTYReadTimeout records a read window that produced no data
func (m *Metrics) RecordPTYReadTimeout() {
	m.PTYReadTimeouts.Inc()
}

// IncWSConnections increments screen mirror connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements screen mirror connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// GetSnapshot returns a copy of the current snapshot values
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
