// Package monitoring provides Prometheus metrics and the optional
// HTTP observer listener.
//
// The MCP transport owns stdin/stdout, so everything here lives on a
// separate listener that is disabled unless an address is configured.
//
// Endpoints:
//   - /health: JSON summary (session liveness, PID, counters)
//   - /metrics: Prometheus exposition
//   - /ws/screen: read-only WebSocket mirror of the rendered screen
//
// Metric Domains:
//   - termgate_http_*: observer listener traffic
//   - termgate_tool_*: tool call counts and latency
//   - termgate_exec_*: one-shot command outcomes
//   - termgate_session_*, termgate_pty_*: terminal lifecycle and I/O
//
// Example Usage:
//
//	metrics := monitoring.NewMetrics()
//	l := monitoring.NewListener(cfg, logger, metrics, view)
//	go l.Run()
package monitoring
