package gitlab

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for tool calls and the GitLab requests behind them.
// A nil *Metrics is valid and records nothing.
//
// Metrics:
//   - gitlab_mcp_tool_calls_total{tool,outcome} - tool invocations by outcome (success or error kind)
//   - gitlab_mcp_tool_call_duration_seconds{tool} - tool handler latency
//   - gitlab_mcp_upstream_requests_total{method,operation,status} - GitLab API requests by status code
type Metrics struct {
	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec
	UpstreamRequests *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
// Registering twice on the same registry panics, so callers own a registry per server.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ToolCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitlab_mcp_tool_calls_total",
				Help: "Total number of MCP tool calls",
			},
			[]string{"tool", "outcome"},
		),
		ToolCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gitlab_mcp_tool_call_duration_seconds",
				Help:    "Duration of MCP tool calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		UpstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitlab_mcp_upstream_requests_total",
				Help: "Total number of requests sent to the GitLab API",
			},
			[]string{"method", "operation", "status"},
		),
	}
}

func (m *Metrics) observeToolCall(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ToolCallsTotal.WithLabelValues(tool, outcome).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

func (m *Metrics) observeUpstream(method, operation, status string) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(method, operation, status).Inc()
}
