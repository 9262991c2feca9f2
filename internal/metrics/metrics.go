package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the adapter.
type Metrics struct {
	// Tool invocation metrics
	ToolInvocationsTotal *prometheus.CounterVec
	ToolDurationSeconds  *prometheus.HistogramVec

	// Upstream API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		ToolInvocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brevomcp_tool_invocations_total",
				Help: "Total number of tool invocations",
			},
			[]string{"tool", "status"},
		),
		ToolDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brevomcp_tool_duration_seconds",
				Help:    "Tool invocation duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool"},
		),
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brevomcp_api_requests_total",
				Help: "Total number of upstream API requests",
			},
			[]string{"method", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brevomcp_api_request_duration_seconds",
				Help:    "Upstream API request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),

		registry: reg,
	}

	reg.MustRegister(
		m.ToolInvocationsTotal,
		m.ToolDurationSeconds,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
	)

	return m
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTool records one tool invocation.
func (m *Metrics) ObserveTool(tool, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ToolInvocationsTotal.WithLabelValues(tool, status).Inc()
	m.ToolDurationSeconds.WithLabelValues(tool).Observe(duration.Seconds())
}

// ObserveRequest records one upstream API request. A status of 0 means
// the request never produced an HTTP response.
func (m *Metrics) ObserveRequest(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = statusLabel(status)
	}
	m.APIRequestsTotal.WithLabelValues(method, label).Inc()
	m.APIRequestDurationSeconds.WithLabelValues(method).Observe(duration.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
