// Package metrics provides the Prometheus-backed implementation of the
// MetricsCollector port.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mvpagent/mvpagent/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It tracks model gateway traffic (latency, outcomes, token
// consumption) and validation pipeline activity.
type PrometheusMetrics struct {
	llmLatency        *prometheus.HistogramVec
	llmRequests       *prometheus.CounterVec
	llmTokens         *prometheus.CounterVec
	validationLatency *prometheus.HistogramVec
	operationCounter  *prometheus.CounterVec
}

// NewPrometheusMetrics creates a collector and registers its metrics with
// the given registerer. Pass prometheus.DefaultRegisterer in production;
// tests use a fresh registry to avoid duplicate registration.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		llmLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_latency_seconds",
				Help:    "Latency of model gateway requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "model", "status"},
		),
		llmRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total model gateway requests by outcome.",
			},
			[]string{"provider", "model", "status"},
		),
		llmTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Total tokens consumed by model gateway requests.",
			},
			[]string{"provider", "model", "token_type"},
		),
		validationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "validation_duration_seconds",
				Help:    "End-to-end latency of feature validation operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "model"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mvpagent_operations_total",
				Help: "Total operations performed by the agent, by outcome.",
			},
			[]string{"operation", "status"},
		),
	}
}

// RecordLatency records an operation's execution time.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.validationLatency.WithLabelValues(operation, labels["model"]).Observe(duration.Seconds())
}

// RecordCounter increments the counter the metric name routes to. Unknown
// metrics land on the generic operation counter.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "llm_requests_total":
		pm.llmRequests.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Add(value)
	case "llm_tokens_total":
		pm.llmTokens.WithLabelValues(
			labels["provider"], labels["model"], labels["token_type"],
		).Add(value)
	default:
		status, ok := labels["status"]
		if !ok {
			status = "success"
		}
		pm.operationCounter.WithLabelValues(metric, status).Add(value)
	}
}

// RecordHistogram records a value in the histogram the metric name routes
// to.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "llm_latency_seconds":
		pm.llmLatency.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Observe(value)
	default:
		pm.validationLatency.WithLabelValues(metric, labels["model"]).Observe(value)
	}
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
