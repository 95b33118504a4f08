package ports

import "time"

// MetricsCollector is the interface for recording operational metrics.
// Implementations integrate with observability backends such as Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation. The labels
	// map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric, for events like cache
	// hits, retries, or errors.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, for distributions
	// like response sizes or scores.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
