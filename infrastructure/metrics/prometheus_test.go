package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatewayLabels(status string) map[string]string {
	return map[string]string{
		"provider": "anthropic",
		"model":    "claude-3-5-sonnet-20241022",
		"status":   status,
	}
}

func TestRecordCounter_GatewayRequests(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordCounter("llm_requests_total", 1, gatewayLabels("success"))
	pm.RecordCounter("llm_requests_total", 1, gatewayLabels("success"))
	pm.RecordCounter("llm_requests_total", 1, gatewayLabels("rate_limited"))

	success := testutil.ToFloat64(pm.llmRequests.WithLabelValues(
		"anthropic", "claude-3-5-sonnet-20241022", "success"))
	assert.Equal(t, 2.0, success)

	limited := testutil.ToFloat64(pm.llmRequests.WithLabelValues(
		"anthropic", "claude-3-5-sonnet-20241022", "rate_limited"))
	assert.Equal(t, 1.0, limited)
}

func TestRecordCounter_Tokens(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	labels := gatewayLabels("success")
	labels["token_type"] = "input"
	pm.RecordCounter("llm_tokens_total", 120, labels)
	labels["token_type"] = "output"
	pm.RecordCounter("llm_tokens_total", 350, labels)

	input := testutil.ToFloat64(pm.llmTokens.WithLabelValues(
		"anthropic", "claude-3-5-sonnet-20241022", "input"))
	assert.Equal(t, 120.0, input)

	output := testutil.ToFloat64(pm.llmTokens.WithLabelValues(
		"anthropic", "claude-3-5-sonnet-20241022", "output"))
	assert.Equal(t, 350.0, output)
}

func TestRecordCounter_GenericOperations(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordCounter("validation_cache_hits", 1, nil)
	pm.RecordCounter("validation_failures", 1, map[string]string{"status": "error"})

	hits := testutil.ToFloat64(pm.operationCounter.WithLabelValues("validation_cache_hits", "success"))
	assert.Equal(t, 1.0, hits)

	failures := testutil.ToFloat64(pm.operationCounter.WithLabelValues("validation_failures", "error"))
	assert.Equal(t, 1.0, failures)
}

func TestRecordLatencyAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMetrics(reg)

	pm.RecordLatency("validate_feature", 250*time.Millisecond, map[string]string{"model": "m"})
	pm.RecordHistogram("llm_latency_seconds", 0.8, gatewayLabels("success"))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["validation_duration_seconds"])
	assert.True(t, names["llm_latency_seconds"])
}
