package llm

import (
	"context"
	"strings"
	"time"

	"github.com/mvpagent/mvpagent/internal/ports"
)

// metricsLLM records per-request latency, outcome, and token usage through
// the injected collector.
type metricsLLM struct {
	next      CoreLLM
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that collects request metrics,
// labeled by provider, model, and outcome.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{
			next:      next,
			collector: collector,
		}
	}
}

// DoRequest executes the request and records latency, a request counter,
// and token counters on success. Failures are labeled by their classified
// category so rate limits and timeouts can be alerted on separately.
func (m *metricsLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	start := time.Now()
	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, prompt, opts)

	labels := map[string]string{
		"provider": m.extractProvider(),
		"model":    m.next.GetModel(),
		"status":   "success",
	}

	if err != nil {
		labels["status"] = statusLabel(ctx, err)
	}

	if m.collector != nil {
		m.collector.RecordHistogram("llm_latency_seconds", time.Since(start).Seconds(), labels)
		m.collector.RecordCounter("llm_requests_total", 1, labels)

		if err == nil {
			labels["token_type"] = "input"
			m.collector.RecordCounter("llm_tokens_total", float64(tokensIn), labels)

			labels["token_type"] = "output"
			m.collector.RecordCounter("llm_tokens_total", float64(tokensOut), labels)
		}
	}

	return response, tokensIn, tokensOut, err
}

// statusLabel maps a failure to a metric label using the classified error
// type when available.
func statusLabel(ctx context.Context, err error) string {
	if errType, ok := TypeOf(err); ok {
		switch errType {
		case ErrorTypeRateLimit:
			return "rate_limited"
		case ErrorTypeTimeout:
			return "timeout"
		case ErrorTypeAuthentication:
			return "auth_failed"
		case ErrorTypeContentPolicy:
			return "content_policy"
		}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return "timeout"
	}
	return "error"
}

func (m *metricsLLM) extractProvider() string {
	model := m.next.GetModel()
	if strings.Contains(model, "gpt") {
		return "openai"
	} else if strings.Contains(model, "claude") {
		return "anthropic"
	} else if strings.Contains(model, "gemini") {
		return "google"
	} else if strings.Contains(model, "mock") {
		return "mock"
	}
	return "unknown"
}

// GetModel returns the model name from the wrapped implementation.
func (m *metricsLLM) GetModel() string { return m.next.GetModel() }

// SetModel updates the model name in the wrapped implementation.
func (m *metricsLLM) SetModel(model string) { m.next.SetModel(model) }
