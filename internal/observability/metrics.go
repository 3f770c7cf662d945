package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	CompletionCalls   *prometheus.CounterVec
	CompletionLatency prometheus.Histogram
	GateRetries       *prometheus.CounterVec
	PersistFailures   *prometheus.CounterVec
	ContextTokens     prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CompletionCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_calls_total",
			Help:      "Completion-service calls by model and outcome.",
		}, []string{"model", "outcome"}),
		CompletionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_latency_seconds",
			Help:      "Completion-service round-trip latency in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		GateRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quality_gate_retries_total",
			Help:      "Quality-gate regeneration attempts by reason.",
		}, []string{"reason"}),
		PersistFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Best-effort turn persistence failures by tier.",
		}, []string{"tier"}),
		ContextTokens: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "context_tokens",
			Help:      "Token count of composed history context blocks.",
			Buckets:   []float64{50, 100, 250, 500, 750, 1000, 1500},
		}),
	}
}

func (m *Metrics) ObserveCompletion(model string, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.CompletionCalls.WithLabelValues(model, outcome).Inc()
	m.CompletionLatency.Observe(d.Seconds())
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
