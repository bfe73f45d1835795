// Package metrics exposes the process-wide Prometheus collectors for
// guardrail evaluation and classifier usage.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	registry *prometheus.Registry

	EvaluationsTotal        *prometheus.CounterVec
	EvaluationLatency       *prometheus.HistogramVec
	ClassifierTokensTotal   *prometheus.CounterVec
	ClassifierFailuresTotal prometheus.Counter
	AuditDroppedTotal       prometheus.Counter
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		EvaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "guardrail_evaluations_total",
			Help: "Guardrail evaluations by kind and resulting status.",
		}, []string{"kind", "status"}),
		EvaluationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guardrail_evaluation_duration_seconds",
			Help:    "Latency of individual guardrail evaluations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		ClassifierTokensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classifier_tokens_total",
			Help: "Tokens consumed by the classifier backend.",
		}, []string{"type"}),
		ClassifierFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "classifier_failures_total",
			Help: "Classifier backend calls that degraded to the pattern fallback.",
		}),
		AuditDroppedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "audit_records_dropped_total",
			Help: "Audit records dropped because the sink buffer was full.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) ObserveEvaluation(kind, status string, seconds float64) {
	r.EvaluationsTotal.WithLabelValues(kind, status).Inc()
	r.EvaluationLatency.WithLabelValues(kind).Observe(seconds)
}

func (r *Registry) ObserveTokens(prompt, completion int) {
	r.ClassifierTokensTotal.WithLabelValues("prompt").Add(float64(prompt))
	r.ClassifierTokensTotal.WithLabelValues("completion").Add(float64(completion))
}
