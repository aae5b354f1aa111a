// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// IntentsTotal counts classified messages per intent.
	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_intents_total",
			Help: "Messages classified per intent",
		},
		[]string{"intent"},
	)

	// StoreQueryDuration tracks data store query latency.
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Data store query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"query", "status"},
	)

	// CacheLookupsTotal counts cache hits and misses.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_cache_lookups_total",
			Help: "Read cache lookups by result",
		},
		[]string{"resource", "result"},
	)

	// LLMCompletionDuration tracks completion call latency.
	LLMCompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_completion_duration_seconds",
			Help:    "LLM completion duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// RepliesTotal counts replies posted by the thread router.
	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_replies_total",
			Help: "Replies posted per routing path",
		},
		[]string{"path"},
	)

	// ThreadsTotal tracks threads created.
	ThreadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threads_total",
			Help: "Total threads created",
		},
		[]string{"kind"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordStoreQuery records a data store query outcome.
func RecordStoreQuery(query string, err error, duration float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StoreQueryDuration.WithLabelValues(query, status).Observe(duration)
}

// RecordCompletion records metrics for an LLM completion.
func RecordCompletion(provider, model, status string, duration float64, tokensIn, tokensOut int) {
	LLMCompletionDuration.WithLabelValues(provider, status).Observe(duration)
	if model == "" {
		return
	}
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}
