// Package metrics provides Prometheus metrics for the patent checker service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every metric the service exports
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	llmCalls        *prometheus.CounterVec
	llmCallDuration *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec

	assessments *prometheus.CounterVec
}

// NewManager creates a metrics manager on its own registry unless one is given
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "patent_checker",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.llmCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "llm_calls_total",
		Help:      "Upstream LLM calls by provider, operation and outcome",
	}, []string{"provider", "operation", "outcome"})

	m.llmCallDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "llm_call_duration_seconds",
		Help:      "Upstream LLM call duration in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"provider", "operation"})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "llm_cache_lookups_total",
		Help:      "LLM reply cache lookups by result",
	}, []string{"result"})

	m.assessments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "assessments_total",
		Help:      "Infringement assessments by outcome",
	}, []string{"outcome"})
}

// RecordHTTPRequest records one served request
func (m *Manager) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordLLMCall records one upstream call
func (m *Manager) RecordLLMCall(provider, operation string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.llmCalls.WithLabelValues(provider, operation, outcome).Inc()
	m.llmCallDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordCacheLookup records a reply cache hit or miss
func (m *Manager) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordAssessment records a finished assessment
func (m *Manager) RecordAssessment(outcome string) {
	m.assessments.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
