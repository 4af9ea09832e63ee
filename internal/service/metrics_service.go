package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the evaluation
// engine. All methods are nil-safe so instrumentation can be left unwired in
// tests.
type MetricsService struct {
	registry             *prometheus.Registry
	handler              http.Handler
	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	periodsStarted       prometheus.Counter
	evaluationsCompleted *prometheus.CounterVec
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
}

// NewMetricsService registers the service's Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	periodsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "evaluation_periods_started_total",
		Help: "Total number of evaluation periods started",
	})

	evaluationsCompleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evaluations_completed_total",
		Help: "Total number of completed evaluation submissions",
	}, []string{"rater_type"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "results_cache_hits_total",
		Help: "Total results cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "results_cache_misses_total",
		Help: "Total results cache misses",
	})

	registry.MustRegister(requestDuration, requestTotal, periodsStarted, evaluationsCompleted, cacheHits, cacheMisses)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		periodsStarted:       periodsStarted,
		evaluationsCompleted: evaluationsCompleted,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
	}
}

// ObserveHTTPRequest records duration and count for one handled request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// IncPeriodStarted counts a successful period start.
func (s *MetricsService) IncPeriodStarted() {
	if s == nil {
		return
	}
	s.periodsStarted.Inc()
}

// IncEvaluationCompleted counts a completed submission per rater type.
func (s *MetricsService) IncEvaluationCompleted(raterType string) {
	if s == nil {
		return
	}
	s.evaluationsCompleted.WithLabelValues(raterType).Inc()
}

// IncCacheHit counts a results cache hit.
func (s *MetricsService) IncCacheHit() {
	if s == nil {
		return
	}
	s.cacheHits.Inc()
}

// IncCacheMiss counts a results cache miss.
func (s *MetricsService) IncCacheMiss() {
	if s == nil {
		return
	}
	s.cacheMisses.Inc()
}

// HTTPHandler exposes the Prometheus scrape endpoint.
func (s *MetricsService) HTTPHandler() http.Handler {
	return s.handler
}
