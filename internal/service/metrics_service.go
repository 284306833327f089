package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the portal.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	reviewDecisions *prometheus.CounterVec
	storeLatency    prometheus.Observer
	storeFailures   prometheus.Counter
}

// NewMetricsService registers the portal's Prometheus collectors.
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

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "form_submissions_total",
		Help: "Total form submissions by form type",
	}, []string{"form_type"})

	reviewDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "review_decisions_total",
		Help: "Total review decisions by entity and outcome",
	}, []string{"entity", "decision"})

	storeLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "object_store_latency_seconds",
		Help:    "Latency of document store operations",
		Buckets: prometheus.DefBuckets,
	})

	storeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "object_store_failures_total",
		Help: "Total failed document store operations",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, submissions, reviewDecisions, storeLatency, storeFailures, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		submissions:     submissions,
		reviewDecisions: reviewDecisions,
		storeLatency:    storeLatency,
		storeFailures:   storeFailures,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// CountSubmission records one successful form submission.
func (m *MetricsService) CountSubmission(formType string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(formType).Inc()
}

// CountReviewDecision records one approval or decline.
func (m *MetricsService) CountReviewDecision(entity, decision string) {
	if m == nil {
		return
	}
	m.reviewDecisions.WithLabelValues(entity, decision).Inc()
}

// ObserveStoreCall records a document store round trip.
func (m *MetricsService) ObserveStoreCall(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.storeLatency.Observe(duration.Seconds())
	if err != nil {
		m.storeFailures.Inc()
	}
}
