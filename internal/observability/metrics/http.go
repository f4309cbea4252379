package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	qaRequestsTotal    *prometheus.CounterVec
	qaRetrievedChunks  *prometheus.HistogramVec
	qaDuration         *prometheus.HistogramVec
	studyRequestsTotal *prometheus.CounterVec
	studyDuration      *prometheus.HistogramVec
	followupTotal      *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "amn",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "amn",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "amn",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	qaRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "amn",
			Subsystem: "qa",
			Name:      "requests_total",
			Help:      "Total completed QA requests by status and confidence.",
		},
		[]string{"service", "status", "confidence"},
	)
	qaRetrievedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "amn",
			Subsystem: "qa",
			Name:      "retrieved_chunks",
			Help:      "Distribution of retrieved chunks per QA request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 15},
		},
		[]string{"service"},
	)
	qaDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "amn",
			Subsystem: "qa",
			Name:      "duration_seconds",
			Help:      "End-to-end QA duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	studyRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "amn",
			Subsystem: "study",
			Name:      "requests_total",
			Help:      "Total study generation requests by kind and status.",
		},
		[]string{"service", "kind", "status"},
	)
	studyDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "amn",
			Subsystem: "study",
			Name:      "duration_seconds",
			Help:      "Study generation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "kind"},
	)
	followupTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "amn",
			Subsystem: "assistant",
			Name:      "followup_requests_total",
			Help:      "Total completed follow-up assistant requests.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		qaRequestsTotal,
		qaRetrievedChunks,
		qaDuration,
		studyRequestsTotal,
		studyDuration,
		followupTotal,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		qaRequestsTotal:    qaRequestsTotal,
		qaRetrievedChunks:  qaRetrievedChunks,
		qaDuration:         qaDuration,
		studyRequestsTotal: studyRequestsTotal,
		studyDuration:      studyDuration,
		followupTotal:      followupTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/subjects/"):
		return "/v1/subjects/{subject_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordQARequest(service, status, confidence string, retrievedChunks int, duration time.Duration) {
	if confidence == "" {
		confidence = "none"
	}
	m.qaRequestsTotal.WithLabelValues(service, status, confidence).Inc()
	m.qaRetrievedChunks.WithLabelValues(service).Observe(float64(retrievedChunks))
	m.qaDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordStudyRequest(service, kind, status string, duration time.Duration) {
	m.studyRequestsTotal.WithLabelValues(service, kind, status).Inc()
	m.studyDuration.WithLabelValues(service, kind).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordFollowUp(service, status string) {
	m.followupTotal.WithLabelValues(service, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
