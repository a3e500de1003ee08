package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	interviewsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interviews_started_total",
			Help: "Total number of interview sessions started",
		},
	)

	interviewsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interviews_completed_total",
			Help: "Total number of interview sessions that reached completion",
		},
	)

	answersRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_answers_total",
			Help: "Total number of patient answers recorded",
		},
		[]string{"field"},
	)

	summarizerFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summarizer_fallbacks_total",
			Help: "Total number of summarizer operations that degraded to fallback text",
		},
		[]string{"operation"},
	)

	reportsAssembled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reports_assembled_total",
			Help: "Total number of assembled interview reports",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and durations per method and path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath caps path cardinality; route parameters are UUIDs, so long
// paths are collapsed rather than tracked individually.
func normalizePath(path string) string {
	if len(path) > 64 {
		return "/api/..."
	}
	return path
}

func RecordInterviewStarted() {
	interviewsStarted.Inc()
}

func RecordInterviewCompleted() {
	interviewsCompleted.Inc()
}

func RecordAnswerRecorded(field string) {
	answersRecorded.WithLabelValues(field).Inc()
}

func RecordSummarizerFallback(operation string) {
	summarizerFallbacks.WithLabelValues(operation).Inc()
}

func RecordReportAssembled() {
	reportsAssembled.Inc()
}
