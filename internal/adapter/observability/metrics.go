package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)

	ParseJobsEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parse_jobs_enqueued_total",
			Help: "Total number of parse jobs enqueued",
		},
		[]string{"type"},
	)
	ParseJobsProcessing = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parse_jobs_processing",
			Help: "Number of parse jobs currently processing",
		},
		[]string{"type"},
	)
	ParseJobsCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parse_jobs_completed_total",
			Help: "Total number of parse jobs completed",
		},
		[]string{"type"},
	)
	ParseJobsFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parse_jobs_failed_total",
			Help: "Total number of parse jobs failed",
		},
		[]string{"type"},
	)

	// ExtractionPathTotal records which path produced each resume.
	ExtractionPathTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_path_total",
			Help: "Resumes parsed by extraction path (ai, heuristic, heuristic_fallback)",
		},
		[]string{"path"},
	)

	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resume_overall_score",
			Help:    "Distribution of overall resume scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(ParseJobsEnqueuedTotal)
	prometheus.MustRegister(ParseJobsProcessing)
	prometheus.MustRegister(ParseJobsCompletedTotal)
	prometheus.MustRegister(ParseJobsFailedTotal)
	prometheus.MustRegister(ExtractionPathTotal)
	prometheus.MustRegister(OverallScoreHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

func EnqueueJob(jobType string) {
	ParseJobsEnqueuedTotal.WithLabelValues(jobType).Inc()
}

func StartProcessingJob(jobType string) {
	ParseJobsProcessing.WithLabelValues(jobType).Inc()
}

func CompleteJob(jobType string) {
	ParseJobsProcessing.WithLabelValues(jobType).Dec()
	ParseJobsCompletedTotal.WithLabelValues(jobType).Inc()
}

func FailJob(jobType string) {
	ParseJobsProcessing.WithLabelValues(jobType).Dec()
	ParseJobsFailedTotal.WithLabelValues(jobType).Inc()
}
