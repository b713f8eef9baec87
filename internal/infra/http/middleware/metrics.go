package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	syncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadsync_sync_runs_total",
			Help: "Total number of sheet sync attempts",
		},
		[]string{"status"},
	)

	leadsSynced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadsync_leads_synced_total",
			Help: "Total number of leads written by sheet syncs",
		},
	)

	rowsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadsync_rows_dropped_total",
			Help: "Total number of sheet rows dropped for missing mobile",
		},
	)

	webhookCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadsync_webhook_calls_total",
			Help: "Total number of voice call webhooks processed",
		},
		[]string{"result"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern usa o padrão do chi ("/sync/logs") para não explodir a cardinalidade com query/ids.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Recorder liga os contadores de domínio aos use cases.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (Recorder) ObserveSync(status string, rowsSynced, dropped int) {
	syncRuns.WithLabelValues(status).Inc()
	leadsSynced.Add(float64(rowsSynced))
	rowsDropped.Add(float64(dropped))
}

func (Recorder) ObserveCall(result string) {
	webhookCalls.WithLabelValues(result).Inc()
}
