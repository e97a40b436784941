package helpers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Tracks the number of HTTP requests.",
	})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Tracks the latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	})

	likesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_likes_total",
		Help: "Tracks likes and unlikes of posts.",
	}, []string{"action"})

	reportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_reports_total",
		Help: "Tracks created reports, by reason.",
	}, []string{"reason"})
)

func GetRegistery() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestsTotal,
		requestDuration,
		likesTotal,
		reportsTotal,
	)

	return registry
}

func IncrementRequests() {
	requestsTotal.Inc()
}

func ObserveRequestDuration(time float64) {
	requestDuration.Observe(time)
}

// IncrementLikes counts a "like" or "unlike" action
func IncrementLikes(action string) {
	likesTotal.WithLabelValues(action).Inc()
}

// IncrementReports counts a created report
func IncrementReports(reason string) {
	reportsTotal.WithLabelValues(reason).Inc()
}

// Metrics is a middleware counting requests, except the ones
// made on the metrics route itself
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		IncrementRequests()

		next.ServeHTTP(w, r)

		ObserveRequestDuration(time.Since(start).Seconds())
	})
}
