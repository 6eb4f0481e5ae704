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
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hms_http_requests_total",
		Help: "Total HTTP requests served, by method and status code",
	}, []string{"method", "status"})

	requestDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hms_http_request_duration_ms",
		Help:    "Latency of HTTP requests in milliseconds",
		Buckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hms_logins_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})
)

// ObserveRequest records one served request.
func ObserveRequest(method string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	requestDurationMs.Observe(float64(elapsed.Microseconds()) / 1000.0)
}

// ObserveLogin records a login attempt. Outcome is "success" or "failure".
func ObserveLogin(outcome string) {
	loginsTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
