package remote

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for remote calls.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RefreshesTotal  *prometheus.CounterVec
	Reachable       prometheus.Gauge
}

// NewMetrics registers the remote client metrics once per process.
//
// Metrics:
//   - pmdash_remote_requests_total{method,route,kind} - completed calls by error kind ("ok" on success)
//   - pmdash_remote_request_duration_seconds{method,route} - call latency
//   - pmdash_remote_token_refreshes_total{result} - 401 refresh attempts
//   - pmdash_remote_reachable - 1 while the last call reached the server
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "pmdash_remote_requests_total",
					Help: "Total number of remote API calls",
				},
				[]string{"method", "route", "kind"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "pmdash_remote_request_duration_seconds",
					Help:    "Duration of remote API calls in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
			RefreshesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "pmdash_remote_token_refreshes_total",
					Help: "Total number of token refresh attempts after a 401",
				},
				[]string{"result"},
			),
			Reachable: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "pmdash_remote_reachable",
					Help: "1 if the last remote call reached the server, 0 otherwise",
				},
			),
		}
	})
	return globalMetrics
}
