package mutation

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for mutation outcomes.
type Metrics struct {
	MutationsTotal *prometheus.CounterVec
	InFlight       prometheus.Gauge
}

// NewMetrics registers the coordinator metrics once per process.
//
// Metrics:
//   - pmdash_mutations_total{kind,outcome} - finished mutations ("superseded" for discarded ones)
//   - pmdash_mutations_in_flight - mutations awaiting a response
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			MutationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "pmdash_mutations_total",
					Help: "Total number of optimistic mutations by outcome",
				},
				[]string{"kind", "outcome"},
			),
			InFlight: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "pmdash_mutations_in_flight",
					Help: "Number of mutations awaiting a remote response",
				},
			),
		}
	})
	return globalMetrics
}
