package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the dispatch module. Tracks outcome
// counts and the duration of the transactional dispatch path.
type Metrics struct {
	ProtocolsLinked    prometheus.Counter
	DispatchFailures   prometheus.Counter
	Informational      prometheus.Counter
	ConflictsRecovered prometheus.Counter
	DispatchDuration   prometheus.Histogram
}

// New creates a Metrics instance with all dispatch metrics registered.
func New() *Metrics {
	return &Metrics{
		ProtocolsLinked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atende_protocols_linked_total",
			Help: "Total number of protocols linked to a domain record",
		}),
		DispatchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atende_dispatch_failures_total",
			Help: "Total number of dispatch attempts that failed and rolled back",
		}),
		Informational: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atende_dispatch_informational_total",
			Help: "Total number of dispatches short-circuited for informational services",
		}),
		ConflictsRecovered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atende_dispatch_conflicts_recovered_total",
			Help: "Total number of concurrent dispatches recovered via linkage re-read",
		}),
		DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "atende_dispatch_duration_seconds",
			Help:    "Duration of the transactional dispatch path",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveDispatch records the duration of a dispatch attempt.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveDispatch(start time.Time) {
	m.DispatchDuration.Observe(time.Since(start).Seconds())
}
