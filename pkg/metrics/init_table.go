package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTableMetrics() {
	r.TableLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rainbow_table_lookups_total",
			Help: "Total number of endpoint lookups against a loaded table",
		},
		[]string{"result"},
	)

	r.TableLookupDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rainbow_table_lookup_duration_seconds",
			Help:    "Duration of a single endpoint lookup, index scan plus binary search",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12),
		},
	)

	r.TableRowsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "rainbow_table_rows_total",
			Help: "Number of chain rows in the currently loaded table",
		},
	)
}
