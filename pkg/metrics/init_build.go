package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBuildMetrics() {
	r.BuildChainsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "rainbow_build_chains_total",
			Help: "Total number of chains generated across all blocks",
		},
	)

	r.BuildChainsPerSecond = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "rainbow_build_chains_per_second",
			Help: "Current chain generation rate",
		},
	)

	r.BuildHashesPerSecond = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "rainbow_build_hashes_per_second",
			Help: "Current hash/reduce round rate",
		},
	)

	r.BuildBlocksInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "rainbow_build_blocks_in_flight",
			Help: "Number of blocks currently being generated by worker threads",
		},
	)

	r.BuildBlockDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rainbow_build_block_duration_seconds",
			Help:    "Wall-clock time to generate one block",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
	)

	r.BuildBytesWritten = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "rainbow_build_bytes_written_total",
			Help: "Total bytes appended to the table file",
		},
	)
}
