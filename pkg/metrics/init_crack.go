package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCrackMetrics() {
	r.CrackTargetsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "rainbow_crack_targets_total",
			Help: "Total number of target hashes submitted for cracking",
		},
	)

	r.CrackTargetsRecoveredTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "rainbow_crack_targets_recovered_total",
			Help: "Total number of target hashes successfully recovered",
		},
	)

	r.CrackChainsGenerated = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "rainbow_crack_chains_generated_total",
			Help: "Total number of backwards column chains generated while searching",
		},
	)

	r.CrackCandidatesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rainbow_crack_candidates_total",
			Help: "Total number of endpoint candidates checked against the table index",
		},
		[]string{"column"},
	)

	r.CrackFalsePositivesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "rainbow_crack_false_positives_total",
			Help: "Total number of candidate chains that matched an endpoint but failed regeneration",
		},
	)

	r.CrackDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rainbow_crack_duration_seconds",
			Help:    "Wall-clock time to resolve one target hash, successful or not",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		},
	)
}
