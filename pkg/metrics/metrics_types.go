package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics exposed by the build and crack engines.
type Registry struct {
	// Build metrics
	BuildChainsTotal       prometheus.Counter
	BuildChainsPerSecond   prometheus.Gauge
	BuildHashesPerSecond   prometheus.Gauge
	BuildBlocksInFlight    prometheus.Gauge
	BuildBlockDuration     prometheus.Histogram
	BuildBytesWritten      prometheus.Counter

	// Crack metrics
	CrackTargetsTotal        prometheus.Counter
	CrackTargetsRecoveredTotal prometheus.Counter
	CrackChainsGenerated     prometheus.Counter
	CrackCandidatesTotal     *prometheus.CounterVec
	CrackFalsePositivesTotal prometheus.Counter
	CrackDuration            prometheus.Histogram

	// Table metrics
	TableLookupsTotal    *prometheus.CounterVec
	TableLookupDuration  prometheus.Histogram
	TableRowsTotal       prometheus.Gauge

	// System metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initBuildMetrics()
	r.initCrackMetrics()
	r.initTableMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry, for
// wiring into an http.Handler via promhttp.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
