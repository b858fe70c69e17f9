package metrics

import (
	"strconv"
	"time"
)

// RecordChainsBuilt records a completed block's chain generation rate.
func (r *Registry) RecordChainsBuilt(chains uint64, elapsed time.Duration) {
	r.BuildChainsTotal.Add(float64(chains))
	r.BuildBlockDuration.Observe(elapsed.Seconds())
	if elapsed > 0 {
		r.BuildChainsPerSecond.Set(float64(chains) / elapsed.Seconds())
	}
}

// RecordHashesPerSecond updates the current hash/reduce round throughput gauge.
func (r *Registry) RecordHashesPerSecond(rate float64) {
	r.BuildHashesPerSecond.Set(rate)
}

// RecordBytesWritten accounts for bytes appended to the table file.
func (r *Registry) RecordBytesWritten(n int) {
	r.BuildBytesWritten.Add(float64(n))
}

// RecordCrack records the outcome of resolving a single target hash.
func (r *Registry) RecordCrack(recovered bool, falsePositives int, duration time.Duration) {
	r.CrackTargetsTotal.Inc()
	if recovered {
		r.CrackTargetsRecoveredTotal.Inc()
	}
	r.CrackFalsePositivesTotal.Add(float64(falsePositives))
	r.CrackDuration.Observe(duration.Seconds())
}

// RecordCandidateColumn records a candidate check made while walking backwards
// from the given column.
func (r *Registry) RecordCandidateColumn(column int) {
	r.CrackCandidatesTotal.WithLabelValues(strconv.Itoa(column)).Inc()
}

// RecordLookup records a single endpoint lookup against the loaded table.
func (r *Registry) RecordLookup(found bool, duration time.Duration) {
	result := "miss"
	if found {
		result = "hit"
	}
	r.TableLookupsTotal.WithLabelValues(result).Inc()
	r.TableLookupDuration.Observe(duration.Seconds())
}

// SetTableRows sets the current row count gauge for the loaded table.
func (r *Registry) SetTableRows(n uint64) {
	r.TableRowsTotal.Set(float64(n))
}

