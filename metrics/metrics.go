// Package metrics exposes Prometheus collectors for field extraction, cache
// and branch selection activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Execution statuses
const (
	StatusOK         = "ok"
	StatusParseError = "parse_error"
	StatusError      = "error"
)

const namespace = "structor"

// Metrics holds engine collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	fieldExecutions  *prometheus.CounterVec
	fieldDuration    *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	branchSelections *prometheus.CounterVec
}

// New creates collectors and registers them with registerer, nil registerer
// skips registration.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	ret := &Metrics{
		fieldExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_executions_total",
			Help:      "Number of field executor invocations by field type and status.",
		}, []string{"type", "status"}),
		fieldDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "field_duration_seconds",
			Help:      "Field executor latency by field type.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"type"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Number of field resolutions served from the result cache.",
		}),
		branchSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "branch_selections_total",
			Help:      "Number of branch selections by decision workflow and status.",
		}, []string{"workflow", "status"}),
	}
	if registerer == nil {
		return ret, nil
	}
	for _, collector := range ret.Collectors() {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// MustNew creates and registers collectors, it panics on registration error
func MustNew(registerer prometheus.Registerer) *Metrics {
	ret, err := New(registerer)
	if err != nil {
		panic(err)
	}
	return ret
}

// Collectors returns all collectors
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.fieldExecutions, m.fieldDuration, m.cacheHits, m.branchSelections}
}

// ObserveField records a field executor invocation
func (m *Metrics) ObserveField(fieldType, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fieldExecutions.WithLabelValues(fieldType, status).Inc()
	m.fieldDuration.WithLabelValues(fieldType).Observe(elapsed.Seconds())
}

// CacheHit records a cached field resolution
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// BranchSelected records a branch selection outcome
func (m *Metrics) BranchSelected(workflowID, status string) {
	if m == nil {
		return
	}
	m.branchSelections.WithLabelValues(workflowID, status).Inc()
}
