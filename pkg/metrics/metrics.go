package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "helpdesk"

// Metrics holds the collectors of the data-access core. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	TenantsRegistered  prometheus.Counter
	TenantTransitions  *prometheus.CounterVec
	ProvisionRuns      *prometheus.CounterVec
	ProvisionDuration  prometheus.Histogram
	ChangesetsApplied  prometheus.Counter
	LeasesAcquired     prometheus.Counter
	LeasesDestroyed    prometheus.Counter
	AcquireTimeouts    prometheus.Counter
	AcquireDuration    prometheus.Histogram
	CacheLookups       *prometheus.CounterVec
	CacheFlushedKeys   prometheus.Counter
	JanitorSweeps      *prometheus.CounterVec
	JanitorRowsDeleted prometheus.Counter
	JobRuns            *prometheus.CounterVec
}

// New creates and registers all collectors with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TenantsRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenants_registered_total",
			Help:      "Total number of tenants registered",
		}),
		TenantTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_transitions_total",
			Help:      "Tenant lifecycle transitions by target status",
		}, []string{"status"}),
		ProvisionRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provision_runs_total",
			Help:      "Schema provisioning attempts by result",
		}, []string{"result"}),
		ProvisionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provision_duration_seconds",
			Help:      "Duration of schema provisioning attempts",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ChangesetsApplied: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changesets_applied_total",
			Help:      "Total number of schema changesets applied",
		}),
		LeasesAcquired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_leases_total",
			Help:      "Total number of routed connection leases handed out",
		}),
		LeasesDestroyed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_leases_destroyed_total",
			Help:      "Leases whose connection was destroyed because the schema binding could not be reset",
		}),
		AcquireTimeouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_acquire_timeouts_total",
			Help:      "Total number of connection acquisitions that timed out",
		}),
		AcquireDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "connection_acquire_duration_seconds",
			Help:      "Time spent waiting for a pooled connection",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache region lookups by region and result",
		}, []string{"region", "result"}),
		CacheFlushedKeys: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_flushed_keys_total",
			Help:      "Keys removed by schema namespace flushes",
		}),
		JanitorSweeps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_janitor_sweeps_total",
			Help:      "Deduplication janitor sweeps by result",
		}, []string{"result"}),
		JanitorRowsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_janitor_rows_deleted_total",
			Help:      "Expired deduplication entries deleted",
		}),
		JobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_job_runs_total",
			Help:      "Scheduled job fires by job and outcome",
		}, []string{"job", "outcome"}),
	}
}

func (m *Metrics) IncTenantRegistered() {
	if m == nil {
		return
	}
	m.TenantsRegistered.Inc()
}

func (m *Metrics) IncTenantTransition(status string) {
	if m == nil {
		return
	}
	m.TenantTransitions.WithLabelValues(status).Inc()
}

// ObserveProvision records one provisioning attempt and the changesets it applied.
func (m *Metrics) ObserveProvision(start time.Time, applied int, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ProvisionRuns.WithLabelValues(result).Inc()
	m.ProvisionDuration.Observe(time.Since(start).Seconds())
	m.ChangesetsApplied.Add(float64(applied))
}

func (m *Metrics) ObserveAcquire(start time.Time, timedOut bool) {
	if m == nil {
		return
	}
	m.AcquireDuration.Observe(time.Since(start).Seconds())
	if timedOut {
		m.AcquireTimeouts.Inc()
		return
	}
	m.LeasesAcquired.Inc()
}

func (m *Metrics) IncLeaseDestroyed() {
	if m == nil {
		return
	}
	m.LeasesDestroyed.Inc()
}

func (m *Metrics) IncCacheLookup(region string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(region, result).Inc()
}

func (m *Metrics) AddCacheFlushed(n int) {
	if m == nil {
		return
	}
	m.CacheFlushedKeys.Add(float64(n))
}

// ObserveSweep records a janitor sweep. result is "ok", "skipped" or "error".
func (m *Metrics) ObserveSweep(result string, deleted int64) {
	if m == nil {
		return
	}
	m.JanitorSweeps.WithLabelValues(result).Inc()
	m.JanitorRowsDeleted.Add(float64(deleted))
}

// IncJobRun records a scheduler fire. outcome is "ok", "error", "overlap" or "locked".
func (m *Metrics) IncJobRun(job, outcome string) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(job, outcome).Inc()
}
