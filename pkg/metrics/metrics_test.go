package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/helpdesk/pkg/metrics"
)

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())

	m.IncTenantRegistered()
	m.ObserveProvision(time.Now(), 3, nil)
	m.ObserveProvision(time.Now(), 1, errors.New("boom"))
	m.ObserveAcquire(time.Now(), false)
	m.ObserveAcquire(time.Now(), true)
	m.IncCacheLookup("ticket", true)
	m.IncCacheLookup("ticket", false)
	m.ObserveSweep("ok", 5)
	m.IncJobRun("dedup-janitor", "locked")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TenantsRegistered))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ChangesetsApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProvisionRuns.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeasesAcquired))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AcquireTimeouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("ticket", "hit")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.JanitorRowsDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("dedup-janitor", "locked")))
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.IncTenantRegistered()
		m.IncTenantTransition("active")
		m.ObserveProvision(time.Now(), 1, nil)
		m.ObserveAcquire(time.Now(), true)
		m.IncLeaseDestroyed()
		m.IncCacheLookup("x", true)
		m.AddCacheFlushed(3)
		m.ObserveSweep("skipped", 0)
		m.IncJobRun("x", "ok")
	})
}
