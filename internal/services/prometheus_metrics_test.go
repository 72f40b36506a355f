package services

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

var (
	sharedMetricsOnce sync.Once
	sharedMetrics     *PrometheusMetrics
)

// promauto registers on the default registry, so the collectors can only be
// created once per test binary.
func testMetrics() *PrometheusMetrics {
	sharedMetricsOnce.Do(func() {
		sharedMetrics = NewPrometheusMetrics().(*PrometheusMetrics)
	})
	return sharedMetrics
}

func TestPrometheusMetrics_Counters(t *testing.T) {
	m := testMetrics()

	before := testutil.ToFloat64(m.ledgerOperations.WithLabelValues("expense", "create"))
	m.IncrementCounter("ledger_operation", map[string]string{"resource": "expense", "operation": "create"})
	m.IncrementCounter("ledger_operation", map[string]string{"resource": "expense", "operation": "create"})
	assert.Equal(t, before+2, testutil.ToFloat64(m.ledgerOperations.WithLabelValues("expense", "create")))

	before = testutil.ToFloat64(m.dashboardComputations.WithLabelValues("stored", "miss"))
	m.IncrementCounter("dashboard_computed", map[string]string{"source": "stored", "cache": "miss"})
	assert.Equal(t, before+1, testutil.ToFloat64(m.dashboardComputations.WithLabelValues("stored", "miss")))

	before = testutil.ToFloat64(m.forecastDiagnostics.WithLabelValues("MALFORMED_RECORD"))
	m.IncrementCounter("forecast_diagnostic", map[string]string{"code": "MALFORMED_RECORD"})
	m.IncrementCounter("forecast_diagnostic", map[string]string{})
	assert.Equal(t, before+1, testutil.ToFloat64(m.forecastDiagnostics.WithLabelValues("MALFORMED_RECORD")))

	before = testutil.ToFloat64(m.authenticationEventsTotal.WithLabelValues("login_success"))
	m.IncrementCounter("authentication_event", map[string]string{"event_type": "login_success"})
	assert.Equal(t, before+1, testutil.ToFloat64(m.authenticationEventsTotal.WithLabelValues("login_success")))

	assert.NotPanics(t, func() {
		m.IncrementCounter("unknown_metric", nil)
	})
}

func TestPrometheusMetrics_Gauges(t *testing.T) {
	m := testMetrics()

	m.RecordGauge("dashboard_cache_entries", 7, nil)
	assert.Equal(t, float64(7), testutil.ToFloat64(m.dashboardCacheEntries))

	before := testutil.ToFloat64(m.sampleRecordsGenerated.WithLabelValues("income"))
	m.RecordGauge("sample_records", 4, map[string]string{"resource": "income"})
	assert.Equal(t, before+4, testutil.ToFloat64(m.sampleRecordsGenerated.WithLabelValues("income")))
}

func TestPrometheusMetrics_ProcessingTime(t *testing.T) {
	m := testMetrics()

	assert.NotPanics(t, func() {
		m.RecordProcessingTime("dashboard_stored", 15*time.Millisecond)
		m.RecordProcessingTime("dashboard_snapshot", time.Millisecond)
		m.RecordProcessingTime("something_else", time.Second)
	})
	assert.Equal(t, 2, testutil.CollectAndCount(m.dashboardDuration))
}
