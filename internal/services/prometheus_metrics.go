package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	dashboardComputations     *prometheus.CounterVec
	dashboardDuration         *prometheus.HistogramVec
	forecastDiagnostics       *prometheus.CounterVec
	ledgerOperations          *prometheus.CounterVec
	dashboardCacheEntries     prometheus.Gauge
	sampleRecordsGenerated    *prometheus.CounterVec
	authenticationEventsTotal *prometheus.CounterVec
}

// NewPrometheusMetrics registers the application collectors with the default
// registry. It must be called once per process.
func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		dashboardComputations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_computations_total",
				Help: "Total number of dashboard computations",
			},
			[]string{"source", "cache"},
		),
		dashboardDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_compute_duration_seconds",
				Help:    "Time spent computing a dashboard, including snapshot loading",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		forecastDiagnostics: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_diagnostics_total",
				Help: "Total number of diagnostics reported by the forecast engine",
			},
			[]string{"code"},
		),
		ledgerOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of ledger write operations",
			},
			[]string{"resource", "operation"},
		),
		dashboardCacheEntries: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_cache_entries",
				Help: "Current number of memoized dashboards",
			},
		),
		sampleRecordsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sample_records_generated_total",
				Help: "Total number of generated sample records",
			},
			[]string{"resource"},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "dashboard_computed":
		m.dashboardComputations.WithLabelValues(tags["source"], tags["cache"]).Inc()
	case "forecast_diagnostic":
		if code := tags["code"]; code != "" {
			m.forecastDiagnostics.WithLabelValues(code).Inc()
		}
	case "ledger_operation":
		m.ledgerOperations.WithLabelValues(tags["resource"], tags["operation"]).Inc()
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "dashboard_stored", "dashboard_snapshot":
		m.dashboardDuration.WithLabelValues(name[len("dashboard_"):]).Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "dashboard_cache_entries":
		m.dashboardCacheEntries.Set(value)
	case "sample_records":
		if resource := tags["resource"]; resource != "" {
			m.sampleRecordsGenerated.WithLabelValues(resource).Add(value)
		}
	}
}
