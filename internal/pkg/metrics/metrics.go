package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the stats service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Reports        *prometheus.CounterVec   // Reports served, by scope, range and outcome
	ReportDuration *prometheus.HistogramVec // End-to-end report assembly time
	QueryDuration  *prometheus.HistogramVec // Single repository query time
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Reports: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "stats_reports_total",
			Help: "Total number of dashboard reports requested",
		}, []string{"scope", "range", "outcome"}), // outcome: ok, error
		ReportDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stats_report_duration_seconds",
			Help:    "Duration of dashboard report assembly.",
			Buckets: prometheus.DefBuckets,
		}, []string{"scope"}),
		QueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stats_query_duration_seconds",
			Help:    "Duration of report database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}), // query: count_attendance, employee_totals, ...
	}
}

// ObserveQuery records the time elapsed since start for the named query
func (m *Metrics) ObserveQuery(query string, start time.Time) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// ObserveReport records one finished report
func (m *Metrics) ObserveReport(scope, rangeMode string, err error, start time.Time) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Reports.WithLabelValues(scope, rangeMode, outcome).Inc()
	m.ReportDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
}
