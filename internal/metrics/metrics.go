package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments of the pipeline.
type Metrics struct {
	RunsTotal      prometheus.Counter
	RunDuration    prometheus.Histogram
	RowsProcessed  *prometheus.CounterVec
	Corrections    *prometheus.CounterVec
	SuccessRate    prometheus.Gauge
	AlertsTotal    *prometheus.CounterVec
	Escalations    *prometheus.CounterVec
	OpenHighAlerts prometheus.Gauge
}

// New registers the pipeline instruments on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataops_pipeline_runs_total",
			Help: "Number of completed pipeline runs.",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dataops_pipeline_run_duration_seconds",
			Help:    "Wall-clock duration of pipeline runs.",
			Buckets: prometheus.DefBuckets,
		}),
		RowsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataops_rows_processed_total",
			Help: "Rows per dataset by cleaning outcome.",
		}, []string{"dataset", "outcome"}),
		Corrections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataops_corrections_total",
			Help: "Field corrections applied per dataset.",
		}, []string{"dataset"}),
		SuccessRate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dataops_quality_success_rate",
			Help: "Quality check success rate of the latest run (0-100).",
		}),
		AlertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataops_alerts_total",
			Help: "Alerts raised by severity.",
		}, []string{"severity"}),
		Escalations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataops_escalations_total",
			Help: "Alert escalations by severity.",
		}, []string{"severity"}),
		OpenHighAlerts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dataops_open_high_severity_alerts",
			Help: "High and critical alerts produced by the latest run.",
		}),
	}
}

// Cleaning outcome label values for RowsProcessed.
const (
	OutcomeKept    = "kept"
	OutcomeDropped = "dropped"
	OutcomeFlagged = "flagged"
)
