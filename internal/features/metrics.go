package features

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Report outcome label values.
const (
	OutcomeExtracted   = "extracted"
	OutcomeNoPositives = "no_positives"
	OutcomeFailed      = "failed"
)

// Metrics collects extraction counters on a private registry so a run can
// dump them to a node exporter textfile when it ends.
type Metrics struct {
	registry *prometheus.Registry
	reports  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	missing  prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics registers the extraction collectors on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bugloc_reports_total",
			Help: "Bug reports processed by extraction, by outcome.",
		}, []string{"outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bugloc_feature_rows_total",
			Help: "Feature rows emitted, by label.",
		}, []string{"label"}),
		missing: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bugloc_missing_candidates_total",
			Help: "Fixed files absent from the corpus snapshot.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bugloc_report_extraction_seconds",
			Help:    "Time spent assembling the rows of one report.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
	}
	m.registry.MustRegister(m.reports, m.rows, m.missing, m.duration)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observe(outcome string, a Assembly, seconds float64) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(outcome).Inc()
	m.missing.Add(float64(len(a.Missing)))
	m.duration.Observe(seconds)
	if outcome != OutcomeExtracted {
		return
	}
	m.rows.WithLabelValues("1").Add(float64(a.Positives))
	m.rows.WithLabelValues("0").Add(float64(len(a.Rows) - a.Positives))
}
