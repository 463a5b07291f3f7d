package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activityLoggedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sustainability",
		Subsystem: "persistence",
		Name:      "last_activity_logged_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity persisted to Postgres.",
	})
	summaryCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sustainability",
		Subsystem: "reports",
		Name:      "carbon_summaries_computed_total",
		Help:      "Number of carbon summaries recomputed for API reads.",
	})
	summaryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sustainability",
		Subsystem: "reports",
		Name:      "carbon_summary_duration_seconds",
		Help:      "Time spent loading activities and recomputing a carbon summary.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	})
)

func init() {
	prometheus.MustRegister(activityLoggedGauge, summaryCounter, summaryDuration)
}

// RecordActivityLogged updates the persistence watermark gauge.
func RecordActivityLogged(ts time.Time) {
	if ts.IsZero() {
		return
	}
	activityLoggedGauge.Set(float64(ts.Unix()))
}

// ObserveSummaryComputed records one summary recomputation and its latency.
func ObserveSummaryComputed(elapsed time.Duration) {
	summaryCounter.Inc()
	summaryDuration.Observe(elapsed.Seconds())
}
