package carbon

import "github.com/prometheus/client_golang/prometheus"

var (
	unknownTypeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sustainability",
		Subsystem: "engine",
		Name:      "unknown_activity_type_total",
		Help:      "Number of records that evaluated to zero impact because their activity type is not recognized.",
	}, []string{"activity_type"})

	missingMaterialEFCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sustainability",
		Subsystem: "engine",
		Name:      "missing_material_ef_total",
		Help:      "Number of material records that yielded zero savings because an emission factor was missing.",
	})

	sanitizedValueCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sustainability",
		Subsystem: "engine",
		Name:      "sanitized_values_total",
		Help:      "Number of records whose quantity was normalized to zero (negative, NaN, or infinite input).",
	}, []string{"activity_type"})
)

func init() {
	prometheus.MustRegister(unknownTypeCounter, missingMaterialEFCounter, sanitizedValueCounter)
}

func recordUnknownActivityType(activityType string) {
	unknownTypeCounter.WithLabelValues(activityType).Inc()
}

func recordMissingMaterialEF() {
	missingMaterialEFCounter.Inc()
}

func recordSanitizedValue(activityType string) {
	sanitizedValueCounter.WithLabelValues(activityType).Inc()
}
