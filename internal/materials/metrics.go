package materials

import "github.com/prometheus/client_golang/prometheus"

var scorePanicCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "sustainability",
	Subsystem: "materials",
	Name:      "score_panics_total",
	Help:      "Number of material scorings that degraded to the neutral score after a panic on malformed catalog data.",
})

func init() {
	prometheus.MustRegister(scorePanicCounter)
}

func recordScorePanic() {
	scorePanicCounter.Inc()
}
