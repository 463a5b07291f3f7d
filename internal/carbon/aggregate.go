package carbon

import (
	"sort"
	"time"
)

// TrendPoint is one per-activity entry in the impact time series.
type TrendPoint struct {
	Time      time.Time
	Emissions float64
	Savings   float64
	Net       float64
}

// Summary is the derived carbon view over a set of records. It is always
// rebuilt from the full activity set, never patched incrementally.
type Summary struct {
	TotalEmissions float64
	TotalSavings   float64
	NetEmissions   float64
	Trend          []TrendPoint
}

// Aggregate folds the records into totals and a time-ordered trend, one point
// per record. Records are stably sorted by timestamp ascending, so ties keep
// their insertion order and repeated calls on the same input produce identical
// output. Empty input yields a zero summary and an empty trend.
func (e *Evaluator) Aggregate(records []Record) Summary {
	ordered := make([]Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	summary := Summary{Trend: make([]TrendPoint, 0, len(ordered))}
	for _, rec := range ordered {
		impact := e.Evaluate(rec)
		summary.Trend = append(summary.Trend, TrendPoint{
			Time:      rec.Timestamp,
			Emissions: impact.Emissions,
			Savings:   impact.Savings,
			Net:       impact.Emissions - impact.Savings,
		})
		summary.TotalEmissions += impact.Emissions
		summary.TotalSavings += impact.Savings
	}
	summary.NetEmissions = summary.TotalEmissions - summary.TotalSavings
	return summary
}
