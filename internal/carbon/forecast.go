package carbon

import (
	"sort"
	"time"
)

// forecastWindow caps how many trailing points feed the regression so an old
// baseline cannot drown out the recent rate of change.
const forecastWindow = 12

// Forecast projects the trend forward by horizon points using an ordinary
// least-squares linear fit per component over the trailing window. Projected
// points are evenly spaced by the median spacing of the historical trend and
// lie strictly after the last historical timestamp.
//
// Emissions and savings are clamped at zero; net is their difference and may
// legitimately go negative (carbon-negative). Fewer than two historical
// points yield an empty forecast: there is nothing to extrapolate from.
func Forecast(trend []TrendPoint, horizon int) []TrendPoint {
	if len(trend) < 2 || horizon <= 0 {
		return []TrendPoint{}
	}

	window := trend
	if len(window) > forecastWindow {
		window = window[len(window)-forecastWindow:]
	}

	step := medianSpacing(trend)
	last := trend[len(trend)-1].Time

	emSlope, emIntercept := linearFit(window, func(p TrendPoint) float64 { return p.Emissions })
	svSlope, svIntercept := linearFit(window, func(p TrendPoint) float64 { return p.Savings })

	n := float64(len(window))
	out := make([]TrendPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		x := n - 1 + float64(i)
		emissions := emIntercept + emSlope*x
		savings := svIntercept + svSlope*x
		if emissions < 0 {
			emissions = 0
		}
		if savings < 0 {
			savings = 0
		}
		out = append(out, TrendPoint{
			Time:      last.Add(time.Duration(i) * step),
			Emissions: emissions,
			Savings:   savings,
			Net:       emissions - savings,
		})
	}
	return out
}

// linearFit returns slope and intercept of the least-squares line through
// (index, extract(point)) for the window. A degenerate denominator falls back
// to a flat line at the mean.
func linearFit(window []TrendPoint, extract func(TrendPoint) float64) (slope, intercept float64) {
	n := float64(len(window))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range window {
		x := float64(i)
		y := extract(p)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// medianSpacing returns the median gap between consecutive trend timestamps.
// Zero and negative gaps (same-instant records) are kept in the ordering but
// a fully collapsed trend falls back to a daily step so forecast times still
// move strictly forward.
func medianSpacing(trend []TrendPoint) time.Duration {
	gaps := make([]time.Duration, 0, len(trend)-1)
	for i := 1; i < len(trend); i++ {
		gaps = append(gaps, trend[i].Time.Sub(trend[i-1].Time))
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })

	median := gaps[len(gaps)/2]
	if len(gaps)%2 == 0 {
		median = (gaps[len(gaps)/2-1] + gaps[len(gaps)/2]) / 2
	}
	if median <= 0 {
		return 24 * time.Hour
	}
	return median
}
