package materials

// defaultIndustryAverages holds reference carbon footprints (kg CO₂e per
// unit) per material category, used when the caller supplies no figure for a
// category.
var defaultIndustryAverages = map[string]float64{
	"concrete":   300,
	"steel":      1850,
	"timber":     110,
	"insulation": 45,
	"brick":      240,
	"glass":      850,
	"aluminum":   8200,
	"drywall":    120,
}

// FallbackIndustryAverage covers categories absent from both the caller's
// reference data and the default table.
const FallbackIndustryAverage = 500.0

// IndustryAverage resolves the reference footprint for a category: caller
// overrides first, then the default table, then the global fallback.
func IndustryAverage(category string, overrides map[string]float64) float64 {
	if avg, ok := overrides[category]; ok && avg > 0 {
		return avg
	}
	if avg, ok := defaultIndustryAverages[category]; ok {
		return avg
	}
	return FallbackIndustryAverage
}
