package materials

import (
	"math"
	"sort"
)

// Component weights of the recommendation score. They sum to 100.
const (
	carbonWeight   = 40.0
	categoryWeight = 30.0
	supplierWeight = 20.0
	localWeight    = 10.0

	defaultSupplierRating = 3.0

	// NeutralScore is returned when scoring a malformed catalog row; a bad
	// entry must rank mid-list rather than break the whole listing.
	NeutralScore = 50.0
)

// Score ranks a material against the caller's profile, returning a value in
// [0,100]. Each component clamps at zero before summing:
//
//   - carbon savings (40): how far the footprint sits below the category's
//     industry average;
//   - category match (30): full points when the material's category is one of
//     the profile's high-impact categories;
//   - supplier rating (20): 1–5 rating scaled by 4, unrated suppliers count
//     as the neutral rating 3;
//   - local sourcing (10): flat bonus.
//
// A panic while reading the material (malformed catalog data) degrades to
// NeutralScore instead of propagating.
func Score(m Material, profile Profile, industryAverages map[string]float64) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			recordScorePanic()
			score = NeutralScore
		}
	}()

	avg := IndustryAverage(m.Category, industryAverages)

	carbon := 0.0
	if avg > 0 {
		carbon = (avg - m.Eco.CarbonFootprint) / avg * carbonWeight
	}
	if carbon < 0 || math.IsNaN(carbon) {
		carbon = 0
	}

	category := 0.0
	for _, c := range profile.HighImpactCategories {
		if c == m.Category {
			category = categoryWeight
			break
		}
	}

	rating := defaultSupplierRating
	if m.Supplier != nil && m.Supplier.Rating >= 1 && m.Supplier.Rating <= 5 {
		rating = m.Supplier.Rating
	}
	supplier := rating * supplierWeight / 5

	local := 0.0
	if m.Eco.Local {
		local = localWeight
	}

	return clampScore(carbon + category + supplier + local)
}

// PotentialSavings estimates the kg CO₂e avoided by choosing the material
// over the category average for the given quantity. The figure is display
// only, signed, and deliberately not clamped: a worse-than-average material
// shows a negative saving.
func PotentialSavings(m Material, profile Profile, industryAverages map[string]float64) float64 {
	avg := IndustryAverage(m.Category, industryAverages)
	savings := (avg - m.Eco.CarbonFootprint) * profile.EstimatedQuantity
	if math.IsNaN(savings) || math.IsInf(savings, 0) {
		return 0
	}
	return savings
}

// Rank scores every candidate and returns them ordered best first. Ties keep
// catalog order so repeated listings are stable.
func Rank(candidates []Material, profile Profile, industryAverages map[string]float64) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, m := range candidates {
		out = append(out, Scored{
			Material:            m,
			RecommendationScore: Score(m, profile, industryAverages),
			PotentialSavings:    PotentialSavings(m, profile, industryAverages),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecommendationScore > out[j].RecommendationScore
	})
	return out
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return NeutralScore
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
